package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/obaplab/obap-backend/config"
	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// XLSX 형식
//   restaurants 시트: 식당명 | 분류 | 연락처 | 지번주소 | 도로명주소 | 경도 | 위도 | 가격대 | 소개 | 개업일
//   menus 시트(선택): 식당명 | 지번주소 | 메뉴명 | 가격 | 설명 | 대표메뉴(Y/N)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Repository 생성
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	menuRepo := repository.NewMenuRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	restaurants, err := readRestaurants(f)
	if err != nil {
		log.Fatal("Failed to read restaurants:", err)
	}

	fmt.Printf("Total restaurants to import: %d\n", len(restaurants))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := restaurantRepo.BulkCreate(restaurants, batchSize); err != nil {
		log.Fatal("Failed to bulk create restaurants:", err)
	}

	fmt.Printf("Restaurants imported: %d\n", len(restaurants))

	// menus 시트가 있으면 메뉴도 임포트
	// CreateInBatches가 ID를 채워주므로 식당명+주소로 매핑한다
	menus, err := readMenus(f, restaurants)
	if err != nil {
		log.Fatal("Failed to read menus:", err)
	}
	if len(menus) > 0 {
		if err := menuRepo.BulkCreate(menus, batchSize); err != nil {
			log.Fatal("Failed to bulk create menus:", err)
		}
		fmt.Printf("Menus imported: %d\n", len(menus))
	}

	fmt.Println("Import completed successfully!")
}

func readRestaurants(f *excelize.File) ([]model.Restaurant, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var restaurants []model.Restaurant
	seen := make(map[string]bool) // 중복 제거용
	skippedCount := 0
	invalidCoordCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 7 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		phone := strings.TrimSpace(row[2])
		address := strings.TrimSpace(row[3])
		roadAddress := strings.TrimSpace(row[4])
		longitudeStr := strings.TrimSpace(row[5])
		latitudeStr := strings.TrimSpace(row[6])

		// 1. 기본 필수 항목 검사
		if name == "" || category == "" {
			skippedCount++
			continue
		}

		// 2. 식당명 품질 검증
		if !isValidRestaurantName(name) {
			skippedCount++
			continue
		}

		// 3. 주소 유효성 검증 (지번/도로명 둘 중 하나는 필수)
		if address == "" && roadAddress == "" {
			skippedCount++
			continue
		}
		if address == "" {
			address = roadAddress
		}

		// 4. 좌표 유효성 검증
		lng, errLng := strconv.ParseFloat(longitudeStr, 64)
		lat, errLat := strconv.ParseFloat(latitudeStr, 64)
		if errLng != nil || errLat != nil || lng == 0 || lat == 0 {
			invalidCoordCount++
			skippedCount++
			continue
		}

		// 중복 체크 (이름+주소 기준)
		key := restaurantKey(name, address)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		restaurant := model.Restaurant{
			Name:        name,
			Category:    category,
			Phone:       phone,
			Address:     address,
			RoadAddress: roadAddress,
			Latitude:    lat,
			Longitude:   lng,
		}

		if len(row) > 7 {
			restaurant.PriceTier = parsePriceTier(strings.TrimSpace(row[7]))
		}
		if len(row) > 8 {
			restaurant.Description = strings.TrimSpace(row[8])
		}
		if len(row) > 9 {
			if opened, err := time.Parse("2006-01-02", strings.TrimSpace(row[9])); err == nil {
				restaurant.OpeningDate = &opened
			}
		}

		restaurants = append(restaurants, restaurant)

		if len(restaurants)%500 == 0 {
			fmt.Printf("Processed %d restaurants...\n", len(restaurants))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid restaurants: %d\n", len(restaurants))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid coordinates: %d\n", invalidCoordCount)

	return restaurants, nil
}

func readMenus(f *excelize.File, restaurants []model.Restaurant) ([]model.Menu, error) {
	rows, err := f.GetRows("menus")
	if err != nil {
		// 시트가 없으면 메뉴는 건너뛴다
		return nil, nil
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	idByKey := make(map[string]uint, len(restaurants))
	for _, r := range restaurants {
		idByKey[restaurantKey(r.Name, r.Address)] = r.ID
	}

	var menus []model.Menu
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			skippedCount++
			continue
		}

		restaurantName := strings.TrimSpace(row[0])
		restaurantAddr := strings.TrimSpace(row[1])
		menuName := strings.TrimSpace(row[2])
		priceStr := strings.TrimSpace(row[3])

		restaurantID, ok := idByKey[restaurantKey(restaurantName, restaurantAddr)]
		if !ok || menuName == "" {
			skippedCount++
			continue
		}

		price, err := strconv.Atoi(priceStr)
		if err != nil || price < 0 {
			skippedCount++
			continue
		}

		menu := model.Menu{
			RestaurantID: restaurantID,
			MenuName:     menuName,
			Price:        price,
			IsAvailable:  true,
		}
		if len(row) > 4 {
			menu.Description = strings.TrimSpace(row[4])
		}
		if len(row) > 5 {
			flag := strings.ToUpper(strings.TrimSpace(row[5]))
			menu.IsSignature = flag == "Y" || flag == "TRUE"
		}

		menus = append(menus, menu)
	}

	fmt.Printf("Menu rows skipped: %d\n", skippedCount)
	return menus, nil
}

func restaurantKey(name, address string) string {
	return name + "|" + address
}

// parsePriceTier는 시트의 가격대 표기를 정규화합니다
func parsePriceTier(raw string) model.PriceTier {
	switch raw {
	case string(model.PriceTierUnder8000), "8000원 이하":
		return model.PriceTierUnder8000
	case string(model.PriceTierAround10000), "1만원 내외":
		return model.PriceTierAround10000
	case string(model.PriceTierPremium), "프리미엄":
		return model.PriceTierPremium
	default:
		return ""
	}
}

// isValidRestaurantName은 식당명이 유효한지 검증합니다
func isValidRestaurantName(name string) bool {
	// 1. 최소 길이 체크 (2글자 미만 제외)
	nameRunes := []rune(name)
	if len(nameRunes) < 2 {
		return false
	}

	// 2. 숫자만 있는 경우 제외
	numOnlyReg := regexp.MustCompile(`^[0-9]+$`)
	if numOnlyReg.MatchString(name) {
		return false
	}

	// 3. 특수문자만 있는 경우 제외 (공백, 구두점, 기호만)
	specialOnlyReg := regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	if specialOnlyReg.MatchString(name) {
		return false
	}

	return true
}
