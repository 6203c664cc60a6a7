package util

import (
	"regexp"
	"strings"
)

// 공개 이메일 서비스 도메인 목록 - 이 도메인으로 가입하면 직장인으로 보지 않는다
var publicEmailDomains = map[string]bool{
	"gmail.com":    true,
	"naver.com":    true,
	"daum.net":     true,
	"kakao.com":    true,
	"hanmail.net":  true,
	"yahoo.com":    true,
	"yahoo.co.kr":  true,
	"outlook.com":  true,
	"hotmail.com":  true,
	"live.com":     true,
	"icloud.com":   true,
	"nate.com":     true,
	"korea.com":    true,
}

var englishDomainRegex = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)

// EmailDomain extracts the domain part of an email address
func EmailDomain(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

// IsPublicEmail reports whether the email uses a public mail service
func IsPublicEmail(email string) bool {
	return publicEmailDomains[EmailDomain(email)]
}

// IsCompanyEmail 회사 이메일 여부 - 공개 도메인이 아니면서 영문 도메인이어야 한다
func IsCompanyEmail(email string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}
	return !publicEmailDomains[domain] && englishDomainRegex.MatchString(domain)
}
