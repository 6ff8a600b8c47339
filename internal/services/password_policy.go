package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLength   = 8
	maxSimilarityRatio  = 0.7
	minSimilarityLength = 3
)

var attributeSplit = regexp.MustCompile(`\W+`)

// commonPasswords is a short list of passwords seen most often in breach dumps.
var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(`
		123456 123456789 12345678 password qwerty123 qwerty 1q2w3e4r 111111 1234567890
		123123 abc123 password1 iloveyou 000000 qwertyuiop 1234567 dragon monkey
		letmein football baseball welcome admin login princess sunshine master
		shadow superman michael trustno1 passw0rd 654321 987654321 123321 666666
		zaq12wsx asdfghjkl qazwsx 1qaz2wsx password123 charlie starwars whatever
		freedom hello123 killer jordan23 access flower hottie loveme google
	`) {
		commonPasswords[p] = struct{}{}
	}
}

// PasswordAttribute is a user value a password must not resemble.
type PasswordAttribute struct {
	Name  string
	Value string
}

// ValidatePassword returns every rule the password breaks, or nil when it is acceptable.
func ValidatePassword(password string, attrs ...PasswordAttribute) []string {
	var problems []string

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", minPasswordLength))
	}

	for _, attr := range attrs {
		if tooSimilar(password, attr.Value) {
			problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr.Name))
			break
		}
	}

	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}

	if password != "" && isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

func tooSimilar(password, value string) bool {
	if value == "" || password == "" {
		return false
	}
	password = strings.ToLower(password)
	value = strings.ToLower(value)

	parts := append([]string{value}, attributeSplit.Split(value, -1)...)
	for _, part := range parts {
		if len(part) < minSimilarityLength {
			continue
		}
		if quickRatio(password, part) >= maxSimilarityRatio {
			return true
		}
	}
	return false
}

// quickRatio is an upper bound on sequence similarity based on shared characters.
func quickRatio(a, b string) float64 {
	counts := make(map[rune]int)
	for _, r := range b {
		counts[r]++
	}
	matches := 0
	total := 0
	for _, r := range a {
		total++
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}
	total += len([]rune(b))
	if total == 0 {
		return 0
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func userAttributes(email, phone string) []PasswordAttribute {
	return []PasswordAttribute{
		{Name: "email", Value: email},
		{Name: "phone number", Value: phone},
	}
}
