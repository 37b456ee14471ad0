package user

import (
	"agriVest/domain"
	"fmt"
	"strings"
	"unicode"
)

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"trustno1": {}, "superman": {}, "letmein1": {}, "11111111": {}, "00000000": {},
	"passw0rd": {}, "starwars": {}, "whatever": {}, "dragon123": {}, "monkey123": {},
	"admin123": {}, "changeme": {}, "michael1": {}, "computer": {}, "internet": {},
}

// checkPasswordPolicy applies the registration password rules and reports
// every rule the password breaks.
func checkPasswordPolicy(password, username, email string) error {
	var problems []string

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}

	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	if attr, ok := similarAttribute(password, username, email); ok {
		problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr))
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, " "))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarAttribute flags passwords that contain, or are contained in, the
// username or the local part of the email.
func similarAttribute(password, username, email string) (string, bool) {
	p := strings.ToLower(password)
	local, _, _ := strings.Cut(strings.ToLower(email), "@")

	candidates := []struct{ name, value string }{
		{"username", strings.ToLower(username)},
		{"email address", local},
	}
	for _, c := range candidates {
		if len(c.value) < 3 {
			continue
		}
		if strings.Contains(p, c.value) || strings.Contains(c.value, p) {
			return c.name, true
		}
	}
	return "", false
}
