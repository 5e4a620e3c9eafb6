// Package passpolicy validates candidate passwords against a configurable
// rule set. A Policy is plain data so operators can tune strictness per
// environment without code changes; every validation call evaluates the
// policy fresh.
package passpolicy

import (
	"fmt"
	"strings"
	"unicode"
)

// Policy describes the rules a password must satisfy.
type Policy struct {
	MinLength        int  `json:"min_length"`
	MaxLength        int  `json:"max_length"`
	RequireUppercase bool `json:"require_uppercase"`
	RequireLowercase bool `json:"require_lowercase"`
	RequireDigit     bool `json:"require_digit"`
	RequireSpecial   bool `json:"require_special"`
	BlockCommon      bool `json:"block_common"`
}

// Default returns the production policy.
func Default() Policy {
	return Policy{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   true,
		BlockCommon:      true,
	}
}

// Violations is the error returned by Validate. It carries every unmet rule
// at once so callers can show the user the full list in a single response.
type Violations struct {
	Rules []string
}

func (v *Violations) Error() string {
	return "password policy: " + strings.Join(v.Rules, "; ")
}

// commonPasswords is an exact-match denylist of lower-cased passwords that
// appear near the top of public breach corpora.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"123456":      {},
	"1234567":     {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"admin":       {},
	"admin123":    {},
	"guest":       {},
	"test":        {},
	"test123":     {},
	"user":        {},
	"qwerty":      {},
	"qwerty123":   {},
	"letmein":     {},
	"welcome":     {},
	"welcome1":    {},
	"abc123":      {},
	"iloveyou":    {},
	"monkey":      {},
	"dragon":      {},
}

// Validate checks password against the policy. It accumulates every failed
// rule rather than stopping at the first, and returns a *Violations error
// listing all of them, or nil when the password is acceptable.
func (p Policy) Validate(password string) error {
	var rules []string

	length := len([]rune(password))
	if length < p.MinLength {
		rules = append(rules, fmt.Sprintf("must be at least %d characters long", p.MinLength))
	}
	if p.MaxLength > 0 && length > p.MaxLength {
		rules = append(rules, fmt.Sprintf("must be no longer than %d characters", p.MaxLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if p.RequireUppercase && !hasUpper {
		rules = append(rules, "must contain an uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		rules = append(rules, "must contain a lowercase letter")
	}
	if p.RequireDigit && !hasDigit {
		rules = append(rules, "must contain a digit")
	}
	if p.RequireSpecial && !hasSpecial {
		rules = append(rules, "must contain a special character")
	}

	if p.BlockCommon {
		if _, ok := commonPasswords[strings.ToLower(password)]; ok {
			rules = append(rules, "is too common")
		}
	}

	if len(rules) > 0 {
		return &Violations{Rules: rules}
	}
	return nil
}
