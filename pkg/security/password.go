package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/angelmondragon/footballzones-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	specialCharacters = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"
	repeatRunLimit    = 8
	sequenceRunLimit  = 3
)

var (
	// ErrHashing wraps failures of the underlying hash primitive.
	ErrHashing = errors.New("password hashing failed")
	// ErrVerification signals a hash that cannot be compared against.
	ErrVerification = errors.New("password verification failed")
)

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"passw0rd":  {},
	"123456":    {},
	"12345678":  {},
	"123456789": {},
	"qwerty":    {},
	"qwerty123": {},
	"letmein":   {},
	"admin":     {},
	"welcome":   {},
	"football":  {},
	"iloveyou":  {},
	"monkey":    {},
	"dragon":    {},
	"abc123":    {},
	"111111":    {},
}

var keyboardPatterns = []string{"qwerty", "asdf", "zxcv", "1234"}

// StrengthResult lists every rule a candidate password violates.
type StrengthResult struct {
	Valid  bool
	Errors []string
}

// HashPassword returns a bcrypt hash at the configured cost.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), costFromConfig(cfg))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(hash), nil
}

// VerifyPassword compares password against hash in constant time.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrVerification, err)
	}
}

// NeedsRehash reports whether hash was produced with a different cost than configured.
// Unparseable hashes always need a rehash.
func NeedsRehash(hash string, cfg config.PasswordConfig) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != costFromConfig(cfg)
}

// ValidateStrength checks password against the complexity and weak-pattern rules.
func ValidateStrength(password string) StrengthResult {
	var errs []string

	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if length > MaxPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at most %d characters", MaxPasswordLength))
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
		case strings.ContainsRune(specialCharacters, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain a digit")
	}
	if !hasSpecial {
		errs = append(errs, "password must contain a special character")
	}
	if isWeakPattern(password) {
		errs = append(errs, "password matches a common or predictable pattern")
	}

	return StrengthResult{Valid: len(errs) == 0, Errors: errs}
}

func isWeakPattern(password string) bool {
	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return true
	}
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return hasRepeatedRun(lower, repeatRunLimit) || hasAscendingRun(lower, sequenceRunLimit)
}

func hasRepeatedRun(value string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range value {
		if run > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= limit {
			return true
		}
		prev = r
	}
	return false
}

// hasAscendingRun detects runs like "abc" or "123" within the ASCII alphanumerics.
func hasAscendingRun(value string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range value {
		if !isASCIIAlnum(r) {
			run = 0
			continue
		}
		if run > 0 && r == prev+1 && sameClass(prev, r) {
			run++
		} else {
			run = 1
		}
		if run >= limit {
			return true
		}
		prev = r
	}
	return false
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func sameClass(a, b rune) bool {
	return (a >= 'a' && a <= 'z') == (b >= 'a' && b <= 'z')
}

func costFromConfig(cfg config.PasswordConfig) int {
	cost := cfg.BcryptCost
	if cost < config.MinBcryptCost || cost > config.MaxBcryptCost {
		return bcrypt.DefaultCost + 2
	}
	return cost
}
