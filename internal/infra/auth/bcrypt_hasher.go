// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Shiki0138/sms-sub003/config"
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultCost         = 12
	defaultMinLength    = 8
	defaultMaxLength    = 72 // bcrypt truncates beyond 72 bytes
	defaultMaxRepeatRun = 3
)

// forbiddenWords are rejected as substrings regardless of case.
var forbiddenWords = []string{"password", "admin", "qwerty", "123456"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := defaultCost
	policy := config.PasswordStrengthConfig{
		MinLength:        defaultMinLength,
		MaxLength:        defaultMaxLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
		MaxRepeatRun:     defaultMaxRepeatRun,
	}

	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}
	if cfg != nil && cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
		if policy.MinLength <= 0 {
			policy.MinLength = defaultMinLength
		}
		if policy.MaxLength <= 0 {
			policy.MaxLength = defaultMaxLength
		}
		if policy.MaxRepeatRun <= 0 {
			policy.MaxRepeatRun = defaultMaxRepeatRun
		}
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost and the
// default policy. Used by tests that need a cheap cost factor.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	hasher := NewBcryptHasher(nil).(*bcryptHasher)
	hasher.cost = cost

	return hasher
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
// bcrypt's comparison is constant-time over the digest.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against the configured policy
// and itemizes every violated rule.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	var violations []string

	if len(password) < h.policy.MinLength {
		violations = append(violations, "must be at least "+strconv.Itoa(h.policy.MinLength)+" characters long")
	}
	if len(password) > h.policy.MaxLength {
		violations = append(violations, "must be at most "+strconv.Itoa(h.policy.MaxLength)+" characters long")
	}
	if h.policy.RequireUppercase && !hasUppercase(password) {
		violations = append(violations, "must contain at least one uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLowercase(password) {
		violations = append(violations, "must contain at least one lowercase letter")
	}
	if h.policy.RequireNumbers && !hasNumbers(password) {
		violations = append(violations, "must contain at least one number")
	}
	if h.policy.RequireSpecial && !hasSpecialChars(password) {
		violations = append(violations, "must contain at least one special character")
	}
	if hasRepeatRun(password, h.policy.MaxRepeatRun) {
		violations = append(violations, "must not repeat the same character more than "+strconv.Itoa(h.policy.MaxRepeatRun)+" times in a row")
	}
	if containsForbiddenWords(password, forbiddenWords) {
		violations = append(violations, "contains forbidden words")
	}

	if len(violations) > 0 {
		return domainerrors.ErrPasswordPolicy.WithDetails(strings.Join(violations, "; "))
	}

	return nil
}

func hasUppercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsUpper)
}

func hasLowercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLower)
}

func hasNumbers(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func hasSpecialChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hasRepeatRun reports whether any single character repeats more than max
// times consecutively.
func hasRepeatRun(s string, max int) bool {
	run := 0
	var prev rune

	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run >= max {
				return true
			}
		} else {
			run = 0
		}
		prev = r
	}

	return false
}

func containsForbiddenWords(password string, words []string) bool {
	lowered := strings.ToLower(password)
	for _, word := range words {
		if strings.Contains(lowered, word) {
			return true
		}
	}

	return false
}
