// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// The comparison runs in time independent of where a mismatch occurs.
	Check(password, hash string) bool

	// ValidatePasswordStrength checks the password against the configured
	// policy. The returned error itemizes every violated rule.
	ValidatePasswordStrength(password string) error
}
