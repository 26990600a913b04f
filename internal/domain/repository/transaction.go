// Package repository defines the interfaces for the persistence layer.
package repository

import "context"

// RepositoryFactory creates repository instances bound to one transaction.
type RepositoryFactory interface {
	IdentityRepo() IdentityRepository
	RefreshTokenRepo() RefreshTokenRepository
	SecurityEventRepo() SecurityEventRepository
	LoginRecordRepo() LoginRecordRepository
}

// TransactionManager runs a function within a single database transaction.
// The function receives a factory whose repositories are all bound to that
// transaction; returning an error rolls the transaction back.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
