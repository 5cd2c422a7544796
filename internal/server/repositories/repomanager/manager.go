// Package repomanager hands out the record repository of the configured
// backend and runs work against it transactionally.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/repositories/records"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Records() records.Repository
	// InTx runs fn against a repository whose writes are committed only when
	// fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, repo records.Repository) error) error
	Close() error
}
