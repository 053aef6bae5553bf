package store

import (
	"context"

	"github.com/ugaemi/cubechase/internal/match"
)

// MatchStore defines the interface for persistent match history.
type MatchStore interface {
	// Save records a finished match.
	Save(ctx context.Context, r *match.Result) error
	// Recent returns up to limit matches, newest first.
	Recent(ctx context.Context, limit int) ([]match.Result, error)
	// Close releases database resources.
	Close() error
}
