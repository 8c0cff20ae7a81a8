package stores

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/types"
)

var ErrNotFound = errors.New("not found")

// TaskStore persists task records once they leave the orchestrator's
// in-memory queue. The orchestrator owns dispatch ordering; the store is
// only the system of record for results and history.
type TaskStore interface {
	SaveTask(ctx context.Context, task *types.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*types.Task, error)
	ListByStatus(ctx context.Context, status types.TaskStatus, limit int) ([]*types.Task, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int64, error)
	CountFailedSince(ctx context.Context, since time.Time) (int64, error)
}

// SafetyStore holds moderation reports and per-user trust profiles.
// Profiles are created lazily on first reference with the initial trust
// score; reports are append-only.
type SafetyStore interface {
	AppendReport(ctx context.Context, report *types.SafetyReport) error
	ReportsForUser(ctx context.Context, userID string) ([]*types.SafetyReport, error)
	RecentReports(ctx context.Context, since time.Time) ([]*types.SafetyReport, error)
	GetProfile(ctx context.Context, userID string) (*types.UserSafetyProfile, error)
	SaveProfile(ctx context.Context, profile *types.UserSafetyProfile) error
}
