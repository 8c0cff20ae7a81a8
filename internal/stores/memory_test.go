package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/types"
)

func TestMemoryTaskStore_SaveAndGetReturnsCopies(t *testing.T) {
	store := NewMemoryTaskStore()
	ctx := context.Background()

	task := &types.Task{
		ID:        uuid.New(),
		Kind:      types.TaskKindIdentityCreation,
		Priority:  types.TaskPriorityMedium,
		Status:    types.TaskStatusPending,
		CreatedAt: time.Now(),
	}
	if err := store.SaveTask(ctx, task); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	got.Status = types.TaskStatusFailed

	again, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if again.Status != types.TaskStatusPending {
		t.Fatalf("mutating a returned task must not touch the store, got %q", again.Status)
	}
}

func TestMemoryTaskStore_GetUnknownReturnsNotFound(t *testing.T) {
	store := NewMemoryTaskStore()

	if _, err := store.GetTask(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryTaskStore_CountsTerminalSince(t *testing.T) {
	store := NewMemoryTaskStore()
	ctx := context.Background()

	now := time.Now()
	old := now.Add(-48 * time.Hour)
	save := func(status types.TaskStatus, completedAt time.Time) {
		t.Helper()
		task := &types.Task{
			ID:          uuid.New(),
			Kind:        types.TaskKindSafetyCheck,
			Priority:    types.TaskPriorityLow,
			Status:      status,
			CreatedAt:   completedAt,
			CompletedAt: &completedAt,
		}
		if err := store.SaveTask(ctx, task); err != nil {
			t.Fatalf("SaveTask: %v", err)
		}
	}
	save(types.TaskStatusCompleted, now)
	save(types.TaskStatusCompleted, old)
	save(types.TaskStatusFailed, now)

	since := now.Add(-time.Hour)
	completed, err := store.CountCompletedSince(ctx, since)
	if err != nil {
		t.Fatalf("CountCompletedSince: %v", err)
	}
	if completed != 1 {
		t.Fatalf("expected 1 recent completion, got %d", completed)
	}
	failed, err := store.CountFailedSince(ctx, since)
	if err != nil {
		t.Fatalf("CountFailedSince: %v", err)
	}
	if failed != 1 {
		t.Fatalf("expected 1 recent failure, got %d", failed)
	}
}

func TestMemoryTaskStore_ListByStatusHonorsLimit(t *testing.T) {
	store := NewMemoryTaskStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		task := &types.Task{
			ID:        uuid.New(),
			Kind:      types.TaskKindContentRepair,
			Priority:  types.TaskPriorityLow,
			Status:    types.TaskStatusPending,
			CreatedAt: time.Now(),
		}
		if err := store.SaveTask(ctx, task); err != nil {
			t.Fatalf("SaveTask: %v", err)
		}
	}

	pending, err := store.ListByStatus(ctx, types.TaskStatusPending, 3)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(pending))
	}
}

func TestMemorySafetyStore_LazyProfileStartsAtInitialTrust(t *testing.T) {
	store := NewMemorySafetyStore()
	ctx := context.Background()

	profile, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.TrustScore != types.InitialTrustScore {
		t.Fatalf("expected initial trust %d, got %d", types.InitialTrustScore, profile.TrustScore)
	}

	again, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if again.TrustScore != types.InitialTrustScore {
		t.Fatalf("repeat lookup changed the profile: %+v", again)
	}
}

func TestMemorySafetyStore_SaveProfileClampsTrust(t *testing.T) {
	store := NewMemorySafetyStore()
	ctx := context.Background()

	profile, err := store.GetProfile(ctx, "u2")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	profile.TrustScore = 250
	if err := store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	saved, err := store.GetProfile(ctx, "u2")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if saved.TrustScore != 100 {
		t.Fatalf("expected trust clamped to 100, got %d", saved.TrustScore)
	}
}

func TestMemorySafetyStore_ReportQueries(t *testing.T) {
	store := NewMemorySafetyStore()
	ctx := context.Background()

	now := time.Now()
	reports := []*types.SafetyReport{
		{ID: uuid.New(), Timestamp: now, UserID: "u1", Category: types.ReportCategoryContent, Severity: types.SeverityWarning},
		{ID: uuid.New(), Timestamp: now.Add(-30 * 24 * time.Hour), UserID: "u1", Category: types.ReportCategoryBehavior, Severity: types.SeverityAlert},
		{ID: uuid.New(), Timestamp: now, UserID: "u2", Category: types.ReportCategoryContent, Severity: types.SeverityWarning},
	}
	for _, r := range reports {
		if err := store.AppendReport(ctx, r); err != nil {
			t.Fatalf("AppendReport: %v", err)
		}
	}

	forUser, err := store.ReportsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ReportsForUser: %v", err)
	}
	if len(forUser) != 2 {
		t.Fatalf("expected 2 reports for u1, got %d", len(forUser))
	}

	recent, err := store.RecentReports(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("RecentReports: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent reports, got %d", len(recent))
	}
}
