package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Task{}, &types.SafetyReport{}, &types.UserSafetyProfile{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newStoreLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func TestGormTaskStore_RoundTrip(t *testing.T) {
	store := NewGormTaskStore(newTestDB(t), newStoreLogger(t))
	ctx := context.Background()

	task := &types.Task{
		ID:        uuid.New(),
		Kind:      types.TaskKindDesignGeneration,
		Priority:  types.TaskPriorityHigh,
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
	if got.Kind != task.Kind || got.Status != types.TaskStatusPending {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	now := time.Now()
	task.Status = types.TaskStatusCompleted
	task.CompletedAt = &now
	if err := store.SaveTask(ctx, task); err != nil {
		t.Fatalf("SaveTask update: %v", err)
	}
	completed, err := store.CountCompletedSince(ctx, now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountCompletedSince: %v", err)
	}
	if completed != 1 {
		t.Fatalf("expected 1 completion, got %d", completed)
	}
}

func TestGormTaskStore_GetUnknownReturnsNotFound(t *testing.T) {
	store := NewGormTaskStore(newTestDB(t), newStoreLogger(t))

	if _, err := store.GetTask(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormSafetyStore_LazyProfileCreation(t *testing.T) {
	store := NewGormSafetyStore(newTestDB(t), newStoreLogger(t))
	ctx := context.Background()

	profile, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.TrustScore != types.InitialTrustScore {
		t.Fatalf("expected initial trust %d, got %d", types.InitialTrustScore, profile.TrustScore)
	}

	profile.TrustScore = 120
	if err := store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	saved, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if saved.TrustScore != 100 {
		t.Fatalf("expected trust clamped to 100, got %d", saved.TrustScore)
	}
}

func TestGormSafetyStore_ReportQueries(t *testing.T) {
	store := NewGormSafetyStore(newTestDB(t), newStoreLogger(t))
	ctx := context.Background()

	now := time.Now()
	old := now.Add(-30 * 24 * time.Hour)
	reports := []*types.SafetyReport{
		{ID: uuid.New(), Timestamp: now, UserID: "u1", Category: types.ReportCategoryContent, Severity: types.SeverityWarning, ActionTaken: types.ActionFlag},
		{ID: uuid.New(), Timestamp: old, UserID: "u1", Category: types.ReportCategoryBehavior, Severity: types.SeverityAlert, ActionTaken: types.ActionFlag},
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
		t.Fatalf("expected 2 reports, got %d", len(forUser))
	}
	if forUser[0].Timestamp.Before(forUser[1].Timestamp) {
		t.Fatalf("reports should come back newest first")
	}

	recent, err := store.RecentReports(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("RecentReports: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent report, got %d", len(recent))
	}
}
