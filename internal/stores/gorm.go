package stores

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

type gormTaskStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormTaskStore(db *gorm.DB, baseLog *logger.Logger) TaskStore {
	return &gormTaskStore{db: db, log: baseLog.With("repo", "TaskStore")}
}

func (s *gormTaskStore) SaveTask(ctx context.Context, task *types.Task) error {
	return s.db.WithContext(ctx).Save(task).Error
}

func (s *gormTaskStore) GetTask(ctx context.Context, id uuid.UUID) (*types.Task, error) {
	var task types.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *gormTaskStore) ListByStatus(ctx context.Context, status types.TaskStatus, limit int) ([]*types.Task, error) {
	var results []*types.Task
	q := s.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *gormTaskStore) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countTerminalSince(ctx, types.TaskStatusCompleted, since)
}

func (s *gormTaskStore) CountFailedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countTerminalSince(ctx, types.TaskStatusFailed, since)
}

func (s *gormTaskStore) countTerminalSince(ctx context.Context, status types.TaskStatus, since time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&types.Task{}).
		Where("status = ? AND completed_at >= ?", status, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type gormSafetyStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormSafetyStore(db *gorm.DB, baseLog *logger.Logger) SafetyStore {
	return &gormSafetyStore{db: db, log: baseLog.With("repo", "SafetyStore")}
}

func (s *gormSafetyStore) AppendReport(ctx context.Context, report *types.SafetyReport) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *gormSafetyStore) ReportsForUser(ctx context.Context, userID string) ([]*types.SafetyReport, error) {
	var results []*types.SafetyReport
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *gormSafetyStore) RecentReports(ctx context.Context, since time.Time) ([]*types.SafetyReport, error) {
	var results []*types.SafetyReport
	if err := s.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *gormSafetyStore) GetProfile(ctx context.Context, userID string) (*types.UserSafetyProfile, error) {
	var profile types.UserSafetyProfile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = types.UserSafetyProfile{
			UserID:     userID,
			TrustScore: types.InitialTrustScore,
			LastReview: time.Now(),
		}
		if createErr := s.db.WithContext(ctx).Create(&profile).Error; createErr != nil {
			return nil, createErr
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *gormSafetyStore) SaveProfile(ctx context.Context, profile *types.UserSafetyProfile) error {
	profile.TrustScore = types.ClampTrust(profile.TrustScore)
	return s.db.WithContext(ctx).Save(profile).Error
}
