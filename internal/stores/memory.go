package stores

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/types"
)

// memoryTaskStore is the default store: a mutex-guarded map. It backs
// tests and any deployment that has not configured Postgres.
type memoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*types.Task
}

func NewMemoryTaskStore() TaskStore {
	return &memoryTaskStore{tasks: make(map[uuid.UUID]*types.Task)}
}

func (s *memoryTaskStore) SaveTask(ctx context.Context, task *types.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *memoryTaskStore) GetTask(ctx context.Context, id uuid.UUID) (*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *task
	return &cp, nil
}

func (s *memoryTaskStore) ListByStatus(ctx context.Context, status types.TaskStatus, limit int) ([]*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Task
	for _, task := range s.tasks {
		if task.Status != status {
			continue
		}
		cp := *task
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *memoryTaskStore) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countTerminalSince(types.TaskStatusCompleted, since), nil
}

func (s *memoryTaskStore) CountFailedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countTerminalSince(types.TaskStatusFailed, since), nil
}

func (s *memoryTaskStore) countTerminalSince(status types.TaskStatus, since time.Time) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, task := range s.tasks {
		if task.Status != status || task.CompletedAt == nil {
			continue
		}
		if task.CompletedAt.Before(since) {
			continue
		}
		n++
	}
	return n
}

type memorySafetyStore struct {
	mu       sync.RWMutex
	reports  []*types.SafetyReport
	profiles map[string]*types.UserSafetyProfile
}

func NewMemorySafetyStore() SafetyStore {
	return &memorySafetyStore{profiles: make(map[string]*types.UserSafetyProfile)}
}

func (s *memorySafetyStore) AppendReport(ctx context.Context, report *types.SafetyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *report
	s.reports = append(s.reports, &cp)
	return nil
}

func (s *memorySafetyStore) ReportsForUser(ctx context.Context, userID string) ([]*types.SafetyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.SafetyReport
	for _, r := range s.reports {
		if r.UserID != userID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memorySafetyStore) RecentReports(ctx context.Context, since time.Time) ([]*types.SafetyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.SafetyReport
	for _, r := range s.reports {
		if r.Timestamp.Before(since) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memorySafetyStore) GetProfile(ctx context.Context, userID string) (*types.UserSafetyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		profile = &types.UserSafetyProfile{
			UserID:     userID,
			TrustScore: types.InitialTrustScore,
			LastReview: time.Now(),
		}
		s.profiles[userID] = profile
	}
	cp := *profile
	cp.Restrictions = append(cp.Restrictions[:0:0], profile.Restrictions...)
	return &cp, nil
}

func (s *memorySafetyStore) SaveProfile(ctx context.Context, profile *types.UserSafetyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *profile
	cp.TrustScore = types.ClampTrust(cp.TrustScore)
	cp.Restrictions = append(cp.Restrictions[:0:0], profile.Restrictions...)
	s.profiles[profile.UserID] = &cp
	return nil
}
