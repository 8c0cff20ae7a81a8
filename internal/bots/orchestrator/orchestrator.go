package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/playcrest/playcrest-backend/internal/bots/generators"
	"github.com/playcrest/playcrest-backend/internal/bots/safety"
	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/stores"
	"github.com/playcrest/playcrest-backend/internal/types"
)

// ErrUnknownTaskKind marks a dispatch whose kind is outside the five
// supported values. The task fails explicitly instead of completing with
// an empty result.
var ErrUnknownTaskKind = errors.New("unknown task kind")

const (
	defaultTickInterval = 5 * time.Second
	defaultInsightCap   = 200

	// Ticks between periodic system-health insights.
	healthInsightEvery = 12
)

type Config struct {
	TickInterval time.Duration
	InsightCap   int
}

// Orchestrator owns the prioritized task queue. Both the ticker and the
// critical-priority fast path funnel through the same mutex-guarded
// dispatch entry, so a task can never be picked up twice.
type Orchestrator struct {
	log       *logger.Logger
	store     stores.TaskStore
	identity  generators.IdentityGenerator
	design    generators.DesignGenerator
	school    generators.SchoolGenerator
	moderator *safety.Moderator
	tracer    trace.Tracer

	tickInterval time.Duration
	insightCap   int

	mu       sync.Mutex
	queue    []*types.Task
	insights []types.Insight

	dispatchMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

func New(
	baseLog *logger.Logger,
	store stores.TaskStore,
	identity generators.IdentityGenerator,
	design generators.DesignGenerator,
	school generators.SchoolGenerator,
	moderator *safety.Moderator,
	cfg Config,
) *Orchestrator {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	ringCap := cfg.InsightCap
	if ringCap <= 0 {
		ringCap = defaultInsightCap
	}
	return &Orchestrator{
		log:          baseLog.With("component", "TaskOrchestrator"),
		store:        store,
		identity:     identity,
		design:       design,
		school:       school,
		moderator:    moderator,
		tracer:       otel.Tracer("playcrest/orchestrator"),
		tickInterval: tick,
		insightCap:   ringCap,
	}
}

// Start launches the periodic dispatch loop: one task per tick, highest
// priority first, FIFO within a tier.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})

	go func() {
		defer close(o.done)
		ticker := time.NewTicker(o.tickInterval)
		defer ticker.Stop()
		tickCount := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				o.dispatchNext(ctx)
				tickCount++
				if tickCount%healthInsightEvery == 0 {
					o.emitHealthInsight(ctx)
				}
			}
		}
	}()
	o.log.Info("orchestrator started", "tick_interval", o.tickInterval.String())
}

func (o *Orchestrator) Stop() {
	if o.cancel == nil {
		return
	}
	o.cancel()
	<-o.done
	o.log.Info("orchestrator stopped")
}

// CreateTask enqueues a unit of work. Critical-priority tasks jump the
// queue and are dispatched synchronously before CreateTask returns, via
// the same dispatch entry the ticker uses.
func (o *Orchestrator) CreateTask(ctx context.Context, kind types.TaskKind, payload map[string]any, priority types.TaskPriority) (uuid.UUID, error) {
	switch priority {
	case types.TaskPriorityCritical, types.TaskPriorityHigh, types.TaskPriorityMedium, types.TaskPriorityLow:
	case "":
		priority = types.TaskPriorityMedium
	default:
		return uuid.Nil, fmt.Errorf("invalid task priority %q", priority)
	}

	task := &types.Task{
		ID:        uuid.New(),
		Kind:      kind,
		Priority:  priority,
		Payload:   datatypes.JSONMap(payload),
		Status:    types.TaskStatusPending,
		CreatedAt: time.Now(),
	}

	o.mu.Lock()
	o.queue = append(o.queue, task)
	sort.SliceStable(o.queue, func(i, j int) bool {
		return o.queue[i].Priority.Rank() < o.queue[j].Priority.Rank()
	})
	o.mu.Unlock()

	if err := o.store.SaveTask(ctx, task); err != nil {
		o.log.Warn("failed to persist new task", "task_id", task.ID, "error", err)
	}
	o.log.Debug("task created", "task_id", task.ID, "kind", kind, "priority", priority)

	if priority == types.TaskPriorityCritical {
		o.dispatchNext(ctx)
	}
	return task.ID, nil
}

func (o *Orchestrator) GetTask(ctx context.Context, id uuid.UUID) (*types.Task, error) {
	return o.store.GetTask(ctx, id)
}

// GetInsights returns the advisory stream, optionally filtered by type.
// Insights never drive control flow.
func (o *Orchestrator) GetInsights(insightType types.InsightType) []types.Insight {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.Insight, 0, len(o.insights))
	for _, ins := range o.insights {
		if insightType != "" && ins.Type != insightType {
			continue
		}
		out = append(out, ins)
	}
	return out
}

func (o *Orchestrator) GetSystemHealth(ctx context.Context) types.SystemHealth {
	o.mu.Lock()
	pending, active := 0, 0
	for _, t := range o.queue {
		switch t.Status {
		case types.TaskStatusPending:
			pending++
		case types.TaskStatusProcessing:
			active++
		}
	}
	o.mu.Unlock()

	midnight := time.Now().Truncate(24 * time.Hour)
	completed, err := o.store.CountCompletedSince(ctx, midnight)
	if err != nil {
		o.log.Warn("failed to count completed tasks", "error", err)
	}
	failed, err := o.store.CountFailedSince(ctx, midnight)
	if err != nil {
		o.log.Warn("failed to count failed tasks", "error", err)
	}
	var failureRate float64
	if completed+failed > 0 {
		failureRate = float64(failed) / float64(completed+failed)
	}

	return types.SystemHealth{
		ActiveTasks:    active,
		PendingTasks:   pending,
		CompletedToday: completed,
		FailureRate:    failureRate,
		BotsOnline:     []string{"IdentityGenerator", "DesignGenerator", "SchoolGenerator", "SafetyModerator"},
	}
}

// dispatchNext is the single dispatch entry point. It claims the first
// pending task in priority order and processes it to a terminal state.
func (o *Orchestrator) dispatchNext(ctx context.Context) {
	o.dispatchMu.Lock()
	defer o.dispatchMu.Unlock()

	task := o.claimNext()
	if task == nil {
		return
	}
	o.process(ctx, task)
}

func (o *Orchestrator) claimNext() *types.Task {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, t := range o.queue {
		if t.Status == types.TaskStatusPending {
			t.Status = types.TaskStatusProcessing
			return t
		}
	}
	return nil
}

func (o *Orchestrator) process(ctx context.Context, task *types.Task) {
	ctx, span := o.tracer.Start(ctx, "task.dispatch", trace.WithAttributes(
		attribute.String("task.id", task.ID.String()),
		attribute.String("task.kind", string(task.Kind)),
		attribute.String("task.priority", string(task.Priority)),
	))
	defer span.End()

	var result map[string]any
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				o.log.Error("task handler panic", "task_id", task.ID, "kind", task.Kind, "panic", r)
				err = fmt.Errorf("task handler panic: %v", r)
			}
		}()
		result, err = o.route(ctx, task)
	}()

	now := time.Now()
	task.CompletedAt = &now
	if err != nil {
		task.Status = types.TaskStatusFailed
		task.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.addInsight(types.InsightTypeWarning,
			fmt.Sprintf("task %s failed: %v", task.ID, err),
			map[string]any{"task_id": task.ID.String(), "kind": string(task.Kind)},
			false,
		)
		o.log.Warn("task failed", "task_id", task.ID, "kind", task.Kind, "error", err)
	} else {
		task.Status = types.TaskStatusCompleted
		task.Result = datatypes.JSONMap(result)
		o.log.Info("task completed", "task_id", task.ID, "kind", task.Kind)
	}

	o.removeFromQueue(task.ID)
	if saveErr := o.store.SaveTask(ctx, task); saveErr != nil {
		o.log.Warn("failed to persist terminal task", "task_id", task.ID, "error", saveErr)
	}
}

func (o *Orchestrator) removeFromQueue(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, t := range o.queue {
		if t.ID == id {
			o.queue = append(o.queue[:i], o.queue[i+1:]...)
			return
		}
	}
}

func (o *Orchestrator) route(ctx context.Context, task *types.Task) (map[string]any, error) {
	payload := map[string]any(task.Payload)
	switch task.Kind {
	case types.TaskKindIdentityCreation:
		task.AssignedBot = "IdentityGenerator"
		return o.handleIdentityCreation(ctx, payload)
	case types.TaskKindDesignGeneration:
		task.AssignedBot = "DesignGenerator"
		return o.handleDesignGeneration(ctx, payload)
	case types.TaskKindSafetyCheck:
		task.AssignedBot = "SafetyModerator"
		return o.handleSafetyCheck(ctx, payload)
	case types.TaskKindOrganizationSetup:
		task.AssignedBot = "SchoolGenerator"
		return o.handleOrganizationSetup(ctx, payload)
	case types.TaskKindContentRepair:
		task.AssignedBot = "IdentityGenerator"
		return o.handleContentRepair(ctx, payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskKind, task.Kind)
	}
}

func (o *Orchestrator) addInsight(insightType types.InsightType, message string, data map[string]any, actionRequired bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.insights = append(o.insights, types.Insight{
		Type:           insightType,
		Message:        message,
		Data:           data,
		ActionRequired: actionRequired,
		CreatedAt:      time.Now(),
	})
	if len(o.insights) > o.insightCap {
		o.insights = o.insights[len(o.insights)-o.insightCap:]
	}
}

func (o *Orchestrator) emitHealthInsight(ctx context.Context) {
	health := o.GetSystemHealth(ctx)
	o.addInsight(types.InsightTypeHealth,
		fmt.Sprintf("system health: %d pending, %d active, %.0f%% failure rate today",
			health.PendingTasks, health.ActiveTasks, health.FailureRate*100),
		map[string]any{
			"pending":         health.PendingTasks,
			"active":          health.ActiveTasks,
			"completed_today": health.CompletedToday,
			"failure_rate":    health.FailureRate,
		},
		false,
	)
}
