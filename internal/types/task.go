package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TaskKind string

const (
	TaskKindIdentityCreation  TaskKind = "identity-creation"
	TaskKindDesignGeneration  TaskKind = "design-generation"
	TaskKindSafetyCheck       TaskKind = "safety-check"
	TaskKindOrganizationSetup TaskKind = "organization-setup"
	TaskKindContentRepair     TaskKind = "content-repair"
)

func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindIdentityCreation, TaskKindDesignGeneration, TaskKindSafetyCheck,
		TaskKindOrganizationSetup, TaskKindContentRepair:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityCritical TaskPriority = "critical"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityLow      TaskPriority = "low"
)

// Rank orders priorities for queue sorting; lower ranks dispatch first.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityCritical:
		return 0
	case TaskPriorityHigh:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 3
	default:
		return 4
	}
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

type Task struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        TaskKind          `gorm:"not null;index;column:kind" json:"kind"`
	Priority    TaskPriority      `gorm:"not null;column:priority" json:"priority"`
	Payload     datatypes.JSONMap `gorm:"column:payload" json:"payload"`
	Status      TaskStatus        `gorm:"not null;index;column:status" json:"status"`
	AssignedBot string            `gorm:"column:assigned_bot" json:"assigned_bot"`
	Result      datatypes.JSONMap `gorm:"column:result" json:"result,omitempty"`
	Error       string            `gorm:"column:error" json:"error,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
	CompletedAt *time.Time        `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (Task) TableName() string {
	return "task"
}

type InsightType string

const (
	InsightTypeSuccess InsightType = "success"
	InsightTypeWarning InsightType = "warning"
	InsightTypeSafety  InsightType = "safety"
	InsightTypeHealth  InsightType = "health"
)

// Insight is an advisory message derived from task outcomes. Nothing in
// the system acts on insights; they are observational only.
type Insight struct {
	Type           InsightType    `json:"type"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data,omitempty"`
	ActionRequired bool           `json:"action_required"`
	CreatedAt      time.Time      `json:"created_at"`
}

type SystemHealth struct {
	ActiveTasks    int      `json:"active_tasks"`
	PendingTasks   int      `json:"pending_tasks"`
	CompletedToday int64    `json:"completed_today"`
	FailureRate    float64  `json:"failure_rate"`
	BotsOnline     []string `json:"bots_online"`
}
