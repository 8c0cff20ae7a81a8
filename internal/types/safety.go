package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportCategory string

const (
	ReportCategoryContent     ReportCategory = "content"
	ReportCategoryBehavior    ReportCategory = "behavior"
	ReportCategoryLanguage    ReportCategory = "language"
	ReportCategoryImage       ReportCategory = "image"
	ReportCategoryInteraction ReportCategory = "interaction"
)

type ReportSeverity string

const (
	SeverityInfo     ReportSeverity = "info"
	SeverityWarning  ReportSeverity = "warning"
	SeverityAlert    ReportSeverity = "alert"
	SeverityCritical ReportSeverity = "critical"
)

type SafetyAction string

const (
	ActionNone         SafetyAction = "none"
	ActionFlag         SafetyAction = "flag"
	ActionHide         SafetyAction = "hide"
	ActionRemove       SafetyAction = "remove"
	ActionNotifyParent SafetyAction = "notify_parent"
)

// SafetyReport is an append-only audit record of a moderation action.
type SafetyReport struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp   time.Time         `gorm:"not null;index" json:"timestamp"`
	Category    ReportCategory    `gorm:"not null;column:category" json:"category"`
	Severity    ReportSeverity    `gorm:"not null;column:severity" json:"severity"`
	UserID      string            `gorm:"index;column:user_id" json:"user_id,omitempty"`
	Content     string            `gorm:"column:content" json:"content,omitempty"`
	ActionTaken SafetyAction      `gorm:"not null;column:action_taken" json:"action_taken"`
	Details     string            `gorm:"column:details" json:"details"`
	Context     datatypes.JSONMap `gorm:"column:context" json:"context,omitempty"`
}

func (SafetyReport) TableName() string {
	return "safety_report"
}

const InitialTrustScore = 80

// UserSafetyProfile tracks per-user trust state. TrustScore stays within
// [0, 100] no matter what sequence of violations and rewards is applied.
type UserSafetyProfile struct {
	UserID         string                      `gorm:"primaryKey;column:user_id" json:"user_id"`
	TrustScore     int                         `gorm:"not null;default:80;column:trust_score" json:"trust_score"`
	Violations     []SafetyReport              `gorm:"-" json:"violations,omitempty"`
	LastReview     time.Time                   `gorm:"column:last_review" json:"last_review"`
	Restrictions   datatypes.JSONSlice[string] `gorm:"column:restrictions" json:"restrictions"`
	ParentNotified bool                        `gorm:"column:parent_notified" json:"parent_notified"`
}

func (UserSafetyProfile) TableName() string {
	return "user_safety_profile"
}

// ClampTrust bounds a trust score to the valid [0, 100] range.
func ClampTrust(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
