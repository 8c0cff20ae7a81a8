package safety

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/stores"
	"github.com/playcrest/playcrest-backend/internal/types"
)

// Rule tables. Screening is pure pattern matching plus the numeric trust
// model; there is no inference anywhere in this path.
var (
	bannedTerms = []string{
		"stupid", "idiot", "loser", "hate you", "shut up", "dumb",
	}

	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	unsafeURLKeywords = []string{"nsfw", "gore", "violence", "weapon", "blood"}

	trustedImageHosts = []string{
		"source.unsplash.com",
		"images.unsplash.com",
		"cdn.playcrest.com",
		"images.playcrest.com",
	}

	suspiciousActionTerms = []string{"delete", "private", "contact"}

	positiveKeywords = []string{
		"great", "practice", "team", "help", "thanks", "good", "congrats", "respect",
	}
)

const (
	phonePlaceholder = "[PHONE REMOVED]"
	emailPlaceholder = "[EMAIL REMOVED]"
)

type ModerationResult struct {
	Original  string   `json:"original"`
	Moderated string   `json:"moderated"`
	Changes   []string `json:"changes"`
	Safe      bool     `json:"safe"`
}

type ImageCheckResult struct {
	Safe       bool     `json:"safe"`
	Concerns   []string `json:"concerns"`
	Confidence float64  `json:"confidence"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type BehaviorResult struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	Concerns        []string  `json:"concerns"`
	Recommendations []string  `json:"recommendations"`
}

type MinorProtection struct {
	Restrictions     []string `json:"restrictions"`
	ParentalControls bool     `json:"parental_controls"`
	PrivacyLevel     string   `json:"privacy_level"`
}

type RewardResult struct {
	TrustIncreased bool   `json:"trust_increased"`
	NewTrustScore  int    `json:"new_trust_score"`
	Reward         string `json:"reward,omitempty"`
}

type Moderator struct {
	log   *logger.Logger
	store stores.SafetyStore
}

func NewModerator(baseLog *logger.Logger, store stores.SafetyStore) *Moderator {
	return &Moderator{
		log:   baseLog.With("bot", "SafetyModerator"),
		store: store,
	}
}

// ModerateContent masks banned terms and redacts phone/email substrings.
// Only banned-term masks flip Safe to false; contact-info redaction is a
// privacy measure, not a safety verdict. Running the output back through
// produces no further changes.
func (m *Moderator) ModerateContent(ctx context.Context, text, userID string) (*ModerationResult, error) {
	result := &ModerationResult{Original: text, Moderated: text, Safe: true}

	lower := strings.ToLower(result.Moderated)
	for _, term := range bannedTerms {
		for {
			idx := strings.Index(lower, term)
			if idx < 0 {
				break
			}
			mask := strings.Repeat("*", len(term))
			result.Moderated = result.Moderated[:idx] + mask + result.Moderated[idx+len(term):]
			lower = lower[:idx] + mask + lower[idx+len(term):]
			result.Changes = append(result.Changes, fmt.Sprintf("masked banned term %q", term))
			result.Safe = false
		}
	}

	if phonePattern.MatchString(result.Moderated) {
		result.Moderated = phonePattern.ReplaceAllString(result.Moderated, phonePlaceholder)
		result.Changes = append(result.Changes, "redacted phone number")
	}
	if emailPattern.MatchString(result.Moderated) {
		result.Moderated = emailPattern.ReplaceAllString(result.Moderated, emailPlaceholder)
		result.Changes = append(result.Changes, "redacted email address")
	}

	if len(result.Changes) > 0 && userID != "" {
		report := &types.SafetyReport{
			ID:          uuid.New(),
			Timestamp:   time.Now(),
			Category:    types.ReportCategoryContent,
			Severity:    types.SeverityWarning,
			UserID:      userID,
			Content:     snippet(text),
			ActionTaken: types.ActionFlag,
			Details:     strings.Join(result.Changes, "; "),
		}
		if err := m.recordReport(ctx, report); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// CheckImageSafety screens an image URL. Disallowed keywords make it
// unsafe; an unrecognized host is only a concern, not a block.
func (m *Moderator) CheckImageSafety(ctx context.Context, imageURL string) (*ImageCheckResult, error) {
	result := &ImageCheckResult{Safe: true, Confidence: 0.95}

	lower := strings.ToLower(imageURL)
	for _, kw := range unsafeURLKeywords {
		if strings.Contains(lower, kw) {
			result.Safe = false
			result.Confidence = 0.70
			result.Concerns = append(result.Concerns, fmt.Sprintf("url contains disallowed keyword %q", kw))
		}
	}

	if parsed, err := url.Parse(imageURL); err == nil && parsed.Host != "" {
		trusted := false
		for _, host := range trustedImageHosts {
			if strings.EqualFold(parsed.Host, host) {
				trusted = true
				break
			}
		}
		if !trusted {
			result.Concerns = append(result.Concerns, fmt.Sprintf("host %q is not in the trusted image allowlist", parsed.Host))
		}
	}
	return result, nil
}

// AnalyzeUserBehavior scores recent actions against the trust model:
// 10 per suspicious action, 20 per violation in the last week, plus the
// user's trust deficit.
func (m *Moderator) AnalyzeUserBehavior(ctx context.Context, userID string, recentActions []string) (*BehaviorResult, error) {
	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load safety profile: %w", err)
	}

	result := &BehaviorResult{RiskLevel: RiskLow}

	suspicious := 0
	for _, action := range recentActions {
		lower := strings.ToLower(action)
		for _, term := range suspiciousActionTerms {
			if strings.Contains(lower, term) {
				suspicious++
				result.Concerns = append(result.Concerns, fmt.Sprintf("action matches suspicious pattern %q", term))
				break
			}
		}
	}

	reports, err := m.store.ReportsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load safety reports: %w", err)
	}
	weekAgo := time.Now().AddDate(0, 0, -7)
	recentViolations := 0
	for _, r := range reports {
		if r.Timestamp.After(weekAgo) {
			recentViolations++
		}
	}
	if recentViolations > 0 {
		result.Concerns = append(result.Concerns, fmt.Sprintf("%d violation(s) in the last 7 days", recentViolations))
	}

	score := 10*suspicious + 20*recentViolations + (100 - profile.TrustScore)
	switch {
	case score > 60:
		result.RiskLevel = RiskHigh
		result.Recommendations = append(result.Recommendations,
			"review account with a moderator",
			"notify parent or guardian",
			"restrict direct messaging",
		)
	case score > 30:
		result.RiskLevel = RiskMedium
		result.Recommendations = append(result.Recommendations,
			"increase content review frequency",
			"remind user of community guidelines",
		)
	default:
		result.Recommendations = append(result.Recommendations, "no action needed")
	}

	if result.RiskLevel == RiskHigh {
		report := &types.SafetyReport{
			ID:          uuid.New(),
			Timestamp:   time.Now(),
			Category:    types.ReportCategoryBehavior,
			Severity:    types.SeverityAlert,
			UserID:      userID,
			ActionTaken: types.ActionFlag,
			Details:     fmt.Sprintf("behavior risk score %d", score),
		}
		if err := m.recordReport(ctx, report); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ProtectMinor applies the tiered restriction set for the user's age and
// persists it on their profile.
func (m *Moderator) ProtectMinor(ctx context.Context, userID string, age int) (*MinorProtection, error) {
	protection := &MinorProtection{}
	switch {
	case age < 13:
		protection.Restrictions = []string{
			"no_direct_messages",
			"no_public_profile",
			"no_location_sharing",
			"approved_followers_only",
		}
		protection.ParentalControls = true
		protection.PrivacyLevel = "maximum"
	case age < 16:
		protection.Restrictions = []string{
			"no_location_sharing",
			"messages_from_teammates_only",
		}
		protection.ParentalControls = true
		protection.PrivacyLevel = "high"
	case age < 18:
		protection.Restrictions = []string{"no_location_sharing"}
		protection.ParentalControls = false
		protection.PrivacyLevel = "standard"
	default:
		protection.Restrictions = []string{}
		protection.ParentalControls = false
		protection.PrivacyLevel = "none"
	}

	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load safety profile: %w", err)
	}
	profile.Restrictions = append(profile.Restrictions[:0:0], protection.Restrictions...)
	profile.ParentNotified = protection.ParentalControls
	profile.LastReview = time.Now()
	if err := m.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save safety profile: %w", err)
	}

	m.log.Info("minor protection applied", "subject_user_id", userID, "privacy_level", protection.PrivacyLevel)
	return protection, nil
}

// RewardPositiveBehavior bumps trust by 2 (capped at 100) when the action
// matches a positive keyword, naming a standing badge at the 80 and 90
// thresholds.
func (m *Moderator) RewardPositiveBehavior(ctx context.Context, userID, actionText string) (*RewardResult, error) {
	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load safety profile: %w", err)
	}
	result := &RewardResult{NewTrustScore: profile.TrustScore}

	lower := strings.ToLower(actionText)
	positive := false
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			positive = true
			break
		}
	}
	if !positive || profile.TrustScore >= 100 {
		return result, nil
	}

	profile.TrustScore = types.ClampTrust(profile.TrustScore + 2)
	profile.LastReview = time.Now()
	if err := m.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save safety profile: %w", err)
	}

	result.TrustIncreased = true
	result.NewTrustScore = profile.TrustScore
	switch {
	case profile.TrustScore >= 90:
		result.Reward = "Trusted Member"
	case profile.TrustScore >= 80:
		result.Reward = "Good Standing Status"
	}
	return result, nil
}

// recordReport appends to the audit log and applies the severity's trust
// delta to the subject's profile.
func (m *Moderator) recordReport(ctx context.Context, report *types.SafetyReport) error {
	if err := m.store.AppendReport(ctx, report); err != nil {
		return fmt.Errorf("append safety report: %w", err)
	}
	if report.UserID == "" {
		return nil
	}
	profile, err := m.store.GetProfile(ctx, report.UserID)
	if err != nil {
		return fmt.Errorf("load safety profile: %w", err)
	}
	profile.TrustScore = types.ClampTrust(profile.TrustScore + trustDelta(report.Severity))
	profile.LastReview = time.Now()
	if err := m.store.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save safety profile: %w", err)
	}
	m.log.Debug("safety report recorded", "subject_user_id", report.UserID, "severity", report.Severity)
	return nil
}

func trustDelta(severity types.ReportSeverity) int {
	switch severity {
	case types.SeverityCritical:
		return -20
	case types.SeverityAlert:
		return -10
	case types.SeverityWarning:
		return -5
	default:
		return 0
	}
}

func snippet(text string) string {
	const max = 120
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
