package orchestrator

import (
	"context"
	"fmt"

	"github.com/playcrest/playcrest-backend/internal/bots/generators"
	"github.com/playcrest/playcrest-backend/internal/bots/safety"
	"github.com/playcrest/playcrest-backend/internal/types"
)

func (o *Orchestrator) handleIdentityCreation(ctx context.Context, payload map[string]any) (map[string]any, error) {
	input := generators.IdentityInput{
		Name:     payloadString(payload, "name"),
		School:   payloadString(payload, "school"),
		Sport:    payloadString(payload, "sport"),
		Position: payloadString(payload, "position"),
		GradYear: payloadInt(payload, "grad_year"),
	}
	identity, err := o.identity.BuildIdentity(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build identity: %w", err)
	}

	design, err := o.design.GenerateDesign(ctx, types.DesignKindCard, generators.DesignContext{
		School:   identity.School,
		Subject:  identity.Name,
		Keywords: []string{identity.Sport},
	})
	if err != nil {
		return nil, fmt.Errorf("generate card design: %w", err)
	}
	identity.Visual.CardImageURL = design.ImageURL

	bioCheck, err := o.moderator.ModerateContent(ctx, identity.Bio, payloadString(payload, "user_id"))
	if err != nil {
		return nil, fmt.Errorf("moderate bio: %w", err)
	}
	identity.Bio = bioCheck.Moderated

	o.addInsight(types.InsightTypeSuccess,
		fmt.Sprintf("profile created for %s", identity.Name),
		map[string]any{"handle": identity.Handle, "school": identity.School},
		false,
	)

	return map[string]any{
		"identity":      identity,
		"visual_design": design,
		"safety_check":  bioCheck,
	}, nil
}

// handleDesignGeneration runs the image-safety check on the produced
// design and regenerates exactly once, with a conservative style, when
// the check comes back unsafe. The final result is whatever the second
// attempt produced.
func (o *Orchestrator) handleDesignGeneration(ctx context.Context, payload map[string]any) (map[string]any, error) {
	kind := types.DesignKind(payloadString(payload, "design_kind"))
	if kind == "" {
		kind = types.DesignKindPoster
	}
	dctx := generators.DesignContext{
		School:   payloadString(payload, "school"),
		Subject:  payloadString(payload, "subject"),
		Keywords: payloadStrings(payload, "keywords"),
	}

	design, err := o.design.GenerateDesign(ctx, kind, dctx)
	if err != nil {
		return nil, fmt.Errorf("generate design: %w", err)
	}
	check, err := o.moderator.CheckImageSafety(ctx, design.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("check image safety: %w", err)
	}

	regenerated := false
	if !check.Safe {
		o.log.Warn("design flagged unsafe, regenerating conservatively", "design_kind", kind)
		dctx.Conservative = true
		design, err = o.design.GenerateDesign(ctx, kind, dctx)
		if err != nil {
			return nil, fmt.Errorf("regenerate design: %w", err)
		}
		check, err = o.moderator.CheckImageSafety(ctx, design.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("recheck image safety: %w", err)
		}
		regenerated = true
	}

	return map[string]any{
		"design":      design,
		"safety":      check,
		"regenerated": regenerated,
	}, nil
}

// handleSafetyCheck runs whichever sub-checks the payload requests:
// content moderation, image screening, and/or behavior analysis.
func (o *Orchestrator) handleSafetyCheck(ctx context.Context, payload map[string]any) (map[string]any, error) {
	userID := payloadString(payload, "user_id")
	result := map[string]any{}

	if content := payloadString(payload, "content"); content != "" {
		check, err := o.moderator.ModerateContent(ctx, content, userID)
		if err != nil {
			return nil, fmt.Errorf("moderate content: %w", err)
		}
		result["content"] = check
	}

	if imageURL := payloadString(payload, "image_url"); imageURL != "" {
		check, err := o.moderator.CheckImageSafety(ctx, imageURL)
		if err != nil {
			return nil, fmt.Errorf("check image safety: %w", err)
		}
		result["image"] = check
	}

	if actions := payloadStrings(payload, "actions"); len(actions) > 0 {
		if userID == "" {
			return nil, fmt.Errorf("behavior analysis requires user_id")
		}
		analysis, err := o.moderator.AnalyzeUserBehavior(ctx, userID, actions)
		if err != nil {
			return nil, fmt.Errorf("analyze behavior: %w", err)
		}
		result["behavior"] = analysis
		if analysis.RiskLevel == safety.RiskHigh {
			o.addInsight(types.InsightTypeSafety,
				"high risk user behavior detected",
				map[string]any{"user_id": userID},
				true,
			)
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("safety-check payload has no content, image_url, or actions")
	}
	return result, nil
}

func (o *Orchestrator) handleOrganizationSetup(ctx context.Context, payload map[string]any) (map[string]any, error) {
	name := payloadString(payload, "name")
	school, err := o.school.CreateSchoolProfile(ctx, name, payloadString(payload, "location"))
	if err != nil {
		return nil, fmt.Errorf("create school profile: %w", err)
	}

	background, err := o.design.GenerateDesign(ctx, types.DesignKindBackground, generators.DesignContext{
		School:  school.Name,
		Subject: school.Name + " " + school.Mascot,
	})
	if err != nil {
		return nil, fmt.Errorf("generate school background: %w", err)
	}
	school.Brand.BackgroundURL = background.ImageURL

	o.addInsight(types.InsightTypeSuccess,
		fmt.Sprintf("school universe created for %s", school.Name),
		map[string]any{"mascot": school.Mascot},
		false,
	)

	return map[string]any{
		"school":       school,
		"brand_assets": school.Brand,
	}, nil
}

func (o *Orchestrator) handleContentRepair(ctx context.Context, payload map[string]any) (map[string]any, error) {
	hint := payloadString(payload, "school")
	if hint == "" {
		hint = payloadString(payload, "hint")
	}
	identity, err := o.identity.FabricateProfile(ctx, hint)
	if err != nil {
		return nil, fmt.Errorf("fabricate profile: %w", err)
	}

	return map[string]any{
		"fabricated_profile": map[string]any{
			"name":   identity.Name,
			"school": identity.School,
			"sport":  identity.Sport,
		},
		"identity": identity,
	}, nil
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func payloadStrings(payload map[string]any, key string) []string {
	switch v := payload[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
