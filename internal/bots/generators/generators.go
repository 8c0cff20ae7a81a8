package generators

import (
	"context"

	"github.com/playcrest/playcrest-backend/internal/types"
)

// The orchestrator only sees these interfaces, so a real template or
// inference engine can replace the built-in synthetic generators without
// touching dispatch.

type IdentityInput struct {
	Name     string
	School   string
	Sport    string
	Position string
	GradYear int
}

type IdentityGenerator interface {
	BuildIdentity(ctx context.Context, input IdentityInput) (*types.AthleteIdentity, error)
	EvolveIdentity(identity *types.AthleteIdentity, newAchievements []types.Achievement) *types.AthleteIdentity
	FabricateProfile(ctx context.Context, hint string) (*types.AthleteIdentity, error)
}

type DesignContext struct {
	School       string
	Subject      string
	Keywords     []string
	Conservative bool
}

type DesignGenerator interface {
	GenerateDesign(ctx context.Context, kind types.DesignKind, dctx DesignContext) (*types.DesignResult, error)
	SchoolTheme(school string) (primary, secondary string)
}

type SchoolGenerator interface {
	CreateSchoolProfile(ctx context.Context, name, location string) (*types.SchoolProfile, error)
}
