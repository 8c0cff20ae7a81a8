package generators

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

type identityGenerator struct {
	log       *logger.Logger
	templates *Templates
}

func NewIdentityGenerator(baseLog *logger.Logger, templates *Templates) IdentityGenerator {
	return &identityGenerator{
		log:       baseLog.With("bot", "IdentityGenerator"),
		templates: templates,
	}
}

func (g *identityGenerator) BuildIdentity(ctx context.Context, input IdentityInput) (*types.AthleteIdentity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("identity name is required")
	}

	position := input.Position
	if position == "" {
		position = "Athlete"
	}
	gradYear := input.GradYear
	if gradYear == 0 {
		gradYear = time.Now().Year() + 1 + rand.Intn(3)
	}

	persona := g.templates.Personalities[rand.Intn(len(g.templates.Personalities))]
	theme := g.templates.ThemeFor(input.School)

	identity := &types.AthleteIdentity{
		ID:           uuid.New(),
		Name:         name,
		Handle:       deriveHandle(name),
		School:       input.School,
		Sport:        input.Sport,
		Position:     position,
		JerseyNumber: fmt.Sprintf("%d", rand.Intn(100)),
		GradYear:     gradYear,
		Bio:          g.buildBio(position, input.School, gradYear, persona.Motto),
		Personality: types.Personality{
			Traits:      append([]string(nil), persona.Traits...),
			Motto:       persona.Motto,
			Inspiration: persona.Inspiration,
		},
		Visual: types.VisualIdentity{
			ProfileImageURL: stockImageURL(input.Sport, "athlete", "portrait"),
			ActionShotURLs: []string{
				stockImageURL(input.Sport, "action"),
				stockImageURL(input.Sport, "game", "competition"),
			},
			SignatureColor: theme[0],
		},
		Achievements:  g.sampleAchievements(),
		SocialHandles: g.sampleSocialHandles(name),
		CreatedAt:     time.Now(),
	}

	sortAchievementsDesc(identity.Achievements)
	g.log.Debug("identity built", "handle", identity.Handle, "school", identity.School)
	return identity, nil
}

// EvolveIdentity merges new achievements into a superseding copy. The
// input identity is never mutated; its slices are copied before any
// sort or append.
func (g *identityGenerator) EvolveIdentity(identity *types.AthleteIdentity, newAchievements []types.Achievement) *types.AthleteIdentity {
	evolved := *identity

	merged := make([]types.Achievement, 0, len(identity.Achievements)+len(newAchievements))
	merged = append(merged, identity.Achievements...)
	merged = append(merged, newAchievements...)
	sortAchievementsDesc(merged)
	evolved.Achievements = merged

	traits := append([]string(nil), identity.Personality.Traits...)
	for _, a := range newAchievements {
		if a.Impact == types.ImpactHigh && !containsString(traits, "Champion") {
			traits = append(traits, "Champion")
			break
		}
	}
	evolved.Personality.Traits = traits

	evolved.Visual.ActionShotURLs = append([]string(nil), identity.Visual.ActionShotURLs...)
	evolved.SocialHandles = make(map[string]string, len(identity.SocialHandles))
	for k, v := range identity.SocialHandles {
		evolved.SocialHandles[k] = v
	}
	return &evolved
}

// FabricateProfile invents a plausible athlete for content repair, then
// builds a full identity from it.
func (g *identityGenerator) FabricateProfile(ctx context.Context, hint string) (*types.AthleteIdentity, error) {
	first := g.templates.FirstNames[rand.Intn(len(g.templates.FirstNames))]
	last := g.templates.LastNames[rand.Intn(len(g.templates.LastNames))]
	school := strings.TrimSpace(hint)
	if school == "" {
		school = g.templates.RivalNames[rand.Intn(len(g.templates.RivalNames))] + " High"
	}
	sport := g.templates.Sports[rand.Intn(len(g.templates.Sports))]

	return g.BuildIdentity(ctx, IdentityInput{
		Name:   first + " " + last,
		School: school,
		Sport:  sport,
	})
}

func (g *identityGenerator) buildBio(position, school string, gradYear int, motto string) string {
	tmpl := g.templates.BioTemplates[rand.Intn(len(g.templates.BioTemplates))]
	r := strings.NewReplacer(
		"{position}", position,
		"{school}", school,
		"{year}", fmt.Sprintf("%d", gradYear),
		"{motto}", motto,
	)
	return r.Replace(tmpl)
}

func (g *identityGenerator) sampleAchievements() []types.Achievement {
	count := 3 + rand.Intn(3)
	titles := rand.Perm(len(g.templates.AchievementTitles))
	if count > len(titles) {
		count = len(titles)
	}
	impacts := []types.ImpactTier{types.ImpactLow, types.ImpactMedium, types.ImpactHigh}
	out := make([]types.Achievement, 0, count)
	for i := 0; i < count; i++ {
		title := g.templates.AchievementTitles[titles[i]]
		out = append(out, types.Achievement{
			Title:       title,
			Date:        time.Now().AddDate(0, 0, -rand.Intn(365)),
			Description: fmt.Sprintf("Earned %s this past season", title),
			Impact:      impacts[rand.Intn(len(impacts))],
		})
	}
	return out
}

func (g *identityGenerator) sampleSocialHandles(name string) map[string]string {
	count := 2 + rand.Intn(2)
	order := rand.Perm(len(g.templates.SocialPlatforms))
	if count > len(order) {
		count = len(order)
	}
	base := handleBase(name)
	out := make(map[string]string, count)
	for i := 0; i < count; i++ {
		platform := g.templates.SocialPlatforms[order[i]]
		out[platform] = "@" + base
	}
	return out
}

// deriveHandle builds a handle from the name's tokens plus a random
// two-digit suffix, e.g. "jordan.reyes07".
func deriveHandle(name string) string {
	return fmt.Sprintf("%s%02d", handleBase(name), rand.Intn(100))
}

func handleBase(name string) string {
	tokens := strings.Fields(strings.ToLower(name))
	switch len(tokens) {
	case 0:
		return "athlete"
	case 1:
		return tokens[0]
	default:
		return tokens[0] + "." + tokens[len(tokens)-1]
	}
}

func sortAchievementsDesc(achievements []types.Achievement) {
	sort.SliceStable(achievements, func(i, j int) bool {
		return achievements[i].Date.After(achievements[j].Date)
	})
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
