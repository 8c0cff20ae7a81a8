package generators

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

type schoolGenerator struct {
	log       *logger.Logger
	templates *Templates
}

func NewSchoolGenerator(baseLog *logger.Logger, templates *Templates) SchoolGenerator {
	return &schoolGenerator{
		log:       baseLog.With("bot", "SchoolGenerator"),
		templates: templates,
	}
}

func (g *schoolGenerator) CreateSchoolProfile(ctx context.Context, name, location string) (*types.SchoolProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("school name is required")
	}
	if location == "" {
		location = "Hometown, USA"
	}

	// Mascot must be reproducible for a given name; name length indexes
	// the pool.
	mascot := g.templates.Mascots[len(name)%len(g.templates.Mascots)]
	theme := g.templates.ThemeFor(name)
	colors := [3]string{theme[0], theme[1], "#FFFFFF"}
	if len(theme) > 2 {
		colors[2] = theme[2]
	}

	founded := 1900 + rand.Intn(100)
	profile := &types.SchoolProfile{
		ID:       uuid.New(),
		Name:     name,
		Nickname: "The " + mascot,
		Mascot:   mascot,
		Colors:   colors,
		Location: location,
		Campus: types.Campus{
			Zones:      sampleStrings(g.templates.CampusZones, 2, 4),
			Venues:     g.sampleVenues(name, mascot),
			Facilities: sampleStrings(g.templates.Facilities, 2, 4),
		},
		Rivals:     g.sampleRivals(founded),
		Traditions: sampleStrings(g.templates.Traditions, 2, 4),
		Stats: types.SchoolStats{
			Enrollment:    800 + rand.Intn(2200),
			Founded:       founded,
			Championships: rand.Intn(24),
			NotableAlumni: sampleStrings(g.templates.Alumni, 1, 3),
		},
		Brand: types.BrandAssets{
			LogoURL:       stockImageURL("crest", "logo", mascot),
			BackgroundURL: stockImageURL("stadium", "lights"),
			MascotURL:     stockImageURL("mascot", mascot),
			Fonts:         sampleStrings(g.templates.BrandFonts, 2, 2),
		},
		CreatedAt: time.Now(),
	}

	g.log.Debug("school profile created", "school", name, "mascot", mascot)
	return profile, nil
}

func (g *schoolGenerator) sampleVenues(name, mascot string) []types.Venue {
	return []types.Venue{
		{Name: name + " Stadium", Kind: "stadium", Capacity: 2000 + rand.Intn(8000)},
		{Name: mascot + " Fieldhouse", Kind: "gym", Capacity: 500 + rand.Intn(2500)},
	}
}

func (g *schoolGenerator) sampleRivals(founded int) []types.Rival {
	count := 1 + rand.Intn(3)
	order := rand.Perm(len(g.templates.RivalNames))
	if count > len(order) {
		count = len(order)
	}
	tiers := []types.RivalryTier{types.RivalryFriendly, types.RivalryHeated, types.RivalryHistoric}
	out := make([]types.Rival, 0, count)
	for i := 0; i < count; i++ {
		since := founded + rand.Intn(time.Now().Year()-founded+1)
		out = append(out, types.Rival{
			Name:      g.templates.RivalNames[order[i]],
			Label:     g.templates.RivalLabels[rand.Intn(len(g.templates.RivalLabels))],
			Since:     since,
			Intensity: tiers[rand.Intn(len(tiers))],
		})
	}
	return out
}

// sampleStrings picks between min and max distinct entries from a pool.
func sampleStrings(pool []string, min, max int) []string {
	if len(pool) == 0 {
		return nil
	}
	count := min
	if max > min {
		count += rand.Intn(max - min + 1)
	}
	if count > len(pool) {
		count = len(pool)
	}
	order := rand.Perm(len(pool))
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, pool[order[i]])
	}
	return out
}
