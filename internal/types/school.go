package types

import (
	"time"

	"github.com/google/uuid"
)

type RivalryTier string

const (
	RivalryFriendly RivalryTier = "friendly"
	RivalryHeated   RivalryTier = "heated"
	RivalryHistoric RivalryTier = "historic"
)

type Rival struct {
	Name      string      `json:"name"`
	Label     string      `json:"label"`
	Since     int         `json:"since"`
	Intensity RivalryTier `json:"intensity"`
}

type Venue struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Capacity int    `json:"capacity"`
}

type Campus struct {
	Zones      []string `json:"zones"`
	Venues     []Venue  `json:"venues"`
	Facilities []string `json:"facilities"`
}

type SchoolStats struct {
	Enrollment    int      `json:"enrollment"`
	Founded       int      `json:"founded"`
	Championships int      `json:"championships"`
	NotableAlumni []string `json:"notable_alumni"`
}

type BrandAssets struct {
	LogoURL       string   `json:"logo_url"`
	BackgroundURL string   `json:"background_url"`
	MascotURL     string   `json:"mascot_url"`
	Fonts         []string `json:"fonts"`
}

// SchoolProfile is a synthetic institution record, immutable once created.
// The mascot is a pure function of the school name's length so repeated
// setup for the same school always agrees on it.
type SchoolProfile struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Nickname   string      `json:"nickname,omitempty"`
	Mascot     string      `json:"mascot"`
	Colors     [3]string   `json:"colors"`
	Location   string      `json:"location"`
	Campus     Campus      `json:"campus"`
	Rivals     []Rival     `json:"rivals"`
	Traditions []string    `json:"traditions"`
	Stats      SchoolStats `json:"stats"`
	Brand      BrandAssets `json:"brand"`
	CreatedAt  time.Time   `json:"created_at"`
}
