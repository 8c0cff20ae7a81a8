package types

import (
	"time"

	"github.com/google/uuid"
)

type ImpactTier string

const (
	ImpactLow    ImpactTier = "low"
	ImpactMedium ImpactTier = "medium"
	ImpactHigh   ImpactTier = "high"
)

type Achievement struct {
	Title       string     `json:"title"`
	Date        time.Time  `json:"date"`
	Description string     `json:"description"`
	Impact      ImpactTier `json:"impact"`
}

type Personality struct {
	Traits      []string `json:"traits"`
	Motto       string   `json:"motto"`
	Inspiration string   `json:"inspiration"`
}

type VisualIdentity struct {
	ProfileImageURL string   `json:"profile_image_url"`
	ActionShotURLs  []string `json:"action_shot_urls"`
	CardImageURL    string   `json:"card_image_url"`
	SignatureColor  string   `json:"signature_color"`
}

// AthleteIdentity is a synthetic athlete profile. Identities are never
// updated in place; evolving one produces a superseding copy.
type AthleteIdentity struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Handle        string            `json:"handle"`
	School        string            `json:"school"`
	Sport         string            `json:"sport"`
	Position      string            `json:"position"`
	JerseyNumber  string            `json:"jersey_number"`
	GradYear      int               `json:"grad_year"`
	Bio           string            `json:"bio"`
	Personality   Personality       `json:"personality"`
	Visual        VisualIdentity    `json:"visual"`
	Achievements  []Achievement     `json:"achievements"`
	SocialHandles map[string]string `json:"social_handles"`
	CreatedAt     time.Time         `json:"created_at"`
}

type DesignKind string

const (
	DesignKindPoster     DesignKind = "poster"
	DesignKindCard       DesignKind = "card"
	DesignKindBackground DesignKind = "background"
	DesignKindLogo       DesignKind = "logo"
	DesignKindThumbnail  DesignKind = "thumbnail"
)

type DesignResult struct {
	ID             uuid.UUID  `json:"id"`
	Kind           DesignKind `json:"kind"`
	Prompt         string     `json:"prompt"`
	ImageURL       string     `json:"image_url"`
	PrimaryColor   string     `json:"primary_color"`
	SecondaryColor string     `json:"secondary_color"`
	Conservative   bool       `json:"conservative"`
	Generated      bool       `json:"generated"`
	CreatedAt      time.Time  `json:"created_at"`
}
