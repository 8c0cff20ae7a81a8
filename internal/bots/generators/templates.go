package generators

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

type PersonalityTemplate struct {
	Traits      []string `yaml:"traits"`
	Motto       string   `yaml:"motto"`
	Inspiration string   `yaml:"inspiration"`
}

// Templates holds every fixed candidate pool the generators sample from.
// The defaults ship embedded; GENERATOR_TEMPLATES_PATH overrides them.
type Templates struct {
	Mascots           []string              `yaml:"mascots"`
	Sports            []string              `yaml:"sports"`
	FirstNames        []string              `yaml:"first_names"`
	LastNames         []string              `yaml:"last_names"`
	Personalities     []PersonalityTemplate `yaml:"personalities"`
	AchievementTitles []string              `yaml:"achievement_titles"`
	BioTemplates      []string              `yaml:"bio_templates"`
	SocialPlatforms   []string              `yaml:"social_platforms"`
	Traditions        []string              `yaml:"traditions"`
	CampusZones       []string              `yaml:"campus_zones"`
	Facilities        []string              `yaml:"facilities"`
	RivalLabels       []string              `yaml:"rival_labels"`
	RivalNames        []string              `yaml:"rival_names"`
	Alumni            []string              `yaml:"alumni"`
	ColorThemes       map[string][]string   `yaml:"color_themes"`
	DesignPrompts     map[string]string     `yaml:"design_prompts"`
	ConservativeTail  string                `yaml:"conservative_suffix"`
	BrandFonts        []string              `yaml:"brand_fonts"`
}

func LoadTemplates() (*Templates, error) {
	raw := defaultTemplatesYAML
	if path := strings.TrimSpace(os.Getenv("GENERATOR_TEMPLATES_PATH")); path != "" {
		fileRaw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read generator templates: %w", err)
		}
		raw = fileRaw
	}
	var t Templates
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse generator templates: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Templates) validate() error {
	checks := []struct {
		name string
		n    int
	}{
		{"mascots", len(t.Mascots)},
		{"sports", len(t.Sports)},
		{"personalities", len(t.Personalities)},
		{"achievement_titles", len(t.AchievementTitles)},
		{"bio_templates", len(t.BioTemplates)},
		{"social_platforms", len(t.SocialPlatforms)},
		{"design_prompts", len(t.DesignPrompts)},
	}
	for _, c := range checks {
		if c.n == 0 {
			return fmt.Errorf("generator templates: %s pool is empty", c.name)
		}
	}
	if _, ok := t.ColorThemes["default"]; !ok {
		return fmt.Errorf("generator templates: color_themes must include a default entry")
	}
	return nil
}

// ThemeFor resolves a school's color triple, falling back to the default
// theme for unknown schools.
func (t *Templates) ThemeFor(school string) []string {
	if theme, ok := t.ColorThemes[strings.TrimSpace(school)]; ok && len(theme) >= 2 {
		return theme
	}
	return t.ColorThemes["default"]
}
