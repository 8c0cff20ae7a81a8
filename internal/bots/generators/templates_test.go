package generators

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playcrest/playcrest-backend/internal/types"
)

func TestLoadTemplates_EmbeddedDefaultsAreComplete(t *testing.T) {
	templates, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	for _, kind := range []types.DesignKind{
		types.DesignKindPoster,
		types.DesignKindCard,
		types.DesignKindBackground,
		types.DesignKindLogo,
		types.DesignKindThumbnail,
	} {
		if _, ok := templates.DesignPrompts[string(kind)]; !ok {
			t.Fatalf("missing design prompt for %q", kind)
		}
	}
	if templates.ConservativeTail == "" {
		t.Fatalf("expected a conservative prompt suffix")
	}
}

func TestLoadTemplates_PathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	raw := []byte(`
mascots: [Tigers]
sports: [Basketball]
personalities:
  - traits: [Driven]
    motto: "Keep going"
    inspiration: "My coach"
achievement_titles: [MVP]
bio_templates: ["{position} at {school}, class of {year}. {motto}"]
social_platforms: [instagram, tiktok]
color_themes:
  default: ["#111111", "#EEEEEE", "#FFFFFF"]
design_prompts:
  poster: "poster of {subject}"
conservative_suffix: ", school-appropriate"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}
	t.Setenv("GENERATOR_TEMPLATES_PATH", path)

	templates, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates with override: %v", err)
	}
	if len(templates.Mascots) != 1 || templates.Mascots[0] != "Tigers" {
		t.Fatalf("override not honored: %v", templates.Mascots)
	}
}

func TestLoadTemplates_RejectsMissingDefaultTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	raw := []byte(`
mascots: [Tigers]
sports: [Basketball]
personalities:
  - traits: [Driven]
    motto: "Keep going"
    inspiration: "My coach"
achievement_titles: [MVP]
bio_templates: ["bio"]
social_platforms: [instagram]
color_themes:
  Eastview: ["#DC2626", "#111827"]
design_prompts:
  poster: "poster"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}
	t.Setenv("GENERATOR_TEMPLATES_PATH", path)

	if _, err := LoadTemplates(); err == nil {
		t.Fatalf("expected error for missing default color theme")
	}
}
