package generators

import (
	"context"
	"testing"
)

func TestCreateSchoolProfile_RequiresName(t *testing.T) {
	gen := NewSchoolGenerator(mustLogger(t), mustTemplates(t))

	if _, err := gen.CreateSchoolProfile(context.Background(), "   ", "Ohio"); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestCreateSchoolProfile_MascotIsDeterministic(t *testing.T) {
	templates := mustTemplates(t)
	gen := NewSchoolGenerator(mustLogger(t), templates)
	ctx := context.Background()

	name := "Crestwood High"
	first, err := gen.CreateSchoolProfile(ctx, name, "Ohio")
	if err != nil {
		t.Fatalf("CreateSchoolProfile: %v", err)
	}
	second, err := gen.CreateSchoolProfile(ctx, name, "Ohio")
	if err != nil {
		t.Fatalf("CreateSchoolProfile: %v", err)
	}

	want := templates.Mascots[len(name)%len(templates.Mascots)]
	if first.Mascot != want || second.Mascot != want {
		t.Fatalf("mascot must be derived from the name: got %q and %q, want %q", first.Mascot, second.Mascot, want)
	}
	if first.Nickname != "The "+want {
		t.Fatalf("unexpected nickname %q", first.Nickname)
	}
}

func TestCreateSchoolProfile_FillsCampusAndBrand(t *testing.T) {
	gen := NewSchoolGenerator(mustLogger(t), mustTemplates(t))

	profile, err := gen.CreateSchoolProfile(context.Background(), "Lakeside Prep", "")
	if err != nil {
		t.Fatalf("CreateSchoolProfile: %v", err)
	}
	if profile.Location != "Hometown, USA" {
		t.Fatalf("expected default location, got %q", profile.Location)
	}
	if len(profile.Campus.Venues) != 2 {
		t.Fatalf("expected stadium and fieldhouse, got %d venues", len(profile.Campus.Venues))
	}
	if n := len(profile.Rivals); n < 1 || n > 3 {
		t.Fatalf("expected 1-3 rivals, got %d", n)
	}
	for _, r := range profile.Rivals {
		if r.Since < profile.Stats.Founded {
			t.Fatalf("rivalry %q predates the school: %d < %d", r.Name, r.Since, profile.Stats.Founded)
		}
	}
	if profile.Brand.LogoURL == "" || profile.Brand.BackgroundURL == "" {
		t.Fatalf("expected brand asset URLs, got %+v", profile.Brand)
	}
	if len(profile.Brand.Fonts) != 2 {
		t.Fatalf("expected 2 brand fonts, got %v", profile.Brand.Fonts)
	}
	if profile.Colors[0] == "" || profile.Colors[1] == "" || profile.Colors[2] == "" {
		t.Fatalf("expected full color triple, got %v", profile.Colors)
	}
}
