package services

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

func newCardService(t *testing.T) *CardArtService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return NewCardArtService(log)
}

func TestRenderIdentityCard_ProducesCardSizedPNG(t *testing.T) {
	svc := newCardService(t)

	buf, err := svc.RenderIdentityCard(&types.AthleteIdentity{
		ID:           uuid.New(),
		Name:         "Jordan Reyes",
		JerseyNumber: "23",
		Visual:       types.VisualIdentity{SignatureColor: "#7C3AED"},
	})
	if err != nil {
		t.Fatalf("RenderIdentityCard: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode card png: %v", err)
	}
	if img.Bounds().Dx() != cardWidth || img.Bounds().Dy() != cardHeight {
		t.Fatalf("unexpected card dimensions %v", img.Bounds())
	}
}

func TestRenderIdentityCard_RequiresIdentity(t *testing.T) {
	svc := newCardService(t)

	if _, err := svc.RenderIdentityCard(nil); err == nil {
		t.Fatalf("expected error for nil identity")
	}
}

func TestRenderThumbnail_ScalesPreservingAspect(t *testing.T) {
	svc := newCardService(t)

	card, err := svc.RenderIdentityCard(&types.AthleteIdentity{
		ID:   uuid.New(),
		Name: "Sam Okafor",
	})
	if err != nil {
		t.Fatalf("RenderIdentityCard: %v", err)
	}

	thumb, err := svc.RenderThumbnail(card.Bytes())
	if err != nil {
		t.Fatalf("RenderThumbnail: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(thumb.Bytes()))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dx() != thumbWidth {
		t.Fatalf("expected thumbnail width %d, got %d", thumbWidth, img.Bounds().Dx())
	}
	wantHeight := thumbWidth * cardHeight / cardWidth
	if img.Bounds().Dy() != wantHeight {
		t.Fatalf("expected thumbnail height %d, got %d", wantHeight, img.Bounds().Dy())
	}
}

func TestParseHexColor_FallsBackOnBadInput(t *testing.T) {
	fallback := color.NRGBA{R: 1, G: 2, B: 3, A: 0xFF}
	if got := parseHexColor("", fallback); got != fallback {
		t.Fatalf("expected fallback color, got %+v", got)
	}
	if got := parseHexColor("#ZZZZZZ", fallback); got != fallback {
		t.Fatalf("expected fallback for junk input, got %+v", got)
	}
	parsed := parseHexColor("#16A34A", fallback)
	if parsed.R != 0x16 || parsed.G != 0xA3 || parsed.B != 0x4A {
		t.Fatalf("unexpected parsed color %+v", parsed)
	}
}
