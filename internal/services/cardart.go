package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

const (
	cardWidth  = 600
	cardHeight = 840

	thumbWidth = 150
)

// CardArtService draws athlete identity cards locally. It is the one
// image producer that works with no external provider at all. A TTF via
// CARD_FONT enables initials and jersey text; without it cards render as
// color blocks only.
type CardArtService struct {
	log      *logger.Logger
	fontFace font.Face
}

func NewCardArtService(baseLog *logger.Logger) *CardArtService {
	serviceLog := baseLog.With("service", "CardArtService")

	var face font.Face
	if fontPath := strings.TrimSpace(os.Getenv("CARD_FONT")); fontPath != "" {
		loaded, err := loadFontFace(fontPath, 120)
		if err != nil {
			serviceLog.Warn("could not load card font, rendering without text", "error", err)
		} else {
			face = loaded
		}
	}
	return &CardArtService{log: serviceLog, fontFace: face}
}

// RenderIdentityCard produces a PNG trading-card image for an identity.
func (s *CardArtService) RenderIdentityCard(identity *types.AthleteIdentity) (bytes.Buffer, error) {
	var buf bytes.Buffer
	if identity == nil {
		return buf, fmt.Errorf("identity required")
	}

	primary := parseHexColor(identity.Visual.SignatureColor, color.NRGBA{R: 0x1D, G: 0x4E, B: 0xD8, A: 0xFF})

	dc := gg.NewContext(cardWidth, cardHeight)
	dc.SetColor(primary)
	dc.Clear()

	// Lower accent band.
	dc.SetColor(color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xFF})
	dc.DrawRectangle(0, float64(cardHeight)*0.72, float64(cardWidth), float64(cardHeight)*0.28)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawCircle(float64(cardWidth)/2, float64(cardHeight)*0.38, 170)
	dc.Fill()

	if s.fontFace != nil {
		dc.SetFontFace(s.fontFace)
		dc.SetColor(primary)
		dc.DrawStringAnchored(initials(identity.Name), float64(cardWidth)/2, float64(cardHeight)*0.38, 0.5, 0.5)
		dc.SetColor(color.White)
		dc.DrawStringAnchored("#"+identity.JerseyNumber, float64(cardWidth)/2, float64(cardHeight)*0.86, 0.5, 0.5)
	}

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode card png: %w", err)
	}
	return buf, nil
}

// RenderThumbnail scales a rendered card down for list views.
func (s *CardArtService) RenderThumbnail(cardPNG []byte) (bytes.Buffer, error) {
	var buf bytes.Buffer
	src, _, err := image.Decode(bytes.NewReader(cardPNG))
	if err != nil {
		return buf, fmt.Errorf("decode card image: %w", err)
	}

	ratio := float64(src.Bounds().Dy()) / float64(src.Bounds().Dx())
	dst := image.NewNRGBA(image.Rect(0, 0, thumbWidth, int(float64(thumbWidth)*ratio)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	if err := png.Encode(&buf, dst); err != nil {
		return buf, fmt.Errorf("encode thumbnail png: %w", err)
	}
	return buf, nil
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}

func parseHexColor(hex string, fallback color.NRGBA) color.NRGBA {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return fallback
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

func initials(name string) string {
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(tokens[0][:1])
	default:
		return strings.ToUpper(tokens[0][:1] + tokens[len(tokens)-1][:1])
	}
}
