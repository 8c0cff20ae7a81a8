package generators

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/types"
)

// ImageClient is an optional external image-generation provider. A nil
// or disabled client is normal; design generation then falls back to
// deterministic stock-search URLs and never errors.
type ImageClient interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type designGenerator struct {
	log       *logger.Logger
	templates *Templates
	images    ImageClient
}

func NewDesignGenerator(baseLog *logger.Logger, templates *Templates, images ImageClient) DesignGenerator {
	return &designGenerator{
		log:       baseLog.With("bot", "DesignGenerator"),
		templates: templates,
		images:    images,
	}
}

func (g *designGenerator) GenerateDesign(ctx context.Context, kind types.DesignKind, dctx DesignContext) (*types.DesignResult, error) {
	tmpl, ok := g.templates.DesignPrompts[string(kind)]
	if !ok {
		return nil, fmt.Errorf("no prompt template for design kind %q", kind)
	}
	primary, secondary := g.SchoolTheme(dctx.School)

	subject := strings.TrimSpace(dctx.Subject)
	if subject == "" {
		subject = "a student athlete"
	}
	prompt := strings.NewReplacer(
		"{subject}", subject,
		"{school}", dctx.School,
		"{primary}", primary,
		"{secondary}", secondary,
	).Replace(tmpl)
	if dctx.Conservative {
		prompt += g.templates.ConservativeTail
	}

	result := &types.DesignResult{
		ID:             uuid.New(),
		Kind:           kind,
		Prompt:         prompt,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		Conservative:   dctx.Conservative,
		CreatedAt:      time.Now(),
	}

	if g.images != nil && g.images.Enabled() {
		imageURL, err := g.images.Generate(ctx, prompt)
		if err == nil && imageURL != "" {
			result.ImageURL = imageURL
			result.Generated = true
			return result, nil
		}
		if err != nil {
			g.log.Warn("image generation failed, using stock fallback", "kind", kind, "error", err)
		}
	}

	keywords := append([]string{string(kind), "sports"}, dctx.Keywords...)
	if dctx.School != "" {
		keywords = append(keywords, "school")
	}
	result.ImageURL = stockImageURL(keywords...)
	return result, nil
}

func (g *designGenerator) SchoolTheme(school string) (string, string) {
	theme := g.templates.ThemeFor(school)
	return theme[0], theme[1]
}

// stockImageURL builds a deterministic keyword-search URL. It is the
// no-credential fallback for every image slot in generated records.
func stockImageURL(keywords ...string) string {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw == "" {
			continue
		}
		cleaned = append(cleaned, url.QueryEscape(kw))
	}
	if len(cleaned) == 0 {
		cleaned = []string{"sports"}
	}
	return "https://source.unsplash.com/featured/1200x800/?" + strings.Join(cleaned, ",")
}
