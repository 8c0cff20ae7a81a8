package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/utils"
)

// ImageGenClient calls an external image-generation API when a credential
// is configured. Without one, Enabled reports false and the design
// generator falls back to stock URLs; absence of the credential is never
// an error.
type ImageGenClient struct {
	log     *logger.Logger
	apiKey  string
	apiURL  string
	model   string
	httpCli *http.Client
}

func NewImageGenClient(baseLog *logger.Logger) *ImageGenClient {
	log := baseLog.With("service", "ImageGenClient")
	return &ImageGenClient{
		log:     log,
		apiKey:  strings.TrimSpace(utils.GetEnv("IMAGE_API_KEY", "", nil)),
		apiURL:  utils.GetEnv("IMAGE_API_URL", "https://api.openai.com/v1/images/generations", nil),
		model:   utils.GetEnv("IMAGE_API_MODEL", "dall-e-3", nil),
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *ImageGenClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

func (c *ImageGenClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("image generation not configured")
	}

	body, err := json.Marshal(map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"n":      1,
		"size":   "1024x1024",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("image generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image generation returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode image generation response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("image generation response contained no url")
	}
	return parsed.Data[0].URL, nil
}
