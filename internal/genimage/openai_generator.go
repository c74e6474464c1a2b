// Package genimage implements the AI image generation provider on the
// OpenAI Images API.
package genimage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIGenerator implements core.ImageGenerator. gpt-image-1 returns image
// bytes inline as base64; no second fetch is needed.
type OpenAIGenerator struct {
	client openai.Client
}

// NewOpenAIGenerator creates a generator authenticated with the given key.
func NewOpenAIGenerator(apiKey string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// GenerateImage renders the prompt and returns the PNG bytes.
func (g *OpenAIGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	res, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModelGPTImage1,
		Prompt: prompt,
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(res.Data) == 0 || res.Data[0].B64JSON == "" {
		return nil, errors.New("image generation returned no data")
	}

	data, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}
	return data, nil
}
