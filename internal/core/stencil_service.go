package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// Custom errors for the StencilService
var (
	ErrEmptyPrompt   = errors.New("stencil prompt is empty")
	ErrPromptTooLong = errors.New("stencil prompt is too long")
)

const maxPromptLen = 1000

// stencilPreamble steers the image model toward line-art output usable as a
// tattoo stencil regardless of what the prompt asks for.
const stencilPreamble = "Black and white tattoo stencil line art, clean outlines, no shading, white background: "

// stencilService implements the StencilService interface.
type stencilService struct {
	stencilRepo db.StencilRepository
	generator   ImageGenerator
	store       ObjectStore
	logger      *zap.Logger
}

// NewStencilService creates a new StencilService instance.
func NewStencilService(sr db.StencilRepository, gen ImageGenerator, store ObjectStore, logger *zap.Logger) StencilService {
	return &stencilService{
		stencilRepo: sr,
		generator:   gen,
		store:       store,
		logger:      logger,
	}
}

// Generate produces a stencil image for the prompt, uploads it, and records
// it under the requesting user.
func (s *stencilService) Generate(ctx context.Context, uid, prompt string) (*models.Stencil, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if len([]rune(prompt)) > maxPromptLen {
		return nil, ErrPromptTooLong
	}

	data, err := s.generator.GenerateImage(ctx, stencilPreamble+prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate stencil image: %w", err)
	}

	stencil := &models.Stencil{
		ID:       uuid.NewString(),
		OwnerUID: uid,
		Prompt:   prompt,
	}

	objectName := fmt.Sprintf("stencils/%s/%s.png", uid, stencil.ID)
	url, err := s.store.Save(ctx, objectName, "image/png", data)
	if err != nil {
		return nil, fmt.Errorf("failed to store stencil image: %w", err)
	}
	stencil.ImageURL = url
	stencil.CreatedAt = time.Now().UTC()

	if _, err := s.stencilRepo.Create(ctx, stencil); err != nil {
		return nil, fmt.Errorf("failed to record stencil: %w", err)
	}

	s.logger.Info("Stencil generated",
		zap.String("uid", uid),
		zap.String("stencilId", stencil.ID),
	)
	return stencil, nil
}

// ListStencils returns the user's generated stencils, newest first.
func (s *stencilService) ListStencils(ctx context.Context, uid string) ([]*models.Stencil, error) {
	stencils, err := s.stencilRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list stencils for user '%s': %w", uid, err)
	}
	return stencils, nil
}
