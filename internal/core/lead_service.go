package core

import (
	"context"
	"errors"
	"fmt"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// Custom errors for the LeadService
var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrInvalidLeadStatus = errors.New("invalid lead status")
)

// leadService implements the LeadService interface. Lead creation itself
// happens in the message send path; this service only serves the artist's
// inbox.
type leadService struct {
	leadRepo db.LeadRepository
}

// NewLeadService creates a new LeadService instance.
func NewLeadService(lr db.LeadRepository) LeadService {
	return &leadService{leadRepo: lr}
}

// ListLeads returns the artist's lead inbox, newest first.
func (s *leadService) ListLeads(ctx context.Context, artistUID string) ([]*models.Lead, error) {
	leads, err := s.leadRepo.ListByArtist(ctx, artistUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads for artist '%s': %w", artistUID, err)
	}
	return leads, nil
}

// UpdateLeadStatus moves a lead through its lifecycle and returns the updated
// record.
func (s *leadService) UpdateLeadStatus(ctx context.Context, artistUID, leadID string, leadStatus models.LeadStatus) (*models.Lead, error) {
	if !leadStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLeadStatus, leadStatus)
	}

	if _, err := s.leadRepo.Get(ctx, artistUID, leadID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to load lead '%s': %w", leadID, err)
	}

	if err := s.leadRepo.UpdateStatus(ctx, artistUID, leadID, leadStatus); err != nil {
		return nil, fmt.Errorf("failed to update lead '%s': %w", leadID, err)
	}

	lead, err := s.leadRepo.Get(ctx, artistUID, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lead '%s': %w", leadID, err)
	}
	return lead, nil
}
