package core

import (
	"context"
	"errors"
	"testing"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

type leadInboxRepoStub struct {
	db.LeadRepository

	leads   map[string]*models.Lead
	updated []models.LeadStatus
}

func (s *leadInboxRepoStub) Get(ctx context.Context, artistUID, leadID string) (*models.Lead, error) {
	if l, ok := s.leads[leadID]; ok && l.ArtistUID == artistUID {
		return l, nil
	}
	return nil, db.ErrNotFound
}

func (s *leadInboxRepoStub) UpdateStatus(ctx context.Context, artistUID, leadID string, status models.LeadStatus) error {
	s.updated = append(s.updated, status)
	s.leads[leadID].Status = status
	return nil
}

func TestUpdateLeadStatus_MovesLifecycle(t *testing.T) {
	repo := &leadInboxRepoStub{leads: map[string]*models.Lead{
		"lead-1": {ID: "lead-1", ArtistUID: "artist-1", Status: models.LeadStatusNew},
	}}
	svc := NewLeadService(repo)

	lead, err := svc.UpdateLeadStatus(context.Background(), "artist-1", "lead-1", models.LeadStatusAccepted)
	if err != nil {
		t.Fatalf("UpdateLeadStatus: %v", err)
	}
	if lead.Status != models.LeadStatusAccepted {
		t.Fatalf("status %q, want accepted", lead.Status)
	}
}

func TestUpdateLeadStatus_InvalidStatus(t *testing.T) {
	repo := &leadInboxRepoStub{leads: map[string]*models.Lead{}}
	svc := NewLeadService(repo)

	_, err := svc.UpdateLeadStatus(context.Background(), "artist-1", "lead-1", "ghosted")
	if !errors.Is(err, ErrInvalidLeadStatus) {
		t.Fatalf("got %v, want ErrInvalidLeadStatus", err)
	}
	if len(repo.updated) != 0 {
		t.Fatal("invalid status must not write")
	}
}

func TestUpdateLeadStatus_OtherArtistsLeadHidden(t *testing.T) {
	repo := &leadInboxRepoStub{leads: map[string]*models.Lead{
		"lead-1": {ID: "lead-1", ArtistUID: "artist-1", Status: models.LeadStatusNew},
	}}
	svc := NewLeadService(repo)

	_, err := svc.UpdateLeadStatus(context.Background(), "artist-2", "lead-1", models.LeadStatusAccepted)
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("got %v, want ErrLeadNotFound", err)
	}
}
