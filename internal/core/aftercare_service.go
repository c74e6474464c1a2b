package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// Custom errors for the AftercareService
var (
	ErrAftercareNotFound      = errors.New("aftercare plan not found")
	ErrNotAftercareArtist     = errors.New("only the authoring artist may do this")
	ErrNotAftercareParty      = errors.New("user is not a party to this plan")
	ErrInvalidAftercareStatus = errors.New("invalid aftercare status")
	ErrStepCountMismatch      = errors.New("step list does not match the plan")
)

// aftercareService implements the AftercareService interface.
type aftercareService struct {
	aftercareRepo db.AftercareRepository
	profileRepo   db.ProfileRepository
	logger        *zap.Logger
}

// NewAftercareService creates a new AftercareService instance.
func NewAftercareService(ar db.AftercareRepository, pr db.ProfileRepository, logger *zap.Logger) AftercareService {
	return &aftercareService{
		aftercareRepo: ar,
		profileRepo:   pr,
		logger:        logger,
	}
}

// CreatePlan authors a care plan for a client. Only artists can author plans.
func (s *aftercareService) CreatePlan(ctx context.Context, artistUID string, req models.CreateAftercareRequest) (*models.AftercarePlan, error) {
	artist, err := s.profileRepo.Get(ctx, artistUID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile '%s': %w", artistUID, err)
	}
	if artist.Role != models.RoleArtist {
		return nil, ErrNotAnArtist
	}

	now := time.Now().UTC()
	plan := &models.AftercarePlan{
		ID:        uuid.NewString(),
		ArtistUID: artistUID,
		ClientUID: req.ClientUID,
		Name:      req.Name,
		Status:    models.AftercareStatusActive,
		Steps:     req.Steps,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if plan.Steps == nil {
		plan.Steps = []models.AftercareStep{}
	}

	if err := s.aftercareRepo.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create aftercare plan: %w", err)
	}

	s.logger.Info("Aftercare plan created",
		zap.String("planId", plan.ID),
		zap.String("artistUid", artistUID),
		zap.String("clientUid", req.ClientUID),
	)
	return plan, nil
}

// GetPlan returns a plan from the client's namespace.
func (s *aftercareService) GetPlan(ctx context.Context, clientUID, planID string) (*models.AftercarePlan, error) {
	plan, err := s.aftercareRepo.GetByClient(ctx, clientUID, planID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrAftercareNotFound
		}
		return nil, fmt.Errorf("failed to load aftercare plan '%s': %w", planID, err)
	}
	return plan, nil
}

// UpdatePlan applies an update on behalf of uid. The authoring artist may
// change the status and rewrite steps; the client may only toggle the Done
// flag on existing steps.
func (s *aftercareService) UpdatePlan(ctx context.Context, uid, clientUID, planID string, req models.UpdateAftercareRequest) (*models.AftercarePlan, error) {
	plan, err := s.GetPlan(ctx, clientUID, planID)
	if err != nil {
		return nil, err
	}

	isArtist := uid == plan.ArtistUID
	isClient := uid == plan.ClientUID
	if !isArtist && !isClient {
		return nil, ErrNotAftercareParty
	}

	if req.Status != nil {
		if !isArtist {
			return nil, ErrNotAftercareArtist
		}
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAftercareStatus, *req.Status)
		}
		plan.Status = *req.Status
	}

	if req.Steps != nil {
		if isArtist {
			plan.Steps = req.Steps
		} else {
			// Clients track progress, not content. The submitted list must
			// line up with the stored one; only Done is taken from it.
			if len(req.Steps) != len(plan.Steps) {
				return nil, ErrStepCountMismatch
			}
			for i := range plan.Steps {
				plan.Steps[i].Done = req.Steps[i].Done
			}
		}
	}

	plan.UpdatedAt = time.Now().UTC()
	if err := s.aftercareRepo.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update aftercare plan '%s': %w", planID, err)
	}
	return plan, nil
}

// ListForClient returns full plans stored under the client.
func (s *aftercareService) ListForClient(ctx context.Context, clientUID string) ([]*models.AftercarePlan, error) {
	plans, err := s.aftercareRepo.ListByClient(ctx, clientUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aftercare plans for client '%s': %w", clientUID, err)
	}
	return plans, nil
}

// ListForArtist returns the artist-side index entries.
func (s *aftercareService) ListForArtist(ctx context.Context, artistUID string) ([]*models.AftercareIndexEntry, error) {
	entries, err := s.aftercareRepo.ListByArtist(ctx, artistUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aftercare plans for artist '%s': %w", artistUID, err)
	}
	return entries, nil
}
