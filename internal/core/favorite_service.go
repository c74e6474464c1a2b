package core

import (
	"context"
	"errors"
	"fmt"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// ErrNotAnArtistProfile is returned when a favorite targets a non-artist.
var ErrNotAnArtistProfile = errors.New("favorites can only target artist profiles")

// favoriteService implements the FavoriteService interface.
type favoriteService struct {
	favoriteRepo db.FavoriteRepository
	profileRepo  db.ProfileRepository
}

// NewFavoriteService creates a new FavoriteService instance.
func NewFavoriteService(fr db.FavoriteRepository, pr db.ProfileRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: fr,
		profileRepo:  pr,
	}
}

// AddFavorite saves an artist to the client's list. Idempotent: favoriting
// an already-saved artist rewrites the same document.
func (s *favoriteService) AddFavorite(ctx context.Context, clientUID, artistUID string) error {
	artist, err := s.profileRepo.Get(ctx, artistUID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load profile '%s': %w", artistUID, err)
	}
	if artist.Role != models.RoleArtist {
		return ErrNotAnArtistProfile
	}
	if err := s.favoriteRepo.Add(ctx, clientUID, artistUID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite drops an artist from the client's list. Removing an absent
// favorite is not an error.
func (s *favoriteService) RemoveFavorite(ctx context.Context, clientUID, artistUID string) error {
	if err := s.favoriteRepo.Remove(ctx, clientUID, artistUID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the client's saved artists.
func (s *favoriteService) ListFavorites(ctx context.Context, clientUID string) ([]*models.Favorite, error) {
	favorites, err := s.favoriteRepo.List(ctx, clientUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for client '%s': %w", clientUID, err)
	}
	return favorites, nil
}
