package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

type userRepoStub struct {
	db.UserRepository

	users   map[string]*models.User
	created []*models.User
}

func (s *userRepoStub) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, db.ErrNotFound
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.created = append(s.created, user)
	if s.users == nil {
		s.users = map[string]*models.User{}
	}
	s.users[user.ID] = user
	return nil
}

func newProfileFixture(profiles *profileRepoStub, users *userRepoStub) ProfileService {
	return NewProfileService(profiles, users, zap.NewNop())
}

func TestInitializeProfile_CreatesUserAndProfile(t *testing.T) {
	profiles := &profileRepoStub{}
	users := &userRepoStub{}
	svc := newProfileFixture(profiles, users)

	profile, created, err := svc.InitializeProfile(context.Background(), "uid-1", "ink@example.com", "Ink Artist", "https://p/1.png", models.RoleArtist)
	if err != nil {
		t.Fatalf("InitializeProfile: %v", err)
	}
	if !created {
		t.Fatal("first call must report created")
	}
	if len(users.created) != 1 || users.created[0].Email != "ink@example.com" {
		t.Fatalf("user record wrong: %+v", users.created)
	}
	if profile.Role != models.RoleArtist || !profile.IsPublic {
		t.Fatalf("artist profile should be public: %+v", profile)
	}
	if profile.SubscriptionTier != DefaultSubscriptionTier {
		t.Fatalf("tier %q, want %q", profile.SubscriptionTier, DefaultSubscriptionTier)
	}
}

func TestInitializeProfile_ClientStartsHidden(t *testing.T) {
	svc := newProfileFixture(&profileRepoStub{}, &userRepoStub{})

	profile, _, err := svc.InitializeProfile(context.Background(), "uid-1", "", "Someone", "", models.RoleClient)
	if err != nil {
		t.Fatalf("InitializeProfile: %v", err)
	}
	if profile.IsPublic {
		t.Fatal("client profiles must not be discoverable")
	}
}

func TestInitializeProfile_EmptyRoleDefaultsToClient(t *testing.T) {
	svc := newProfileFixture(&profileRepoStub{}, &userRepoStub{})

	profile, _, err := svc.InitializeProfile(context.Background(), "uid-1", "", "Someone", "", "")
	if err != nil {
		t.Fatalf("InitializeProfile: %v", err)
	}
	if profile.Role != models.RoleClient {
		t.Fatalf("role %q, want client", profile.Role)
	}
}

func TestInitializeProfile_Idempotent(t *testing.T) {
	existing := profileWithRole("uid-1", models.RoleArtist)
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{"uid-1": existing}}
	users := &userRepoStub{users: map[string]*models.User{"uid-1": {ID: "uid-1"}}}
	svc := newProfileFixture(profiles, users)

	profile, created, err := svc.InitializeProfile(context.Background(), "uid-1", "", "Renamed", "", models.RoleClient)
	if err != nil {
		t.Fatalf("InitializeProfile: %v", err)
	}
	if created {
		t.Fatal("repeat call must not report created")
	}
	if profile != existing {
		t.Fatal("repeat call must return the stored profile untouched")
	}
	if len(profiles.set) != 0 || len(users.created) != 0 {
		t.Fatal("repeat call must not write")
	}
}

func TestInitializeProfile_AdminRoleRejected(t *testing.T) {
	svc := newProfileFixture(&profileRepoStub{}, &userRepoStub{})

	for _, role := range []models.Role{models.RoleAdmin, "superuser"} {
		if _, _, err := svc.InitializeProfile(context.Background(), "uid-1", "", "", "", role); !errors.Is(err, ErrInvalidRole) {
			t.Errorf("InitializeProfile(role=%q) = %v, want ErrInvalidRole", role, err)
		}
	}
}

func TestUpdateProfile_MergesOnlySetFields(t *testing.T) {
	profile := profileWithRole("uid-1", models.RoleArtist)
	profile.Bio = "original bio"
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{"uid-1": profile}}
	svc := newProfileFixture(profiles, &userRepoStub{})

	name := "New Name"
	updated, err := svc.UpdateProfile(context.Background(), "uid-1", models.UpdateProfileRequest{DisplayName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.DisplayName != "New Name" {
		t.Fatalf("displayName %q", updated.DisplayName)
	}
	if updated.Bio != "original bio" {
		t.Fatalf("unset field overwritten: bio %q", updated.Bio)
	}
	if len(profiles.set) != 1 {
		t.Fatalf("Set called %d times, want 1", len(profiles.set))
	}
}

func TestUpdateProfile_CoordinatesKeepLegacyPairInSync(t *testing.T) {
	profile := profileWithRole("uid-1", models.RoleArtist)
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{"uid-1": profile}}
	svc := newProfileFixture(profiles, &userRepoStub{})

	lat, lng := 52.52, 13.405
	updated, err := svc.UpdateProfile(context.Background(), "uid-1", models.UpdateProfileRequest{Latitude: &lat, Longitude: &lng})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Latitude != lat || updated.Lat != lat || updated.Longitude != lng || updated.Lng != lng {
		t.Fatalf("coordinate pairs diverged: %+v", updated)
	}
}

func TestUpdateProfile_UnknownProfile(t *testing.T) {
	svc := newProfileFixture(&profileRepoStub{}, &userRepoStub{})

	_, err := svc.UpdateProfile(context.Background(), "ghost", models.UpdateProfileRequest{})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("got %v, want ErrProfileNotFound", err)
	}
}
