package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/models"
)

type auditServiceStub struct {
	AuditService

	actions []string
	targets []string
}

func (s *auditServiceStub) Record(ctx context.Context, actor, action, targetType, target string, details map[string]interface{}) {
	s.actions = append(s.actions, action)
	s.targets = append(s.targets, target)
}

type adminUserRepoStub struct {
	userRepoStub

	updated []*models.User
}

func (s *adminUserRepoStub) Update(ctx context.Context, user *models.User) error {
	s.updated = append(s.updated, user)
	return nil
}

func TestAdminDisableUser_HidesProfileAndFlagsAccount(t *testing.T) {
	profile := profileWithRole("uid-1", models.RoleArtist)
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{"uid-1": profile}}
	users := &adminUserRepoStub{}
	audit := &auditServiceStub{}
	svc := NewAdminService(profiles, users, nil, nil, audit, zap.NewNop())

	if err := svc.DisableUser(context.Background(), "admin-1", "uid-1"); err != nil {
		t.Fatalf("DisableUser: %v", err)
	}
	if profile.IsPublic {
		t.Fatal("profile still discoverable")
	}
	if len(users.updated) != 1 || !users.updated[0].Disabled {
		t.Fatalf("user record not flagged: %+v", users.updated)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "user.disable" || audit.targets[0] != "uid-1" {
		t.Fatalf("audit trail wrong: %v %v", audit.actions, audit.targets)
	}
}

func TestAdminUpdateProfile_MayChangeRole(t *testing.T) {
	profile := profileWithRole("uid-1", models.RoleClient)
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{"uid-1": profile}}
	audit := &auditServiceStub{}
	svc := NewAdminService(profiles, &adminUserRepoStub{}, nil, nil, audit, zap.NewNop())

	role := models.RoleArtist
	updated, err := svc.UpdateProfile(context.Background(), "admin-1", "uid-1", models.AdminUpdateProfileRequest{Role: &role})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Role != models.RoleArtist {
		t.Fatalf("role %q, want artist", updated.Role)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "profile.update" {
		t.Fatalf("audit trail wrong: %v", audit.actions)
	}
}

func TestAdminUpdateBookingStatus_SkipsTransitionRules(t *testing.T) {
	booking := pendingBooking("bk-1", 0)
	booking.Status = models.BookingStatusCompleted
	bookings := newBookingRepoStub(booking)
	audit := &auditServiceStub{}
	svc := NewAdminService(&profileRepoStub{}, &adminUserRepoStub{}, nil, bookings, audit, zap.NewNop())

	updated, err := svc.UpdateBookingStatus(context.Background(), "admin-1", "client-1", "bk-1", models.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	if updated.Status != models.BookingStatusCancelled {
		t.Fatalf("status %q, want cancelled", updated.Status)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "booking.status" {
		t.Fatalf("audit trail wrong: %v", audit.actions)
	}
}

func TestAdminListBookings_RejectsUnknownSide(t *testing.T) {
	svc := NewAdminService(&profileRepoStub{}, &adminUserRepoStub{}, nil, newBookingRepoStub(), &auditServiceStub{}, zap.NewNop())

	_, err := svc.ListBookings(context.Background(), "uid-1", "both")
	if !errors.Is(err, ErrInvalidBookingSide) {
		t.Fatalf("got %v, want ErrInvalidBookingSide", err)
	}
}
