package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// Custom errors for the ThreadService
var (
	ErrThreadNotFound      = errors.New("thread not found")
	ErrNotThreadMember     = errors.New("user is not a member of this thread")
	ErrMessagingNotAllowed = errors.New("messaging is only available between an artist and a client")
	ErrProfileNotFound     = errors.New("profile not found")
)

// OneToOneThreadID derives the stable dm thread id for a pair of users from
// their sorted UIDs, so repeated calls from either side converge on the same
// thread.
func OneToOneThreadID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return "dm_" + a + "_" + b
}

// canMessage implements the message eligibility policy: an artist and a
// client may message each other in either direction, and an admin may message
// anyone. Any other pairing is a policy violation.
func canMessage(a, b models.Role) bool {
	if a == models.RoleAdmin || b == models.RoleAdmin {
		return true
	}
	return (a == models.RoleArtist && b == models.RoleClient) ||
		(a == models.RoleClient && b == models.RoleArtist)
}

// threadService implements the ThreadService interface.
type threadService struct {
	threadRepo  db.ThreadRepository
	profileRepo db.ProfileRepository
	logger      *zap.Logger
}

// NewThreadService creates a new ThreadService instance.
func NewThreadService(tr db.ThreadRepository, pr db.ProfileRepository, logger *zap.Logger) ThreadService {
	return &threadService{
		threadRepo:  tr,
		profileRepo: pr,
		logger:      logger,
	}
}

// EnsureOneToOneThread returns the dm thread between the two users, creating
// it if it does not exist yet. Creation writes the canonical thread and both
// members' inbox entries in one batch, so a policy failure or a write failure
// leaves nothing behind.
func (s *threadService) EnsureOneToOneThread(ctx context.Context, myUID, otherUID string) (*models.Thread, error) {
	if myUID == "" || otherUID == "" {
		return nil, errors.New("both user ids are required")
	}
	if myUID == otherUID {
		return nil, fmt.Errorf("%w: cannot open a thread with yourself", ErrMessagingNotAllowed)
	}

	threadID := OneToOneThreadID(myUID, otherUID)

	// Idempotent fast path: the caller's inbox already references this thread.
	exists, err := s.threadRepo.HasIndexEntry(ctx, myUID, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to check inbox for thread '%s': %w", threadID, err)
	}
	if exists {
		thread, err := s.threadRepo.Get(ctx, threadID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing thread '%s': %w", threadID, err)
		}
		return thread, nil
	}

	// The canonical thread can outlive the caller's index entry (one-sided
	// removal). Recreating it would wipe leadId, so only the entry is
	// restored.
	thread, err := s.threadRepo.Get(ctx, threadID)
	if err == nil {
		if !thread.IsMember(myUID) {
			return nil, ErrNotThreadMember
		}
		if err := s.threadRepo.RestoreIndexEntry(ctx, myUID, thread); err != nil {
			return nil, fmt.Errorf("failed to restore inbox entry for thread '%s': %w", threadID, err)
		}
		return thread, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load thread '%s': %w", threadID, err)
	}

	myProfile, err := s.getProfile(ctx, myUID)
	if err != nil {
		return nil, err
	}
	otherProfile, err := s.getProfile(ctx, otherUID)
	if err != nil {
		return nil, err
	}

	if !canMessage(myProfile.Role, otherProfile.Role) {
		return nil, ErrMessagingNotAllowed
	}

	thread = &models.Thread{
		ID:   threadID,
		Type: models.ThreadTypeDM,
		Members: map[string]bool{
			myUID:    true,
			otherUID: true,
		},
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread '%s': %w", threadID, err)
	}

	s.logger.Info("Thread created",
		zap.String("threadId", threadID),
		zap.String("initiator", myUID),
		zap.String("other", otherUID),
	)
	return thread, nil
}

// ListInbox returns uid's denormalized thread index, most recent first.
func (s *threadService) ListInbox(ctx context.Context, uid string) ([]*models.ThreadIndexEntry, error) {
	entries, err := s.threadRepo.ListIndex(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox for user '%s': %w", uid, err)
	}
	return entries, nil
}

// RemoveFromInbox drops the thread from the caller's index only; the
// canonical thread and the other member's entry stay intact.
func (s *threadService) RemoveFromInbox(ctx context.Context, uid, threadID string) error {
	thread, err := s.threadRepo.Get(ctx, threadID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrThreadNotFound
		}
		return fmt.Errorf("failed to load thread '%s': %w", threadID, err)
	}
	if !thread.IsMember(uid) {
		return ErrNotThreadMember
	}
	if err := s.threadRepo.RemoveIndexEntry(ctx, uid, threadID); err != nil {
		return fmt.Errorf("failed to remove thread '%s' from inbox of '%s': %w", threadID, uid, err)
	}
	return nil
}

func (s *threadService) getProfile(ctx context.Context, uid string) (*models.PublicProfile, error) {
	profile, err := s.profileRepo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, uid)
		}
		return nil, fmt.Errorf("failed to load profile '%s': %w", uid, err)
	}
	return profile, nil
}
