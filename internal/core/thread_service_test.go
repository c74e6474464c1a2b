package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

type threadRepoStub struct {
	db.ThreadRepository

	threads   map[string]*models.Thread
	hasEntry  bool
	created   *models.Thread
	removed   []string
	restored  []string
	createErr error
}

func (s *threadRepoStub) Get(ctx context.Context, threadID string) (*models.Thread, error) {
	if t, ok := s.threads[threadID]; ok {
		return t, nil
	}
	return nil, db.ErrNotFound
}

func (s *threadRepoStub) Create(ctx context.Context, thread *models.Thread) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = thread
	if s.threads == nil {
		s.threads = map[string]*models.Thread{}
	}
	s.threads[thread.ID] = thread
	return nil
}

func (s *threadRepoStub) HasIndexEntry(ctx context.Context, uid, threadID string) (bool, error) {
	return s.hasEntry, nil
}

func (s *threadRepoStub) RestoreIndexEntry(ctx context.Context, uid string, thread *models.Thread) error {
	s.restored = append(s.restored, uid)
	return nil
}

func (s *threadRepoStub) RemoveIndexEntry(ctx context.Context, uid, threadID string) error {
	s.removed = append(s.removed, uid+"/"+threadID)
	return nil
}

type profileRepoStub struct {
	db.ProfileRepository

	profiles map[string]*models.PublicProfile
	set      []*models.PublicProfile
}

func (s *profileRepoStub) Get(ctx context.Context, uid string) (*models.PublicProfile, error) {
	if p, ok := s.profiles[uid]; ok {
		return p, nil
	}
	return nil, db.ErrNotFound
}

func (s *profileRepoStub) Set(ctx context.Context, profile *models.PublicProfile) error {
	s.set = append(s.set, profile)
	return nil
}

func profileWithRole(uid string, role models.Role) *models.PublicProfile {
	return &models.PublicProfile{UID: uid, Role: role, DisplayName: uid, IsPublic: true}
}

func TestOneToOneThreadID_OrderIndependent(t *testing.T) {
	a := OneToOneThreadID("uid-artist", "uid-client")
	b := OneToOneThreadID("uid-client", "uid-artist")
	if a != b {
		t.Fatalf("thread id differs by call order: %q vs %q", a, b)
	}
	if a != "dm_uid-artist_uid-client" {
		t.Fatalf("unexpected thread id %q", a)
	}
}

func TestEnsureOneToOneThread_CreatesWithBothMembers(t *testing.T) {
	threads := &threadRepoStub{}
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	}}
	svc := NewThreadService(threads, profiles, zap.NewNop())

	thread, err := svc.EnsureOneToOneThread(context.Background(), "client-1", "artist-1")
	if err != nil {
		t.Fatalf("EnsureOneToOneThread: %v", err)
	}
	if threads.created == nil {
		t.Fatal("expected thread to be created")
	}
	if !thread.IsMember("client-1") || !thread.IsMember("artist-1") {
		t.Fatalf("thread members incomplete: %v", thread.Members)
	}
	if thread.ID != OneToOneThreadID("client-1", "artist-1") {
		t.Fatalf("unexpected thread id %q", thread.ID)
	}
}

func TestEnsureOneToOneThread_ExistingSkipsCreate(t *testing.T) {
	id := OneToOneThreadID("client-1", "artist-1")
	threads := &threadRepoStub{
		hasEntry: true,
		threads: map[string]*models.Thread{
			id: {ID: id, Type: models.ThreadTypeDM, Members: map[string]bool{"client-1": true, "artist-1": true}},
		},
	}
	// No profiles registered: the fast path must not need them.
	svc := NewThreadService(threads, &profileRepoStub{}, zap.NewNop())

	thread, err := svc.EnsureOneToOneThread(context.Background(), "client-1", "artist-1")
	if err != nil {
		t.Fatalf("EnsureOneToOneThread: %v", err)
	}
	if thread.ID != id {
		t.Fatalf("got thread %q, want %q", thread.ID, id)
	}
	if threads.created != nil {
		t.Fatal("existing thread must not be re-created")
	}
}

func TestEnsureOneToOneThread_ReEnsureAfterInboxRemovalKeepsLead(t *testing.T) {
	id := OneToOneThreadID("client-1", "artist-1")
	threads := &threadRepoStub{
		hasEntry: false,
		threads: map[string]*models.Thread{
			id: {
				ID:      id,
				Type:    models.ThreadTypeDM,
				Members: map[string]bool{"client-1": true, "artist-1": true},
				LeadID:  "lead-1",
			},
		},
	}
	svc := NewThreadService(threads, &profileRepoStub{}, zap.NewNop())

	thread, err := svc.EnsureOneToOneThread(context.Background(), "client-1", "artist-1")
	if err != nil {
		t.Fatalf("EnsureOneToOneThread: %v", err)
	}
	if threads.created != nil {
		t.Fatal("re-ensure must not rewrite the canonical thread")
	}
	if thread.LeadID != "lead-1" {
		t.Fatalf("lead link lost: %q", thread.LeadID)
	}
	if len(threads.restored) != 1 || threads.restored[0] != "client-1" {
		t.Fatalf("expected caller's inbox entry restored, got %v", threads.restored)
	}
}

func TestEnsureOneToOneThread_ReEnsureByNonMemberRejected(t *testing.T) {
	// A canonical thread at the derived id whose membership does not include
	// the caller must not be restorable by them.
	id := OneToOneThreadID("stranger", "client-1")
	threads := &threadRepoStub{threads: map[string]*models.Thread{
		id: {ID: id, Type: models.ThreadTypeDM, Members: map[string]bool{"client-1": true, "artist-1": true}},
	}}
	svc := NewThreadService(threads, &profileRepoStub{}, zap.NewNop())

	_, err := svc.EnsureOneToOneThread(context.Background(), "stranger", "client-1")
	if !errors.Is(err, ErrNotThreadMember) {
		t.Fatalf("got %v, want ErrNotThreadMember", err)
	}
	if len(threads.restored) != 0 {
		t.Fatalf("non-member must not restore an entry, got %v", threads.restored)
	}
}

func TestEnsureOneToOneThread_SameRolePairRejected(t *testing.T) {
	threads := &threadRepoStub{}
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"client-2": profileWithRole("client-2", models.RoleClient),
	}}
	svc := NewThreadService(threads, profiles, zap.NewNop())

	_, err := svc.EnsureOneToOneThread(context.Background(), "client-1", "client-2")
	if !errors.Is(err, ErrMessagingNotAllowed) {
		t.Fatalf("got %v, want ErrMessagingNotAllowed", err)
	}
	if threads.created != nil {
		t.Fatal("policy failure must not write a thread")
	}
}

func TestEnsureOneToOneThread_AdminMayMessageAnyone(t *testing.T) {
	threads := &threadRepoStub{}
	profiles := &profileRepoStub{profiles: map[string]*models.PublicProfile{
		"admin-1":  profileWithRole("admin-1", models.RoleAdmin),
		"client-1": profileWithRole("client-1", models.RoleClient),
	}}
	svc := NewThreadService(threads, profiles, zap.NewNop())

	if _, err := svc.EnsureOneToOneThread(context.Background(), "admin-1", "client-1"); err != nil {
		t.Fatalf("admin pairing rejected: %v", err)
	}
}

func TestEnsureOneToOneThread_SelfRejected(t *testing.T) {
	svc := NewThreadService(&threadRepoStub{}, &profileRepoStub{}, zap.NewNop())
	_, err := svc.EnsureOneToOneThread(context.Background(), "uid-1", "uid-1")
	if !errors.Is(err, ErrMessagingNotAllowed) {
		t.Fatalf("got %v, want ErrMessagingNotAllowed", err)
	}
}

func TestRemoveFromInbox_NonMemberRejected(t *testing.T) {
	id := OneToOneThreadID("client-1", "artist-1")
	threads := &threadRepoStub{threads: map[string]*models.Thread{
		id: {ID: id, Members: map[string]bool{"client-1": true, "artist-1": true}},
	}}
	svc := NewThreadService(threads, &profileRepoStub{}, zap.NewNop())

	err := svc.RemoveFromInbox(context.Background(), "stranger", id)
	if !errors.Is(err, ErrNotThreadMember) {
		t.Fatalf("got %v, want ErrNotThreadMember", err)
	}
	if len(threads.removed) != 0 {
		t.Fatal("non-member removal must not touch the index")
	}
}

func TestRemoveFromInbox_RemovesCallerEntryOnly(t *testing.T) {
	id := OneToOneThreadID("client-1", "artist-1")
	threads := &threadRepoStub{threads: map[string]*models.Thread{
		id: {ID: id, Members: map[string]bool{"client-1": true, "artist-1": true}},
	}}
	svc := NewThreadService(threads, &profileRepoStub{}, zap.NewNop())

	if err := svc.RemoveFromInbox(context.Background(), "client-1", id); err != nil {
		t.Fatalf("RemoveFromInbox: %v", err)
	}
	if len(threads.removed) != 1 || threads.removed[0] != "client-1/"+id {
		t.Fatalf("unexpected removals %v", threads.removed)
	}
}
