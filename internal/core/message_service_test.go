package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

type messageRepoStub struct {
	db.MessageRepository

	appended        []*models.Message
	subscribeCalled bool
}

func (s *messageRepoStub) Append(ctx context.Context, threadID string, msg *models.Message) (string, error) {
	msg.ID = "msg-1"
	s.appended = append(s.appended, msg)
	return msg.ID, nil
}

func (s *messageRepoStub) List(ctx context.Context, threadID string) ([]*models.Message, error) {
	return s.appended, nil
}

func (s *messageRepoStub) Subscribe(ctx context.Context, threadID string, onChange func([]*models.Message)) (func(), error) {
	s.subscribeCalled = true
	return func() {}, nil
}

type msgThreadRepoStub struct {
	db.ThreadRepository

	thread    *models.Thread
	touched   int
	preview   string
	touchedBy []string
}

func (s *msgThreadRepoStub) Get(ctx context.Context, threadID string) (*models.Thread, error) {
	if s.thread == nil || s.thread.ID != threadID {
		return nil, db.ErrNotFound
	}
	return s.thread, nil
}

func (s *msgThreadRepoStub) TouchIndexes(ctx context.Context, memberUIDs []string, threadID, preview string) error {
	s.touched++
	s.preview = preview
	s.touchedBy = memberUIDs
	return nil
}

type leadRepoStub struct {
	db.LeadRepository

	created []*models.Lead
	err     error
}

func (s *leadRepoStub) CreateWithThreadLink(ctx context.Context, lead *models.Lead) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, lead)
	return nil
}

func dmThread(clientUID, artistUID string) *models.Thread {
	return &models.Thread{
		ID:      OneToOneThreadID(clientUID, artistUID),
		Type:    models.ThreadTypeDM,
		Members: map[string]bool{clientUID: true, artistUID: true},
	}
}

func newMessageFixture(thread *models.Thread, profiles map[string]*models.PublicProfile) (MessageService, *msgThreadRepoStub, *messageRepoStub, *leadRepoStub) {
	threads := &msgThreadRepoStub{thread: thread}
	messages := &messageRepoStub{}
	leads := &leadRepoStub{}
	svc := NewMessageService(threads, messages, &profileRepoStub{profiles: profiles}, leads, zap.NewNop())
	return svc, threads, messages, leads
}

func TestSendText_BlankIsSilentNoOp(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, threads, messages, _ := newMessageFixture(thread, nil)

	msg, err := svc.SendText(context.Background(), thread.ID, "client-1", "   \n\t ")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if msg != nil {
		t.Fatalf("blank send returned %+v, want nil", msg)
	}
	if len(messages.appended) != 0 || threads.touched != 0 {
		t.Fatal("blank send must write nothing")
	}
}

func TestSendText_ContactInfoRejectedBeforeWrite(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	cases := []string{
		"write me at test@example.com",
		"0171 234 567 890",
		"my instagram is @needles",
	}
	for _, text := range cases {
		svc, threads, messages, _ := newMessageFixture(thread, nil)
		_, err := svc.SendText(context.Background(), thread.ID, "client-1", text)
		if !errors.Is(err, ErrContactInfoBlocked) {
			t.Errorf("SendText(%q) = %v, want ErrContactInfoBlocked", text, err)
		}
		if len(messages.appended) != 0 || threads.touched != 0 {
			t.Errorf("SendText(%q) wrote despite rejection", text)
		}
	}
}

func TestSendText_NonMemberRejected(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, _, messages, _ := newMessageFixture(thread, nil)

	_, err := svc.SendText(context.Background(), thread.ID, "stranger", "hi")
	if !errors.Is(err, ErrNotThreadMember) {
		t.Fatalf("got %v, want ErrNotThreadMember", err)
	}
	if len(messages.appended) != 0 {
		t.Fatal("non-member send must not write")
	}
}

func TestSendText_UnknownThread(t *testing.T) {
	svc, _, _, _ := newMessageFixture(dmThread("client-1", "artist-1"), nil)

	_, err := svc.SendText(context.Background(), "dm_nobody_nowhere", "client-1", "hi")
	if !errors.Is(err, ErrThreadNotFound) {
		t.Fatalf("got %v, want ErrThreadNotFound", err)
	}
}

func TestSendText_TruncatesLongText(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, _, messages, _ := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	long := strings.Repeat("a", 2500)
	msg, err := svc.SendText(context.Background(), thread.ID, "client-1", long)
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if got := len([]rune(msg.Text)); got != 2000 {
		t.Fatalf("stored text length %d, want 2000", got)
	}
	if len(messages.appended) != 1 {
		t.Fatalf("appended %d messages, want 1", len(messages.appended))
	}
}

func TestSendText_FanOutUpdatesBothInboxes(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, threads, _, _ := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	if _, err := svc.SendText(context.Background(), thread.ID, "client-1", "hello there"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if threads.touched != 1 {
		t.Fatalf("TouchIndexes called %d times, want 1", threads.touched)
	}
	if len(threads.touchedBy) != 2 {
		t.Fatalf("fan-out covered %v, want both members", threads.touchedBy)
	}
	if threads.preview != "hello there" {
		t.Fatalf("preview %q, want message text", threads.preview)
	}
}

func TestSendText_FirstClientMessageDerivesLead(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, _, _, leads := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	if _, err := svc.SendText(context.Background(), thread.ID, "client-1", "do you have openings in May?"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(leads.created) != 1 {
		t.Fatalf("created %d leads, want 1", len(leads.created))
	}
	lead := leads.created[0]
	if lead.ArtistUID != "artist-1" || lead.ClientUID != "client-1" {
		t.Fatalf("lead parties wrong: %+v", lead)
	}
	if lead.ThreadID != thread.ID {
		t.Fatalf("lead threadId %q, want %q", lead.ThreadID, thread.ID)
	}
	if lead.Message != "do you have openings in May?" {
		t.Fatalf("lead message %q", lead.Message)
	}
	if lead.Status != models.LeadStatusNew {
		t.Fatalf("lead status %q, want new", lead.Status)
	}
	if thread.LeadID != lead.ID {
		t.Fatal("thread leadId not back-linked in memory")
	}
}

func TestSendText_SecondMessageDoesNotDuplicateLead(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	thread.LeadID = "lead-existing"
	svc, _, _, leads := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	if _, err := svc.SendText(context.Background(), thread.ID, "client-1", "following up!"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(leads.created) != 0 {
		t.Fatalf("created %d leads, want 0", len(leads.created))
	}
}

func TestSendText_ArtistFirstMessageDerivesNoLead(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, _, _, leads := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	if _, err := svc.SendText(context.Background(), thread.ID, "artist-1", "thanks for the booking!"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(leads.created) != 0 {
		t.Fatal("artist-initiated thread must not create a lead")
	}
}

func TestSendText_LeadFailureDoesNotFailSend(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	threads := &msgThreadRepoStub{thread: thread}
	messages := &messageRepoStub{}
	leads := &leadRepoStub{err: errors.New("firestore unavailable")}
	svc := NewMessageService(threads, messages, &profileRepoStub{profiles: map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	}}, leads, zap.NewNop())

	msg, err := svc.SendText(context.Background(), thread.ID, "client-1", "hello")
	if err != nil {
		t.Fatalf("send failed because of lead derivation: %v", err)
	}
	if msg == nil {
		t.Fatal("expected stored message despite lead failure")
	}
	if thread.LeadID != "" {
		t.Fatal("failed lead derivation must not set thread.LeadID")
	}
}

func TestSendImage_FirstMessageLeadUsesFallbackText(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, _, _, leads := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	if _, err := svc.SendImage(context.Background(), thread.ID, "client-1", "https://example.org/ref.png"); err != nil {
		t.Fatalf("SendImage: %v", err)
	}
	if len(leads.created) != 1 {
		t.Fatalf("created %d leads, want 1", len(leads.created))
	}
	if got := leads.created[0].Message; got != "New inquiry" {
		t.Fatalf("lead message %q, want the fallback, not the preview glyph", got)
	}
}

func TestSendImage_PreviewIsPlaceholder(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	svc, threads, _, _ := newMessageFixture(thread, map[string]*models.PublicProfile{
		"client-1": profileWithRole("client-1", models.RoleClient),
		"artist-1": profileWithRole("artist-1", models.RoleArtist),
	})

	if _, err := svc.SendImage(context.Background(), thread.ID, "client-1", "https://example.org/sketch.png"); err != nil {
		t.Fatalf("SendImage: %v", err)
	}
	if threads.preview != "\U0001F4F7 Photo" {
		t.Fatalf("preview %q, want photo placeholder", threads.preview)
	}
}

func TestSubscribe_NonMemberRejectedBeforeStreaming(t *testing.T) {
	thread := dmThread("client-1", "artist-1")
	threads := &msgThreadRepoStub{thread: thread}
	messages := &messageRepoStub{}
	svc := NewMessageService(threads, messages, &profileRepoStub{}, &leadRepoStub{}, zap.NewNop())

	_, err := svc.Subscribe(context.Background(), thread.ID, "stranger", func([]*models.Message) {})
	if !errors.Is(err, ErrNotThreadMember) {
		t.Fatalf("got %v, want ErrNotThreadMember", err)
	}
	if messages.subscribeCalled {
		t.Fatal("subscription must not start for non-members")
	}
}
