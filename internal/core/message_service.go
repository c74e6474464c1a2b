package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

const (
	// maxMessageLen caps stored message text.
	maxMessageLen = 2000
	// maxPreviewLen caps the lastMessage preview mirrored into inbox entries.
	maxPreviewLen = 300
	// leadFallbackMessage is the lead text for image and location first
	// messages, whose previews are icon glyphs rather than inquiry text.
	leadFallbackMessage = "New inquiry"
)

// messageService implements the MessageService interface.
type messageService struct {
	threadRepo  db.ThreadRepository
	messageRepo db.MessageRepository
	profileRepo db.ProfileRepository
	leadRepo    db.LeadRepository
	logger      *zap.Logger
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(
	tr db.ThreadRepository,
	mr db.MessageRepository,
	pr db.ProfileRepository,
	lr db.LeadRepository,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		threadRepo:  tr,
		messageRepo: mr,
		profileRepo: pr,
		leadRepo:    lr,
		logger:      logger,
	}
}

// SendText posts a text message to the thread. Whitespace-only text is a
// silent no-op returning (nil, nil): no message record, no index update.
// Text that trips the content policy filter is rejected before any write.
func (s *messageService) SendText(ctx context.Context, threadID, senderID, text string) (*models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	if err := CheckOutgoingText(trimmed); err != nil {
		return nil, err
	}
	if runes := []rune(trimmed); len(runes) > maxMessageLen {
		trimmed = string(runes[:maxMessageLen])
	}

	msg := &models.Message{
		SenderID: senderID,
		Kind:     models.MessageKindText,
		Text:     trimmed,
	}
	return s.send(ctx, threadID, senderID, msg)
}

// SendImage posts an image attachment message.
func (s *messageService) SendImage(ctx context.Context, threadID, senderID, imageURL string) (*models.Message, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, errors.New("imageUrl is required for an image message")
	}
	msg := &models.Message{
		SenderID: senderID,
		Kind:     models.MessageKindImage,
		ImageURL: imageURL,
	}
	return s.send(ctx, threadID, senderID, msg)
}

// SendLocation posts a location message.
func (s *messageService) SendLocation(ctx context.Context, threadID, senderID string, lat, lng float64) (*models.Message, error) {
	msg := &models.Message{
		SenderID:  senderID,
		Kind:      models.MessageKindLocation,
		Latitude:  lat,
		Longitude: lng,
	}
	return s.send(ctx, threadID, senderID, msg)
}

// send is the shared membership-check → append → fan-out → lead-derivation
// path behind every send variant.
func (s *messageService) send(ctx context.Context, threadID, senderID string, msg *models.Message) (*models.Message, error) {
	thread, err := s.loadThreadForMember(ctx, threadID, senderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.messageRepo.Append(ctx, threadID, msg); err != nil {
		return nil, fmt.Errorf("failed to write message to thread '%s': %w", threadID, err)
	}

	preview := msg.Preview()
	if runes := []rune(preview); len(runes) > maxPreviewLen {
		preview = string(runes[:maxPreviewLen])
	}
	if err := s.threadRepo.TouchIndexes(ctx, thread.MemberUIDs(), threadID, preview); err != nil {
		// The message is already durable at this point; a failed fan-out
		// leaves stale previews until the next send, which is accepted.
		return nil, fmt.Errorf("message stored but inbox fan-out failed for thread '%s': %w", threadID, err)
	}

	// Best-effort side effect: a failed lead derivation must never make the
	// send look failed to the user.
	s.ensureLeadForFirstMessage(ctx, thread, senderID, msg, preview)

	return msg, nil
}

// ListMessages returns the thread's full ordered message log, after checking
// that uid is a member.
func (s *messageService) ListMessages(ctx context.Context, threadID, uid string) ([]*models.Message, error) {
	if _, err := s.loadThreadForMember(ctx, threadID, uid); err != nil {
		return nil, err
	}
	msgs, err := s.messageRepo.List(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for thread '%s': %w", threadID, err)
	}
	return msgs, nil
}

// Subscribe verifies membership once up front — rejecting before any data is
// delivered so callers can tell "no access" from "empty thread" — then
// streams the complete ordered message list on every change.
func (s *messageService) Subscribe(ctx context.Context, threadID, uid string, onChange func([]*models.Message)) (func(), error) {
	if _, err := s.loadThreadForMember(ctx, threadID, uid); err != nil {
		return nil, err
	}
	stop, err := s.messageRepo.Subscribe(ctx, threadID, onChange)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to thread '%s': %w", threadID, err)
	}
	return stop, nil
}

// loadThreadForMember fetches the canonical thread and verifies membership,
// distinguishing "thread not found" from "not a member".
func (s *messageService) loadThreadForMember(ctx context.Context, threadID, uid string) (*models.Thread, error) {
	if threadID == "" {
		return nil, ErrThreadNotFound
	}
	thread, err := s.threadRepo.Get(ctx, threadID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to load thread '%s': %w", threadID, err)
	}
	if !thread.IsMember(uid) {
		return nil, ErrNotThreadMember
	}
	return thread, nil
}

// ensureLeadForFirstMessage synthesizes a lead in the artist's inbox for the
// first message of a client→artist thread. Leads represent client-initiated
// inbound interest only: any other role combination is silently skipped, as
// are group threads and threads that already carry a leadId. All failures are
// logged and swallowed.
func (s *messageService) ensureLeadForFirstMessage(ctx context.Context, thread *models.Thread, senderID string, msg *models.Message, preview string) {
	if thread.LeadID != "" {
		return
	}
	members := thread.MemberUIDs()
	if len(members) != 2 {
		return
	}

	recipientID := members[0]
	if recipientID == senderID {
		recipientID = members[1]
	}

	sender, err := s.profileRepo.Get(ctx, senderID)
	if err != nil {
		s.logger.Warn("Lead derivation skipped: sender profile unavailable",
			zap.String("threadId", thread.ID), zap.String("senderId", senderID), zap.Error(err))
		return
	}
	recipient, err := s.profileRepo.Get(ctx, recipientID)
	if err != nil {
		s.logger.Warn("Lead derivation skipped: recipient profile unavailable",
			zap.String("threadId", thread.ID), zap.String("recipientId", recipientID), zap.Error(err))
		return
	}
	if sender.Role != models.RoleClient || recipient.Role != models.RoleArtist {
		return
	}

	// Image and location previews are icon glyphs, not inquiry text; the
	// lead carries the fallback literal for those.
	message := leadFallbackMessage
	if msg.Kind == models.MessageKindText {
		if text := strings.TrimSpace(preview); text != "" {
			message = text
		}
	}

	lead := &models.Lead{
		ID:         uuid.NewString(),
		ArtistUID:  recipient.UID,
		ClientUID:  sender.UID,
		ClientName: sender.DisplayName,
		ThreadID:   thread.ID,
		Message:    message,
		Status:     models.LeadStatusNew,
	}
	if err := s.leadRepo.CreateWithThreadLink(ctx, lead); err != nil {
		s.logger.Warn("Lead derivation failed",
			zap.String("threadId", thread.ID), zap.String("artistUid", recipient.UID), zap.Error(err))
		return
	}
	thread.LeadID = lead.ID

	s.logger.Info("Lead derived from first message",
		zap.String("threadId", thread.ID),
		zap.String("leadId", lead.ID),
		zap.String("artistUid", recipient.UID),
	)
}
