package models

import "time"

// MessageKind selects which payload fields of a Message are meaningful.
type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindLocation MessageKind = "location"
	MessageKindSystem   MessageKind = "system"
)

// Message is one entry in a thread's append-only log. Messages are immutable
// once written and ordered ascending by CreatedAt; they live under
// threads/{threadId}/messages/{messageId} and share the thread's lifetime.
type Message struct {
	ID       string      `json:"id" firestore:"-"` // Document ID
	SenderID string      `json:"senderId" firestore:"senderId"`
	Kind     MessageKind `json:"kind" firestore:"kind"`

	// Payload, by kind.
	Text      string  `json:"text,omitempty" firestore:"text,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	Latitude  float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Preview returns the text substituted into each member's inbox entry for
// this message: the message text for text messages, an icon glyph otherwise.
func (m *Message) Preview() string {
	switch m.Kind {
	case MessageKindImage:
		return "\U0001F4F7 Photo"
	case MessageKindLocation:
		return "\U0001F4CD Location"
	default:
		return m.Text
	}
}
