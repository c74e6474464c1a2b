package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"inkmatch-backend/internal/models"
)

// firestoreMessageRepository implements the MessageRepository interface using Firestore.
type firestoreMessageRepository struct {
	client *firestore.Client
}

// NewFirestoreMessageRepository creates a new instance of firestoreMessageRepository.
func NewFirestoreMessageRepository(client *firestore.Client) MessageRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for MessageRepository.")
	}
	return &firestoreMessageRepository{client: client}
}

func (r *firestoreMessageRepository) messages(threadID string) *firestore.CollectionRef {
	return r.client.Collection(threadsCollection).Doc(threadID).Collection(threadMessagesSubcollection)
}

// Append writes a new message document with an auto-generated id. CreatedAt
// carries the serverTimestamp tag, so ordering comes from the server clock,
// not the caller's.
func (r *firestoreMessageRepository) Append(ctx context.Context, threadID string, msg *models.Message) (string, error) {
	if threadID == "" {
		return "", errors.New("threadID cannot be empty for Append operation")
	}
	docRef := r.messages(threadID).NewDoc()
	msg.ID = docRef.ID

	if _, err := docRef.Create(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to append message to thread '%s': %w", threadID, err)
	}
	return docRef.ID, nil
}

// List returns the thread's complete message sequence ordered ascending by
// createdAt.
func (r *firestoreMessageRepository) List(ctx context.Context, threadID string) ([]*models.Message, error) {
	if threadID == "" {
		return nil, errors.New("threadID cannot be empty for List operation")
	}
	iter := r.messages(threadID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()
	return decodeMessages(iter)
}

// Subscribe establishes a snapshot listener on the thread's message
// collection and invokes onChange with the complete ordered sequence on every
// change. Delivery runs on its own goroutine until stop is called or ctx
// ends; listener errors terminate the stream and are logged, not retried.
func (r *firestoreMessageRepository) Subscribe(ctx context.Context, threadID string, onChange func([]*models.Message)) (func(), error) {
	if threadID == "" {
		return nil, errors.New("threadID cannot be empty for Subscribe operation")
	}
	if onChange == nil {
		return nil, errors.New("onChange callback cannot be nil for Subscribe operation")
	}

	subCtx, cancel := context.WithCancel(ctx)
	snaps := r.messages(threadID).OrderBy("createdAt", firestore.Asc).Snapshots(subCtx)

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if subCtx.Err() == nil {
					log.Printf("Message snapshot stream for thread '%s' ended: %v", threadID, err)
				}
				return
			}
			msgs, err := decodeMessages(snap.Documents)
			if err != nil {
				log.Printf("Failed to decode message snapshot for thread '%s': %v", threadID, err)
				continue
			}
			onChange(msgs)
		}
	}()

	return cancel, nil
}

// decodeMessages drains the iterator into ordered messages. Documents written
// moments ago can surface with a pending (zero) server timestamp, so the
// slice is re-sorted after decode to keep the ascending contract.
func decodeMessages(iter *firestore.DocumentIterator) ([]*models.Message, error) {
	var msgs []*models.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate messages: %w", err)
		}

		var msg models.Message
		if err := doc.DataTo(&msg); err != nil {
			log.Printf("Error decoding message (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		msg.ID = doc.Ref.ID
		msgs = append(msgs, &msg)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}
