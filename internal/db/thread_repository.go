package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"inkmatch-backend/internal/models"
)

const (
	threadsCollection           = "threads"
	userThreadsCollection       = "userThreads"
	userThreadsSubcollection    = "threads"
	threadMessagesSubcollection = "messages"
)

// firestoreThreadRepository implements the ThreadRepository interface using Firestore.
type firestoreThreadRepository struct {
	client *firestore.Client
}

// NewFirestoreThreadRepository creates a new instance of firestoreThreadRepository.
func NewFirestoreThreadRepository(client *firestore.Client) ThreadRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ThreadRepository.")
	}
	return &firestoreThreadRepository{client: client}
}

func (r *firestoreThreadRepository) indexRef(uid, threadID string) *firestore.DocumentRef {
	return r.client.Collection(userThreadsCollection).Doc(uid).
		Collection(userThreadsSubcollection).Doc(threadID)
}

// Get retrieves the canonical thread record.
func (r *firestoreThreadRepository) Get(ctx context.Context, threadID string) (*models.Thread, error) {
	if threadID == "" {
		return nil, errors.New("threadID cannot be empty for Get operation")
	}
	docSnap, err := r.client.Collection(threadsCollection).Doc(threadID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("thread with ID '%s' not found: %w", threadID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get thread with ID '%s': %w", threadID, err)
	}

	var thread models.Thread
	if err := docSnap.DataTo(&thread); err != nil {
		return nil, fmt.Errorf("failed to decode thread data for ID '%s': %w", threadID, err)
	}
	thread.ID = docSnap.Ref.ID

	return &thread, nil
}

// Create writes the canonical thread record plus one inbox index entry per
// member in a single batch: either the whole consistent set of records lands
// or nothing does.
func (r *firestoreThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	if thread.ID == "" {
		return errors.New("thread ID cannot be empty for Create operation")
	}
	if len(thread.Members) == 0 {
		return errors.New("thread must have at least one member for Create operation")
	}

	batch := r.client.Batch()
	batch.Set(r.client.Collection(threadsCollection).Doc(thread.ID), thread)
	for uid := range thread.Members {
		entry := &models.ThreadIndexEntry{
			Members:     thread.Members,
			LastMessage: "",
		}
		batch.Set(r.indexRef(uid, thread.ID), entry)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create thread '%s' with index entries: %w", thread.ID, err)
	}
	return nil
}

// RestoreIndexEntry recreates one user's inbox entry for an existing thread.
// Only the index document is written; the canonical thread (and its leadId
// back-reference) stays as it is.
func (r *firestoreThreadRepository) RestoreIndexEntry(ctx context.Context, uid string, thread *models.Thread) error {
	if uid == "" || thread == nil || thread.ID == "" {
		return errors.New("uid and thread ID cannot be empty for RestoreIndexEntry operation")
	}
	entry := &models.ThreadIndexEntry{
		Members:     thread.Members,
		LastMessage: "",
	}
	if _, err := r.indexRef(uid, thread.ID).Set(ctx, entry); err != nil {
		return fmt.Errorf("failed to restore inbox entry for user '%s' thread '%s': %w", uid, thread.ID, err)
	}
	return nil
}

// HasIndexEntry reports whether uid's inbox already references threadID.
func (r *firestoreThreadRepository) HasIndexEntry(ctx context.Context, uid, threadID string) (bool, error) {
	if uid == "" || threadID == "" {
		return false, errors.New("uid and threadID cannot be empty for HasIndexEntry operation")
	}
	_, err := r.indexRef(uid, threadID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check index entry for user '%s' thread '%s': %w", uid, threadID, err)
	}
	return true, nil
}

// ListIndex returns uid's inbox entries, most recently updated first.
func (r *firestoreThreadRepository) ListIndex(ctx context.Context, uid string) ([]*models.ThreadIndexEntry, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for ListIndex operation")
	}
	iter := r.client.Collection(userThreadsCollection).Doc(uid).
		Collection(userThreadsSubcollection).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*models.ThreadIndexEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate inbox for user '%s': %w", uid, err)
		}

		var entry models.ThreadIndexEntry
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding inbox entry (ID: %s) for user '%s': %v. Skipping.", doc.Ref.ID, uid, err)
			continue
		}
		entry.ThreadID = doc.Ref.ID
		entries = append(entries, &entry)
	}
	return entries, nil
}

// TouchIndexes updates every listed member's index entry with the new preview
// and a server timestamp in one batch. Concurrent sends race last-write-wins
// on these fields; the message log itself is unaffected.
func (r *firestoreThreadRepository) TouchIndexes(ctx context.Context, memberUIDs []string, threadID, preview string) error {
	if threadID == "" {
		return errors.New("threadID cannot be empty for TouchIndexes operation")
	}
	if len(memberUIDs) == 0 {
		return nil
	}

	batch := r.client.Batch()
	for _, uid := range memberUIDs {
		batch.Set(r.indexRef(uid, threadID), map[string]interface{}{
			"lastMessage": preview,
			"updatedAt":   firestore.ServerTimestamp,
		}, firestore.MergeAll)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to touch index entries for thread '%s': %w", threadID, err)
	}
	return nil
}

// RemoveIndexEntry deletes the thread from one user's inbox only. The
// canonical thread, its messages, and other members' entries are untouched.
func (r *firestoreThreadRepository) RemoveIndexEntry(ctx context.Context, uid, threadID string) error {
	if uid == "" || threadID == "" {
		return errors.New("uid and threadID cannot be empty for RemoveIndexEntry operation")
	}
	_, err := r.indexRef(uid, threadID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove inbox entry for user '%s' thread '%s': %w", uid, threadID, err)
	}
	return nil
}
