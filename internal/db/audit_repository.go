package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"inkmatch-backend/internal/models"
)

const adminLogsCollection = "adminLogs"

// firestoreAuditRepository implements the AuditRepository interface using Firestore.
type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates a new instance of firestoreAuditRepository.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AuditRepository.")
	}
	return &firestoreAuditRepository{client: client}
}

// Create appends a log entry with an auto-generated ID. Entries are never
// updated or deleted.
func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	docRef := r.client.Collection(adminLogsCollection).NewDoc()
	logEntry.ID = docRef.ID
	if _, err := docRef.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

// List returns the newest entries first, optionally bounded by a lower
// timestamp and a limit.
func (r *firestoreAuditRepository) List(ctx context.Context, limit int, since time.Time) ([]*models.AuditLog, error) {
	query := r.client.Collection(adminLogsCollection).OrderBy("ts", firestore.Desc)
	if !since.IsZero() {
		query = query.Where("ts", ">=", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*models.AuditLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate audit log: %w", err)
		}

		var entry models.AuditLog
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding audit log entry (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
	}
	return entries, nil
}
