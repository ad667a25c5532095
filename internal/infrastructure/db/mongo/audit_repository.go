package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

const auditCollection = "audit_events"

// auditDocument is the stored shape of a domain.AuditEvent.
type auditDocument struct {
	ID         string            `bson:"_id"`
	Action     string            `bson:"action"`
	Actor      string            `bson:"actor"`
	TRN        string            `bson:"trn,omitempty"`
	UserID     int64             `bson:"user_id,omitempty"`
	Details    map[string]string `bson:"details,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`
}

// AuditRepository implements ports.AuditLog using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

// Record inserts one event into the audit_events collection.
func (r *AuditRepository) Record(ctx context.Context, ev *domain.AuditEvent) error {
	doc := auditDocument{
		ID:         ev.ID,
		Action:     string(ev.Action),
		Actor:      ev.Actor,
		TRN:        ev.TRN,
		UserID:     ev.UserID,
		Details:    ev.Details,
		OccurredAt: ev.OccurredAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List returns the newest events first, optionally narrowed to one TRN.
func (r *AuditRepository) List(ctx context.Context, f ports.AuditFilter) ([]domain.AuditEvent, error) {
	filter := bson.M{}
	if f.TRN != "" {
		filter["trn"] = f.TRN
	}
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	var docs []auditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	events := make([]domain.AuditEvent, len(docs))
	for i, d := range docs {
		events[i] = domain.AuditEvent{
			ID:         d.ID,
			Action:     domain.AuditAction(d.Action),
			Actor:      d.Actor,
			TRN:        d.TRN,
			UserID:     d.UserID,
			Details:    d.Details,
			OccurredAt: d.OccurredAt.UTC(),
		}
	}
	return events, nil
}

// ensureIndexes creates the indexes backing List. Creating an existing index
// is a no-op, so it runs on every Connect.
func (r *AuditRepository) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trn", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
