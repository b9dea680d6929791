package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicsync-dashboard/models"
)

// EventRepository is the append-only issue history in "issue_events".
type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{collection: db.Collection("issue_events")}
}

func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	return models.EnsureEventIndex(ctx, r.collection)
}

func (r *EventRepository) Append(ctx context.Context, event models.IssueEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListByIssue returns an issue's events, oldest first.
func (r *EventRepository) ListByIssue(ctx context.Context, issueID string) ([]models.IssueEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"issueId": issueID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.IssueEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// MemoryEventLog keeps history in process when no database is configured.
type MemoryEventLog struct {
	mu     sync.Mutex
	events map[string][]models.IssueEvent
}

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{events: make(map[string][]models.IssueEvent)}
}

func (l *MemoryEventLog) Append(_ context.Context, event models.IssueEvent) error {
	l.mu.Lock()
	l.events[event.IssueID] = append(l.events[event.IssueID], event)
	l.mu.Unlock()
	return nil
}

func (l *MemoryEventLog) ListByIssue(_ context.Context, issueID string) ([]models.IssueEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := slices.Clone(l.events[issueID])
	if events == nil {
		events = []models.IssueEvent{}
	}
	return events, nil
}
