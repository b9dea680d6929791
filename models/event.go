package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventKind string

const (
	EventStatusChanged EventKind = "status_changed"
	EventAssigned      EventKind = "assigned"
)

// Actor identifies the staff member who performed an update.
type Actor struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// IssueEvent is one entry of the append-only history kept per issue.
type IssueEvent struct {
	ID         string      `bson:"_id" json:"id"`
	IssueID    string      `bson:"issueId" json:"issueId"`
	Kind       EventKind   `bson:"kind" json:"kind"`
	Actor      Actor       `bson:"actor" json:"actor"`
	FromStatus IssueStatus `bson:"fromStatus" json:"fromStatus"`
	ToStatus   IssueStatus `bson:"toStatus" json:"toStatus"`
	Assignee   *Assignee   `bson:"assignee,omitempty" json:"assignee,omitempty"`
	At         time.Time   `bson:"at" json:"at"`
}

// EnsureEventIndex creates the (issueId, at) index used to read an issue's history in order
func EnsureEventIndex(ctx context.Context, collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issueId", Value: 1}, {Key: "at", Value: 1}},
		Options: options.Index().SetName("issue_history"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
