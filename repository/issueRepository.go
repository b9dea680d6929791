package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicsync-dashboard/models"
)

const queryTimeout = 10 * time.Second

// issueDocument is how an issue is stored: the issue itself plus its
// position in the intake order.
type issueDocument struct {
	Seq          int `bson:"seq"`
	models.Issue `bson:",inline"`
}

// IssueRepository reads and writes issues in the "issues" collection.
type IssueRepository struct {
	collection *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{collection: db.Collection("issues")}
}

// LoadAll returns every issue in intake order.
func (r *IssueRepository) LoadAll(ctx context.Context) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find issues: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []issueDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}

	issues := make([]models.Issue, 0, len(docs))
	for _, doc := range docs {
		issues = append(issues, doc.Issue)
	}
	return issues, nil
}

// SeedIfEmpty inserts issues, in order, when the collection has none. It
// reports whether anything was inserted.
func (r *IssueRepository) SeedIfEmpty(ctx context.Context, issues []models.Issue) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("count issues: %w", err)
	}
	if count > 0 || len(issues) == 0 {
		return false, nil
	}

	docs := make([]interface{}, 0, len(issues))
	for i, issue := range issues {
		docs = append(docs, issueDocument{Seq: i, Issue: issue})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return false, fmt.Errorf("seed issues: %w", err)
	}
	return true, nil
}

// Save overwrites the stored fields of issue, leaving its position alone.
func (r *IssueRepository) Save(ctx context.Context, issue models.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update, err := issueUpdate(issue)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": issue.ID}, update)
	if err != nil {
		return fmt.Errorf("update issue %s: %w", issue.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update issue %s: %w", issue.ID, mongo.ErrNoDocuments)
	}
	return nil
}

// issueUpdate builds a $set of every field of issue except its ID, and
// $unsets the optional fields it does not carry.
func issueUpdate(issue models.Issue) (bson.M, error) {
	raw, err := bson.Marshal(issue)
	if err != nil {
		return nil, fmt.Errorf("encode issue %s: %w", issue.ID, err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode issue %s: %w", issue.ID, err)
	}
	delete(set, "_id")

	update := bson.M{"$set": set}
	unset := bson.M{}
	if issue.AssignedTo == nil {
		unset["assignedTo"] = ""
	}
	if issue.ResolvedAt == nil {
		unset["resolvedAt"] = ""
	}
	if issue.EstimatedResolution == nil {
		unset["estimatedResolution"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}
