// Package queue implements the property post queue: publish jobs that an
// external poster claims, completes or fails. Claims take an exclusive
// lock; locks held past their TTL are released by the sweeper.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Job statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

var (
	// ErrEmpty is returned by Claim when no pending job exists.
	ErrEmpty = errors.New("no pending posts")
	// ErrNotClaimed is returned when completing or failing a job that is
	// not currently claimed.
	ErrNotClaimed = errors.New("post is not claimed")
)

type Queue struct {
	col *mongo.Collection
}

func New(col *mongo.Collection) *Queue {
	return &Queue{col: col}
}

// Enqueue adds a pending post for the property.
func (q *Queue) Enqueue(ctx context.Context, propertyID, templateID string) (*models.QueuedPost, error) {
	now := time.Now()
	post := models.QueuedPost{
		PostID:     uuid.NewString(),
		PropertyID: propertyID,
		TemplateID: templateID,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := q.col.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Claim atomically takes the oldest pending post for workerID. Returns
// ErrEmpty when the queue has no pending work.
func (q *Queue) Claim(ctx context.Context, workerID string) (*models.QueuedPost, error) {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":     StatusProcessing,
		"locked_by":  workerID,
		"locked_at":  now,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetReturnDocument(options.After)

	var post models.QueuedPost
	err := q.col.FindOneAndUpdate(ctx, bson.M{"status": StatusPending}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Complete marks a claimed post done and records the poster's result.
func (q *Queue) Complete(ctx context.Context, postID string, result bson.M) error {
	return q.finish(ctx, postID, StatusDone, result)
}

// Fail marks a claimed post failed with a reason.
func (q *Queue) Fail(ctx context.Context, postID, reason string) error {
	return q.finish(ctx, postID, StatusFailed, bson.M{"error": reason})
}

func (q *Queue) finish(ctx context.Context, postID, status string, result bson.M) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"result":     result,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{"locked_by": "", "locked_at": ""},
	}
	res, err := q.col.UpdateOne(ctx, bson.M{"id": postID, "status": StatusProcessing}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotClaimed
	}
	return nil
}

// StaleCutoff returns the lock timestamp before which a processing job is
// considered abandoned.
func StaleCutoff(now time.Time, ttl time.Duration) time.Time {
	return now.Add(-ttl)
}

// ReleaseStale returns abandoned jobs to pending and reports how many were
// released.
func (q *Queue) ReleaseStale(ctx context.Context, ttl time.Duration) (int64, error) {
	filter := bson.M{
		"status":    StatusProcessing,
		"locked_at": bson.M{"$lt": StaleCutoff(time.Now(), ttl)},
	}
	update := bson.M{
		"$set":   bson.M{"status": StatusPending, "updated_at": time.Now()},
		"$unset": bson.M{"locked_by": "", "locked_at": ""},
	}
	res, err := q.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// List returns queue entries, optionally restricted to one status.
func (q *Queue) List(ctx context.Context, status string) ([]models.QueuedPost, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := q.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.QueuedPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDone, StatusFailed:
		return true
	}
	return false
}
