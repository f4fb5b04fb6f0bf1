package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyTemplate is a reusable marketing text attached to a property,
// consumed by the post queue.
type PropertyTemplate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TemplateID string             `bson:"id" json:"id"`
	PropertyID string             `bson:"property_id" json:"property_id"`
	Name       string             `bson:"name" json:"name"`
	Content    string             `bson:"content" json:"content"`
	Selected   bool               `bson:"selected" json:"selected"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// QueuedPost is a pending publish job for a property. A worker claims it by
// setting locked_by/locked_at; stale locks are released by the sweeper.
type QueuedPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PostID     string             `bson:"id" json:"id"`
	PropertyID string             `bson:"property_id" json:"property_id"`
	TemplateID string             `bson:"template_id,omitempty" json:"template_id,omitempty"`
	Status     string             `bson:"status" json:"status"`
	LockedBy   string             `bson:"locked_by,omitempty" json:"locked_by,omitempty"`
	LockedAt   *time.Time         `bson:"locked_at,omitempty" json:"locked_at,omitempty"`
	Result     bson.M             `bson:"result,omitempty" json:"result,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
