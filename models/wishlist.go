package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry saves a property for a user. The (user_email, property_id)
// pair is unique, enforced by a compound index.
type WishlistEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EntryID    string             `bson:"id" json:"id"`
	UserEmail  string             `bson:"user_email" json:"user_email"`
	PropertyID string             `bson:"property_id" json:"property_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
