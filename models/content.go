package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSetting is an administrator-editable content blob (contact info,
// footer text, SEO metadata) rendered into public pages.
type SiteSetting struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Key       string             `bson:"key" json:"key"`
	Value     json.RawMessage    `bson:"value" json:"value"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MessageID string             `bson:"id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type PropertyVisit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	VisitID        string             `bson:"id" json:"id"`
	PropertyID     string             `bson:"property_id" json:"property_id"`
	UserEmail      string             `bson:"user_email,omitempty" json:"user_email,omitempty"`
	UserName       string             `bson:"user_name,omitempty" json:"user_name,omitempty"`
	IPAddress      string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent      string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Referrer       string             `bson:"referrer,omitempty" json:"referrer,omitempty"`
	VisitTimestamp time.Time          `bson:"visit_timestamp" json:"visit_timestamp"`
}

// VisitReport is a visit joined with the visited property, as returned to
// the admin analytics screen.
type VisitReport struct {
	PropertyVisit `bson:",inline"`
	Property      *Property `bson:"property,omitempty" json:"property,omitempty"`
}
