package auth

import (
	"context"
	"errors"

	"github.com/goldenaqar/marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoUsers adapts a Mongo collection to the UserStore interface. It works
// for both the users and admin_users collections: the fields the auth flow
// reads are common to both.
type mongoUsers struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) UserStore {
	return &mongoUsers{col: col}
}

func (m *mongoUsers) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	var rec struct {
		ID           string `bson:"id"`
		Email        string `bson:"email"`
		PasswordHash string `bson:"password_hash"`
	}
	err := m.col.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Credential{ID: rec.ID, Email: rec.Email, PasswordHash: rec.PasswordHash}, nil
}

func (m *mongoUsers) Insert(ctx context.Context, user *models.User) error {
	_, err := m.col.InsertOne(ctx, user)
	return err
}
