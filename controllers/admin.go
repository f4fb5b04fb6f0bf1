package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/goldenaqar/marketplace/backend/auth"
	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/goldenaqar/marketplace/backend/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LoginAdmin authenticates against the admin_users collection. Failures
// use the same generic message as user login.
func LoginAdmin(svc *auth.Service) http.HandlerFunc {
	return LoginUser(svc)
}

// BootstrapAdmin inserts the configured admin account if no record with
// that email exists yet. Called once at startup.
func BootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	err := config.AdminCollection.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = config.AdminCollection.InsertOne(ctx, models.AdminUser{
		AdminID:      uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	log.Infof("Bootstrapped admin account %s", email)
	return nil
}

// ListUsers returns registered users for the admin user-management screen.
func ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.UserCollection.Find(r.Context(), bson.M{})
		if err != nil {
			log.Errorf("Failed to fetch users: %v", err)
			http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var users []models.User
		if err := cursor.All(r.Context(), &users); err != nil {
			log.Errorf("Failed to decode users: %v", err)
			http.Error(w, "Failed to decode users", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched users",
			Data:    users,
		})
	}
}
