package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	email "github.com/goldenaqar/marketplace/backend/utils/email"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubmitContactForm stores a contact-form message and relays it to the
// configured site contact address. Relay failures are logged, not surfaced:
// the message is already persisted.
func SubmitContactForm(sender *email.Sender, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg models.ContactMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			log.Warnf("Invalid contact payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		msg.Name = strings.TrimSpace(msg.Name)
		msg.Email = strings.TrimSpace(msg.Email)
		msg.Message = strings.TrimSpace(msg.Message)
		if msg.Name == "" || msg.Email == "" || msg.Message == "" {
			http.Error(w, "Name, email and message are required", http.StatusBadRequest)
			return
		}

		msg.MessageID = uuid.NewString()
		msg.CreatedAt = time.Now()

		if _, err := config.MessageCollection.InsertOne(r.Context(), msg); err != nil {
			log.Errorf("Failed to store contact message: %v", err)
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}

		if sender != nil {
			go func(m models.ContactMessage) {
				to := contactAddress(cfg)
				if to == "" {
					return
				}
				if err := sender.SendContactMessage(&m, to); err != nil {
					log.Warnf("Contact relay failed for message %s: %v", m.MessageID, err)
				}
			}(msg)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Message received",
		})
	}
}

// ListContactMessages returns stored messages newest-first for the admin
// panel.
func ListContactMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.MessageCollection.Find(r.Context(), bson.M{},
			optionsSortNewest("created_at"))
		if err != nil {
			log.Errorf("Failed to fetch contact messages: %v", err)
			http.Error(w, "Failed to fetch contact messages", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		messages := []models.ContactMessage{}
		if err := cursor.All(r.Context(), &messages); err != nil {
			log.Errorf("Failed to decode contact messages: %v", err)
			http.Error(w, "Failed to decode contact messages", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched contact messages",
			Data:    messages,
		})
	}
}

// contactAddress prefers the contact_info site setting, falling back to
// the configured address.
func contactAddress(cfg *config.Config) string {
	var setting models.SiteSetting
	err := config.SettingCollection.FindOne(context.Background(), bson.M{"key": "contact_info"}).Decode(&setting)
	if err == nil {
		var info struct {
			Email string `json:"email"`
		}
		if json.Unmarshal(setting.Value, &info) == nil && info.Email != "" {
			return info.Email
		}
	} else if err != mongo.ErrNoDocuments {
		log.Warnf("Failed to load contact_info setting: %v", err)
	}
	return cfg.ContactEmail
}
