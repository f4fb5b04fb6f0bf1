package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateTemplate attaches a marketing text template to a property.
func CreateTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var tpl models.PropertyTemplate
		if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
			log.Warnf("Invalid template payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(tpl.Name) == "" || strings.TrimSpace(tpl.Content) == "" {
			http.Error(w, "Name and content are required", http.StatusBadRequest)
			return
		}

		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": propertyID}).Err()
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("Failed to check property %s: %v", propertyID, err)
			http.Error(w, "Failed to create template", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		tpl.TemplateID = uuid.NewString()
		tpl.PropertyID = propertyID
		tpl.CreatedAt = now
		tpl.UpdatedAt = now

		if _, err := config.TemplateCollection.InsertOne(r.Context(), tpl); err != nil {
			log.Errorf("Failed to insert template: %v", err)
			http.Error(w, "Failed to create template", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(tpl)
	}
}

// ListTemplates returns the templates attached to a property.
func ListTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		cursor, err := config.TemplateCollection.Find(r.Context(), bson.M{"property_id": propertyID})
		if err != nil {
			log.Errorf("Failed to fetch templates: %v", err)
			http.Error(w, "Failed to fetch templates", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		templates := []models.PropertyTemplate{}
		if err := cursor.All(r.Context(), &templates); err != nil {
			log.Errorf("Failed to decode templates: %v", err)
			http.Error(w, "Failed to decode templates", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched templates",
			Data:    templates,
		})
	}
}
