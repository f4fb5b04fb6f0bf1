package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetSiteSettings returns the requested settings as a key-to-value map.
// Without a keys parameter every setting is returned.
func GetSiteSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := bson.M{}
		if keysParam := r.URL.Query().Get("keys"); keysParam != "" {
			keys := []string{}
			for _, k := range strings.Split(keysParam, ",") {
				if k = strings.TrimSpace(k); k != "" {
					keys = append(keys, k)
				}
			}
			if len(keys) > 0 {
				filter["key"] = bson.M{"$in": keys}
			}
		}

		cursor, err := config.SettingCollection.Find(r.Context(), filter)
		if err != nil {
			log.Errorf("Failed to fetch site settings: %v", err)
			http.Error(w, "Failed to fetch site settings", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var settings []models.SiteSetting
		if err := cursor.All(r.Context(), &settings); err != nil {
			log.Errorf("Failed to decode site settings: %v", err)
			http.Error(w, "Failed to decode site settings", http.StatusInternalServerError)
			return
		}

		out := make(map[string]json.RawMessage, len(settings))
		for _, s := range settings {
			out[s.Key] = s.Value
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// UpsertSiteSetting stores the request body as the value for the keyed
// setting, creating it if absent.
func UpsertSiteSetting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]

		var value json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
			log.Warnf("Invalid setting value for key %s: %v", key, err)
			http.Error(w, "Invalid setting value", http.StatusBadRequest)
			return
		}

		now := time.Now()
		update := bson.M{
			"$set": bson.M{
				"value":      value,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"key":        key,
				"created_at": now,
			},
		}

		_, err := config.SettingCollection.UpdateOne(
			r.Context(),
			bson.M{"key": key},
			update,
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Errorf("Failed to save setting %s: %v", key, err)
			http.Error(w, "Failed to save setting", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Setting saved",
		})
	}
}
