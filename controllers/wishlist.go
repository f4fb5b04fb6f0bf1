package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/goldenaqar/marketplace/backend/search"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type wishlistRequest struct {
	PropertyID string `json:"property_id"`
}

// AddToWishlist saves a property for the authenticated user. The pair is
// unique; a duplicate is a conflict.
func AddToWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(UserEmailKey).(string)
		if !ok || email == "" {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		var req wishlistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warnf("Invalid wishlist payload: %v", err)
			http.Error(w, "Invalid request data", http.StatusBadRequest)
			return
		}
		if req.PropertyID == "" {
			http.Error(w, "property_id is required", http.StatusBadRequest)
			return
		}

		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": req.PropertyID}).Err()
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("Failed to check property %s: %v", req.PropertyID, err)
			http.Error(w, "Failed to add property to wishlist", http.StatusInternalServerError)
			return
		}

		pair := bson.M{"user_email": email, "property_id": req.PropertyID}
		err = config.WishlistCollection.FindOne(r.Context(), pair).Err()
		if err == nil {
			http.Error(w, "Property is already in wishlist", http.StatusConflict)
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Errorf("Failed to check wishlist: %v", err)
			http.Error(w, "Failed to check wishlist", http.StatusInternalServerError)
			return
		}

		entry := models.WishlistEntry{
			EntryID:    uuid.NewString(),
			UserEmail:  email,
			PropertyID: req.PropertyID,
			CreatedAt:  time.Now(),
		}

		if _, err := config.WishlistCollection.InsertOne(r.Context(), entry); err != nil {
			// The unique index closes the check-then-insert race.
			if mongo.IsDuplicateKeyError(err) {
				http.Error(w, "Property is already in wishlist", http.StatusConflict)
				return
			}
			log.Errorf("Failed to add property to wishlist: %v", err)
			http.Error(w, "Failed to add property to wishlist", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Property added to wishlist",
			Data:    entry,
		})
	}
}

// GetWishlist returns the user's saved properties. The same filter query
// parameters as the listing endpoint are honored, evaluated in memory over
// the joined result.
func GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(UserEmailKey).(string)
		if !ok || email == "" {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		pipeline := mongo.Pipeline{
			{
				{Key: "$match", Value: bson.M{"user_email": email}},
			},
			{
				{Key: "$sort", Value: bson.M{"created_at": -1}},
			},
			{
				{Key: "$lookup", Value: bson.M{
					"from":         "properties",
					"localField":   "property_id",
					"foreignField": "id",
					"as":           "propertyDetails",
				}},
			},
			{
				{Key: "$unwind", Value: "$propertyDetails"},
			},
			{
				{Key: "$replaceRoot", Value: bson.M{"newRoot": "$propertyDetails"}},
			},
		}

		cursor, err := config.WishlistCollection.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Errorf("Failed to fetch wishlist properties: %v", err)
			http.Error(w, "Failed to fetch wishlist properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Errorf("Failed to decode wishlist properties: %v", err)
			http.Error(w, "Failed to decode wishlist properties", http.StatusInternalServerError)
			return
		}

		properties = search.FromQuery(r.URL.Query()).Apply(properties)
		for i := range properties {
			properties[i].IsWishlisted = true
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched wishlist properties",
			Data:    properties,
		})
	}
}

// RemoveFromWishlist deletes the (user, property) pair.
func RemoveFromWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(UserEmailKey).(string)
		if !ok || email == "" {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["propertyID"]

		res, err := config.WishlistCollection.DeleteOne(r.Context(), bson.M{
			"user_email":  email,
			"property_id": propertyID,
		})
		if err != nil {
			log.Errorf("Failed to remove property from wishlist: %v", err)
			http.Error(w, "Failed to remove property from wishlist", http.StatusInternalServerError)
			return
		}

		if res.DeletedCount == 0 {
			http.Error(w, "Wishlist entry not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Property removed from wishlist",
		})
	}
}

// InWishlist reports whether the property is saved by the user.
func InWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := r.Context().Value(UserEmailKey).(string)
		if !ok || email == "" {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["propertyID"]

		err := config.WishlistCollection.FindOne(r.Context(), bson.M{
			"user_email":  email,
			"property_id": propertyID,
		}).Err()

		saved := err == nil
		if err != nil && err != mongo.ErrNoDocuments {
			log.Errorf("Failed to check wishlist: %v", err)
			http.Error(w, "Failed to check wishlist", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"in_wishlist": saved})
	}
}
