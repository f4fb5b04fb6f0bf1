package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/goldenaqar/marketplace/backend/search"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCacheTTL = 10 * time.Minute

// GetProperties lists properties matching the filter query parameters.
// Results are served from Redis when possible; wishlist flags are applied
// per caller after the cache, so cached entries stay user-independent.
func GetProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filters := search.FromQuery(query)
		cacheKey := generateCacheKey(query)

		var properties []models.Property

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(cachedData), &properties); err != nil {
				log.Warnf("Corrupt cache entry %s: %v", cacheKey, err)
				properties = nil
			}
		} else if err != redis.Nil {
			log.Warnf("Redis GET error for key %s: %v", cacheKey, err)
		}

		if properties == nil {
			findOptions := options.Find().
				SetSort(bson.D{{Key: "created_at", Value: -1}}).
				SetLimit(100)

			cursor, err := config.PropertyCollection.Find(r.Context(), filters.Query(), findOptions)
			if err != nil {
				log.Errorf("Error fetching properties: %v", err)
				http.Error(w, "Error fetching properties", http.StatusInternalServerError)
				return
			}
			defer cursor.Close(r.Context())

			properties = []models.Property{}
			if err := cursor.All(r.Context(), &properties); err != nil {
				log.Errorf("Error decoding properties: %v", err)
				http.Error(w, "Error decoding properties", http.StatusInternalServerError)
				return
			}

			if cached, err := json.Marshal(properties); err == nil {
				if err := redisClient.Set(r.Context(), cacheKey, cached, listingCacheTTL).Err(); err != nil {
					log.Warnf("Failed to cache response for key %s: %v", cacheKey, err)
				}
			}
		}

		if email, ok := r.Context().Value(UserEmailKey).(string); ok && email != "" {
			markWishlisted(r.Context(), email, properties)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(properties)
	}
}

// GetPropertyByID returns a single property with its images.
func GetPropertyByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var property models.Property
		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": propertyID}).Decode(&property)
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("Error fetching property %s: %v", propertyID, err)
			http.Error(w, "Error fetching property", http.StatusInternalServerError)
			return
		}

		images := []models.PropertyImage{}
		imgOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
		cursor, err := config.ImageCollection.Find(r.Context(), bson.M{"property_id": propertyID}, imgOptions)
		if err != nil {
			log.Warnf("Error fetching images for property %s: %v", propertyID, err)
		} else {
			defer cursor.Close(r.Context())
			if err := cursor.All(r.Context(), &images); err != nil {
				log.Warnf("Error decoding images for property %s: %v", propertyID, err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			models.Property
			Images []models.PropertyImage `json:"images"`
		}{property, images})
	}
}

type createPropertyRequest struct {
	models.Property
	Images []models.PropertyImage `json:"images"`
}

// CreateProperty inserts a property together with its image records in a
// single transaction, so a mid-sequence failure cannot orphan either side.
func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warnf("Invalid property payload: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		property := req.Property
		if strings.TrimSpace(property.Title) == "" {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}
		if property.ListingType != models.ListingSale && property.ListingType != models.ListingRent {
			http.Error(w, "Listing type must be sale or rent", http.StatusBadRequest)
			return
		}
		if property.PropertyType != "" && !models.ValidPropertyType(property.Category, property.PropertyType) {
			http.Error(w, "Property type is not valid for the selected category", http.StatusBadRequest)
			return
		}

		now := time.Now()
		property.ID = primitive.ObjectID{}
		property.PropID = uuid.NewString()
		property.CreatedAt = now
		property.UpdatedAt = now
		if property.Currency == "" {
			property.Currency = "AED"
		}

		images := req.Images
		for i := range images {
			images[i].ImageID = uuid.NewString()
			images[i].PropertyID = property.PropID
			images[i].Order = i
			images[i].CreatedAt = now
			images[i].UpdatedAt = now
		}

		session, err := config.Client.StartSession()
		if err != nil {
			log.Errorf("Failed to start session: %v", err)
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}
		defer session.EndSession(r.Context())

		_, err = session.WithTransaction(r.Context(), func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := config.PropertyCollection.InsertOne(sc, property); err != nil {
				return nil, err
			}
			if len(images) > 0 {
				docs := make([]interface{}, len(images))
				for i := range images {
					docs[i] = images[i]
				}
				if _, err := config.ImageCollection.InsertMany(sc, docs); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
		if err != nil {
			log.Errorf("Property insert failed: %v", err)
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}

		go deletePropertyCache(redisClient)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(struct {
			models.Property
			Images []models.PropertyImage `json:"images"`
		}{property, images})
	}
}

// UpdateProperty applies a partial update. Identity and bookkeeping fields
// are stripped from the payload.
func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Warnf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "created_at")
		updateData["updated_at"] = time.Now()

		filter := bson.M{"id": propertyID}
		update := bson.M{"$set": updateData}

		res, err := config.PropertyCollection.UpdateOne(r.Context(), filter, update)
		if err != nil {
			log.Errorf("Update failed for property %s: %v", propertyID, err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		if res.MatchedCount == 0 {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		go deletePropertyCache(redisClient)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Property updated successfully"})
	}
}

// DeleteProperty removes a property and its dependent records (images,
// wishlist entries, queued posts and templates) in one transaction.
func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		session, err := config.Client.StartSession()
		if err != nil {
			log.Errorf("Failed to start session: %v", err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}
		defer session.EndSession(r.Context())

		var deleted int64
		_, err = session.WithTransaction(r.Context(), func(sc mongo.SessionContext) (interface{}, error) {
			res, err := config.PropertyCollection.DeleteOne(sc, bson.M{"id": propertyID})
			if err != nil {
				return nil, err
			}
			deleted = res.DeletedCount
			if deleted == 0 {
				return nil, nil
			}
			dependent := bson.M{"property_id": propertyID}
			if _, err := config.ImageCollection.DeleteMany(sc, dependent); err != nil {
				return nil, err
			}
			if _, err := config.WishlistCollection.DeleteMany(sc, dependent); err != nil {
				return nil, err
			}
			if _, err := config.TemplateCollection.DeleteMany(sc, dependent); err != nil {
				return nil, err
			}
			if _, err := config.QueueCollection.DeleteMany(sc, dependent); err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			log.Errorf("Delete failed for property %s: %v", propertyID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}

		if deleted == 0 {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		go deletePropertyCache(redisClient)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Property deleted successfully"})
	}
}

// markWishlisted sets IsWishlisted on each property saved by the user.
func markWishlisted(ctx context.Context, email string, properties []models.Property) {
	if len(properties) == 0 {
		return
	}

	propertyIDs := make([]string, 0, len(properties))
	for _, p := range properties {
		propertyIDs = append(propertyIDs, p.PropID)
	}

	filter := bson.M{
		"user_email":  email,
		"property_id": bson.M{"$in": propertyIDs},
	}

	cursor, err := config.WishlistCollection.Find(ctx, filter)
	if err != nil {
		log.Warnf("Error fetching wishlist for %s: %v", email, err)
		return
	}
	defer cursor.Close(ctx)

	saved := make(map[string]bool)
	for cursor.Next(ctx) {
		var entry models.WishlistEntry
		if err := cursor.Decode(&entry); err != nil {
			log.Warnf("Error decoding wishlist entry: %v", err)
			continue
		}
		saved[entry.PropertyID] = true
	}
	if cursor.Err() != nil {
		log.Warnf("Wishlist cursor iteration error: %v", cursor.Err())
	}

	for i := range properties {
		if saved[properties[i].PropID] {
			properties[i].IsWishlisted = true
		}
	}
}

func generateCacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "property:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Errorf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Errorf("Error deleting %d property cache keys: %v", len(keysToDelete), err)
		return
	}
	log.Infof("Property cache invalidated: deleted %d keys", len(keysToDelete))
}
