package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/goldenaqar/marketplace/backend/queue"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type enqueueRequest struct {
	TemplateID string `json:"template_id"`
}

// EnqueuePost queues a property for publishing.
func EnqueuePost(q *queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var req enqueueRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": propertyID}).Err()
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("Failed to check property %s: %v", propertyID, err)
			http.Error(w, "Failed to enqueue post", http.StatusInternalServerError)
			return
		}

		post, err := q.Enqueue(r.Context(), propertyID, req.TemplateID)
		if err != nil {
			log.Errorf("Failed to enqueue post for property %s: %v", propertyID, err)
			http.Error(w, "Failed to enqueue post", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(post)
	}
}

// ListQueue returns queue entries, optionally filtered by status.
func ListQueue(q *queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if status != "" && !queue.ValidStatus(status) {
			http.Error(w, "Unknown status", http.StatusBadRequest)
			return
		}

		posts, err := q.List(r.Context(), status)
		if err != nil {
			log.Errorf("Failed to list queue: %v", err)
			http.Error(w, "Failed to list queue", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched queue",
			Data:    posts,
		})
	}
}

// ClaimPost hands the oldest pending post to the calling worker.
func ClaimPost(q *queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workerID := r.URL.Query().Get("worker")
		if workerID == "" {
			http.Error(w, "worker is required", http.StatusBadRequest)
			return
		}

		post, err := q.Claim(r.Context(), workerID)
		if errors.Is(err, queue.ErrEmpty) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			log.Errorf("Failed to claim post: %v", err)
			http.Error(w, "Failed to claim post", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(post)
	}
}

type finishRequest struct {
	Result bson.M `json:"result"`
	Error  string `json:"error"`
}

// CompletePost marks a claimed post done.
func CompletePost(q *queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := mux.Vars(r)["postID"]

		var req finishRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		if err := q.Complete(r.Context(), postID, req.Result); err != nil {
			if errors.Is(err, queue.ErrNotClaimed) {
				http.Error(w, "Post is not claimed", http.StatusConflict)
				return
			}
			log.Errorf("Failed to complete post %s: %v", postID, err)
			http.Error(w, "Failed to complete post", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{Success: true, Message: "Post completed"})
	}
}

// FailPost marks a claimed post failed.
func FailPost(q *queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := mux.Vars(r)["postID"]

		var req finishRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		if err := q.Fail(r.Context(), postID, req.Error); err != nil {
			if errors.Is(err, queue.ErrNotClaimed) {
				http.Error(w, "Post is not claimed", http.StatusConflict)
				return
			}
			log.Errorf("Failed to fail post %s: %v", postID, err)
			http.Error(w, "Failed to update post", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{Success: true, Message: "Post marked failed"})
	}
}
