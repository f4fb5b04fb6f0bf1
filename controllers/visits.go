package controllers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func optionsSortNewest(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

type visitRequest struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	Referrer  string `json:"referrer"`
}

// RecordVisit stores a property page visit. Identity fields are optional;
// the client address and user agent are captured from the request.
func RecordVisit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": propertyID}).Err()
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("Failed to check property %s: %v", propertyID, err)
			http.Error(w, "Failed to record visit", http.StatusInternalServerError)
			return
		}

		var req visitRequest
		if r.Body != nil {
			// Body is optional for anonymous visits.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		host, _, splitErr := net.SplitHostPort(r.RemoteAddr)
		if splitErr != nil {
			host = r.RemoteAddr
		}

		visit := models.PropertyVisit{
			VisitID:        uuid.NewString(),
			PropertyID:     propertyID,
			UserEmail:      req.UserEmail,
			UserName:       req.UserName,
			IPAddress:      host,
			UserAgent:      r.UserAgent(),
			Referrer:       req.Referrer,
			VisitTimestamp: time.Now(),
		}

		if _, err := config.VisitCollection.InsertOne(r.Context(), visit); err != nil {
			log.Errorf("Failed to record visit for property %s: %v", propertyID, err)
			http.Error(w, "Failed to record visit", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Visit recorded",
		})
	}
}

func visitReportPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{
			{Key: "$sort", Value: bson.M{"visit_timestamp": -1}},
		},
		{
			{Key: "$lookup", Value: bson.M{
				"from":         "properties",
				"localField":   "property_id",
				"foreignField": "id",
				"as":           "property",
			}},
		},
		{
			{Key: "$unwind", Value: bson.M{
				"path":                       "$property",
				"preserveNullAndEmptyArrays": true,
			}},
		},
	}
}

// ListVisits returns visits newest-first joined with the visited property,
// for the admin analytics screen.
func ListVisits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.VisitCollection.Aggregate(r.Context(), visitReportPipeline())
		if err != nil {
			log.Errorf("Failed to fetch visits: %v", err)
			http.Error(w, "Failed to fetch visits", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		reports := []models.VisitReport{}
		if err := cursor.All(r.Context(), &reports); err != nil {
			log.Errorf("Failed to decode visits: %v", err)
			http.Error(w, "Failed to decode visits", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched visits",
			Data:    reports,
		})
	}
}

// ExportVisitsCSV streams the visit report as UTF-8 CSV with a BOM so
// Arabic text survives spreadsheet imports.
func ExportVisitsCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.VisitCollection.Aggregate(r.Context(), visitReportPipeline())
		if err != nil {
			log.Errorf("Failed to fetch visits for export: %v", err)
			http.Error(w, "Failed to export visits", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		reports := []models.VisitReport{}
		if err := cursor.All(r.Context(), &reports); err != nil {
			log.Errorf("Failed to decode visits for export: %v", err)
			http.Error(w, "Failed to export visits", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="property_visits.csv"`)
		w.Write([]byte("\xEF\xBB\xBF"))

		cw := csv.NewWriter(w)
		cw.Write([]string{"Date", "Property", "User", "Email", "Location", "Price"})
		for _, rep := range reports {
			title, location, price := "Deleted Property", "-", "-"
			if rep.Property != nil {
				title = rep.Property.Title
				location = rep.Property.Location
				price = fmt.Sprintf("%.0f %s", rep.Property.Price, rep.Property.Currency)
			}
			user := rep.UserName
			if user == "" {
				user = "Guest"
			}
			userEmail := rep.UserEmail
			if userEmail == "" {
				userEmail = "Not Registered"
			}
			cw.Write([]string{
				rep.VisitTimestamp.Format("2006-01-02"),
				title,
				user,
				userEmail,
				location,
				price,
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			log.Errorf("CSV write error: %v", err)
		}
	}
}
