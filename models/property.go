package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing types
const (
	ListingSale = "sale"
	ListingRent = "rent"
)

// Property categories
const (
	CategoryResidential = "residential"
	CategoryCommercial  = "commercial"
)

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PropID       string             `bson:"id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Currency     string             `bson:"currency" json:"currency"`
	ListingType  string             `bson:"listing_type" json:"listing_type"`
	PropertyType string             `bson:"property_type" json:"property_type"`
	Category     string             `bson:"category" json:"category"`
	Location     string             `bson:"location" json:"location"`
	City         string             `bson:"city" json:"city"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	AreaSqM      float64            `bson:"area_sq_m" json:"area_sq_m"`
	Parking      bool               `bson:"parking" json:"parking"`
	Pool         bool               `bson:"pool" json:"pool"`
	Gym          bool               `bson:"gym" json:"gym"`
	Elevator     bool               `bson:"elevator" json:"elevator"`
	Security     bool               `bson:"security" json:"security"`
	Furnished    bool               `bson:"furnished" json:"furnished"`
	Garden       bool               `bson:"garden" json:"garden"`
	Balcony      bool               `bson:"balcony" json:"balcony"`
	AgentName    string             `bson:"agent_name,omitempty" json:"agent_name,omitempty"`
	AgentPhone   string             `bson:"agent_phone,omitempty" json:"agent_phone,omitempty"`
	AgentWhats   string             `bson:"agent_whatsapp,omitempty" json:"agent_whatsapp,omitempty"`
	Latitude     *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude    *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	IsWishlisted bool               `bson:"-" json:"is_wishlisted,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Property types per category, Arabic-first like the rest of the site copy.
var residentialTypes = []string{
	"شقة",
	"فيلا",
	"بنتهاوس",
	"دوبلكس",
	"استوديو",
	"غرفة وصالة",
	"غرفتين وصالة",
	"ثلاث غرف وصالة",
	"أربع غرف وصالة",
	"خمس غرف وصالة",
}

var commercialTypes = []string{
	"مكتب",
	"محل تجاري",
	"مستودع",
	"معرض",
	"عيادة",
	"مطعم",
	"فندق",
	"مبنى كامل",
}

// PropertyTypesFor returns the selectable property types for a category.
// An unknown or empty category returns every type.
func PropertyTypesFor(category string) []string {
	switch category {
	case CategoryResidential:
		return residentialTypes
	case CategoryCommercial:
		return commercialTypes
	default:
		all := make([]string, 0, len(residentialTypes)+len(commercialTypes))
		all = append(all, residentialTypes...)
		all = append(all, commercialTypes...)
		return all
	}
}

// ValidPropertyType reports whether ptype is selectable under category.
func ValidPropertyType(category, ptype string) bool {
	for _, t := range PropertyTypesFor(category) {
		if t == ptype {
			return true
		}
	}
	return false
}

type PropertyImage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ImageID    string             `bson:"id" json:"id"`
	PropertyID string             `bson:"property_id" json:"property_id"`
	Path       string             `bson:"path" json:"path"`
	PublicURL  string             `bson:"public_url,omitempty" json:"public_url,omitempty"`
	Order      int                `bson:"order" json:"order"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
