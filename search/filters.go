// Package search implements the property filter engine. A single Filters
// value drives both call sites: Match/Apply evaluate properties in memory,
// Query compiles the same criteria into a MongoDB filter document, so the
// two paths cannot drift apart.
package search

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goldenaqar/marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filters holds the optional search criteria as received from a form or
// query string. An empty field imposes no constraint. Numeric fields stay
// strings on purpose: a malformed bound is treated as absent, never as an
// error.
type Filters struct {
	ListingType  string `json:"listing_type"`
	PropertyType string `json:"property_type"`
	Location     string `json:"location"`
	MinPrice     string `json:"min_price"`
	MaxPrice     string `json:"max_price"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	MinArea      string `json:"min_area"`
	MaxArea      string `json:"max_area"`
}

// FromQuery builds Filters from URL query parameters.
func FromQuery(q url.Values) Filters {
	return Filters{
		ListingType:  strings.TrimSpace(q.Get("listing_type")),
		PropertyType: strings.TrimSpace(q.Get("property_type")),
		Location:     strings.TrimSpace(q.Get("location")),
		MinPrice:     strings.TrimSpace(q.Get("min_price")),
		MaxPrice:     strings.TrimSpace(q.Get("max_price")),
		Bedrooms:     strings.TrimSpace(q.Get("bedrooms")),
		Bathrooms:    strings.TrimSpace(q.Get("bathrooms")),
		MinArea:      strings.TrimSpace(q.Get("min_area")),
		MaxArea:      strings.TrimSpace(q.Get("max_area")),
	}
}

// IsZero reports whether no criterion is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// parseBound parses a numeric bound leniently. A malformed value is
// reported as absent.
func parseBound(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseCount parses a bedroom/bathroom criterion. A trailing '+' (e.g.
// "5+") means at least N; a bare number means exactly N.
func parseCount(s string) (n int, atLeast bool, ok bool) {
	if s == "" {
		return 0, false, false
	}
	if strings.HasSuffix(s, "+") {
		atLeast = true
		s = strings.TrimSuffix(s, "+")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, false
	}
	return v, atLeast, true
}

// Match reports whether p satisfies every present criterion.
func (f Filters) Match(p *models.Property) bool {
	if f.ListingType != "" && p.ListingType != f.ListingType {
		return false
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.Location != "" {
		needle := strings.ToLower(f.Location)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Location), needle) &&
			!strings.Contains(strings.ToLower(p.City), needle) {
			return false
		}
	}
	if min, ok := parseBound(f.MinPrice); ok && p.Price < min {
		return false
	}
	if max, ok := parseBound(f.MaxPrice); ok && p.Price > max {
		return false
	}
	if n, atLeast, ok := parseCount(f.Bedrooms); ok {
		if atLeast {
			if p.Bedrooms < n {
				return false
			}
		} else if p.Bedrooms != n {
			return false
		}
	}
	if n, atLeast, ok := parseCount(f.Bathrooms); ok {
		if atLeast {
			if p.Bathrooms < n {
				return false
			}
		} else if p.Bathrooms != n {
			return false
		}
	}
	if min, ok := parseBound(f.MinArea); ok && p.AreaSqM < min {
		return false
	}
	if max, ok := parseBound(f.MaxArea); ok && p.AreaSqM > max {
		return false
	}
	return true
}

// Apply returns the subsequence of list satisfying f, preserving input
// order. An empty filter returns the input unchanged.
func (f Filters) Apply(list []models.Property) []models.Property {
	if f.IsZero() {
		return list
	}
	out := make([]models.Property, 0, len(list))
	for i := range list {
		if f.Match(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// Query compiles f into a MongoDB filter document with the same semantics
// as Match.
func (f Filters) Query() bson.M {
	var and []bson.M

	if f.ListingType != "" {
		and = append(and, bson.M{"listing_type": f.ListingType})
	}
	if f.PropertyType != "" {
		and = append(and, bson.M{"property_type": f.PropertyType})
	}
	if f.Location != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"title": bson.M{"$regex": re}},
			{"location": bson.M{"$regex": re}},
			{"city": bson.M{"$regex": re}},
		}})
	}

	price := bson.M{}
	if min, ok := parseBound(f.MinPrice); ok {
		price["$gte"] = min
	}
	if max, ok := parseBound(f.MaxPrice); ok {
		price["$lte"] = max
	}
	if len(price) > 0 {
		and = append(and, bson.M{"price": price})
	}

	if n, atLeast, ok := parseCount(f.Bedrooms); ok {
		if atLeast {
			and = append(and, bson.M{"bedrooms": bson.M{"$gte": n}})
		} else {
			and = append(and, bson.M{"bedrooms": n})
		}
	}
	if n, atLeast, ok := parseCount(f.Bathrooms); ok {
		if atLeast {
			and = append(and, bson.M{"bathrooms": bson.M{"$gte": n}})
		} else {
			and = append(and, bson.M{"bathrooms": n})
		}
	}

	area := bson.M{}
	if min, ok := parseBound(f.MinArea); ok {
		area["$gte"] = min
	}
	if max, ok := parseBound(f.MaxArea); ok {
		area["$lte"] = max
	}
	if len(area) > 0 {
		and = append(and, bson.M{"area_sq_m": area})
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}
