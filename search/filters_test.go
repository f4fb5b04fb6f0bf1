package search

import (
	"fmt"
	"net/url"
	"regexp"
	"testing"

	"github.com/goldenaqar/marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleProperties() []models.Property {
	return []models.Property{
		{PropID: "p1", Title: "شقة فاخرة في المارينا", Location: "دبي مارينا", City: "دبي", ListingType: models.ListingSale, PropertyType: "شقة", Price: 100, Bedrooms: 1, Bathrooms: 1, AreaSqM: 60},
		{PropID: "p2", Title: "فيلا مع حديقة", Location: "الخالدية", City: "أبوظبي", ListingType: models.ListingSale, PropertyType: "فيلا", Price: 200, Bedrooms: 4, Bathrooms: 3, AreaSqM: 320},
		{PropID: "p3", Title: "مكتب تجاري", Location: "الخليج التجاري", City: "دبي", ListingType: models.ListingRent, PropertyType: "مكتب", Price: 300, Bedrooms: 0, Bathrooms: 2, AreaSqM: 140},
		{PropID: "p4", Title: "بنتهاوس مطل على البحر", Location: "جميرا", City: "دبي", ListingType: models.ListingRent, PropertyType: "بنتهاوس", Price: 250, Bedrooms: 5, Bathrooms: 5, AreaSqM: 400},
		{PropID: "p5", Title: "استوديو مفروش", Location: "النهدة", City: "الشارقة", ListingType: models.ListingRent, PropertyType: "استوديو", Price: 150, Bedrooms: 6, Bathrooms: 1, AreaSqM: 45},
	}
}

func ids(list []models.Property) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.PropID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyEmptyFilterReturnsInputUnchanged(t *testing.T) {
	props := sampleProperties()
	got := Filters{}.Apply(props)
	if !equalIDs(ids(got), ids(props)) {
		t.Fatalf("empty filter changed the list: got %v", ids(got))
	}
}

func TestApplyPriceRangeBoundariesInclusive(t *testing.T) {
	props := sampleProperties()

	got := Filters{MinPrice: "100", MaxPrice: "300"}.Apply(props)
	if !equalIDs(ids(got), []string{"p1", "p2", "p3", "p4", "p5"}) {
		t.Fatalf("boundary properties dropped: got %v", ids(got))
	}

	got = Filters{MinPrice: "150", MaxPrice: "250"}.Apply(props)
	if !equalIDs(ids(got), []string{"p2", "p4", "p5"}) {
		t.Fatalf("unexpected range result: got %v", ids(got))
	}
}

func TestApplyExactPriceWindow(t *testing.T) {
	props := []models.Property{
		{PropID: "a", Price: 100},
		{PropID: "b", Price: 200},
		{PropID: "c", Price: 300},
	}
	got := Filters{MinPrice: "150", MaxPrice: "250"}.Apply(props)
	if !equalIDs(ids(got), []string{"b"}) {
		t.Fatalf("expected exactly [b], got %v", ids(got))
	}
}

func TestApplyMalformedBoundIgnored(t *testing.T) {
	props := sampleProperties()
	got := Filters{MinPrice: "abc", MaxPrice: "250"}.Apply(props)
	want := Filters{MaxPrice: "250"}.Apply(props)
	if !equalIDs(ids(got), ids(want)) {
		t.Fatalf("malformed min bound not ignored: got %v want %v", ids(got), ids(want))
	}

	got = Filters{MinPrice: "12,000"}.Apply(props)
	if !equalIDs(ids(got), ids(props)) {
		t.Fatalf("malformed-only filter should be identity: got %v", ids(got))
	}
}

func TestApplyBedroomSentinel(t *testing.T) {
	props := sampleProperties()

	got := Filters{Bedrooms: "4"}.Apply(props)
	if !equalIDs(ids(got), []string{"p2"}) {
		t.Fatalf("exact bedrooms: got %v", ids(got))
	}

	got = Filters{Bedrooms: "4+"}.Apply(props)
	if !equalIDs(ids(got), []string{"p2", "p4", "p5"}) {
		t.Fatalf("bedrooms lower bound: got %v", ids(got))
	}
}

func TestApplyLocationSubstringCaseInsensitive(t *testing.T) {
	props := []models.Property{
		{PropID: "x", Title: "Marina View Tower", Location: "Dubai Marina", City: "Dubai"},
		{PropID: "y", Title: "Garden Villa", Location: "Khalidiya", City: "Abu Dhabi"},
	}
	got := Filters{Location: "marina"}.Apply(props)
	if !equalIDs(ids(got), []string{"x"}) {
		t.Fatalf("case-insensitive substring: got %v", ids(got))
	}

	got = Filters{Location: "dubai"}.Apply(props)
	if !equalIDs(ids(got), []string{"x"}) {
		t.Fatalf("city match: got %v", ids(got))
	}
}

func TestApplyPreservesOrderAndCombinesCriteria(t *testing.T) {
	props := sampleProperties()
	got := Filters{ListingType: models.ListingRent, MaxPrice: "300"}.Apply(props)
	if !equalIDs(ids(got), []string{"p3", "p4", "p5"}) {
		t.Fatalf("order not preserved or wrong subset: got %v", ids(got))
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("listing_type", "rent")
	q.Set("min_price", " 100 ")
	q.Set("bedrooms", "3+")
	f := FromQuery(q)
	if f.ListingType != "rent" || f.MinPrice != "100" || f.Bedrooms != "3+" {
		t.Fatalf("unexpected filters: %+v", f)
	}
	if FromQuery(url.Values{}) != (Filters{}) {
		t.Fatal("empty query should produce zero filters")
	}
}

// evalQuery interprets the subset of MongoDB query operators that Query
// produces against a decoded property document, so the in-memory evaluator
// and the query compiler can be compared set-for-set without a database.
func evalQuery(t *testing.T, query bson.M, doc bson.M) bool {
	t.Helper()
	for key, cond := range query {
		switch key {
		case "$and":
			for _, sub := range cond.([]bson.M) {
				if !evalQuery(t, sub, doc) {
					return false
				}
			}
		case "$or":
			matched := false
			for _, sub := range cond.([]bson.M) {
				if evalQuery(t, sub, doc) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			if !evalField(t, doc[key], cond) {
				return false
			}
		}
	}
	return true
}

func evalField(t *testing.T, fieldVal, cond interface{}) bool {
	t.Helper()
	ops, isDoc := cond.(bson.M)
	if !isDoc {
		return valuesEqual(fieldVal, cond)
	}
	for op, arg := range ops {
		switch op {
		case "$gte":
			a, aok := toFloat(fieldVal)
			b, bok := toFloat(arg)
			if !aok || !bok || a < b {
				return false
			}
		case "$lte":
			a, aok := toFloat(fieldVal)
			b, bok := toFloat(arg)
			if !aok || !bok || a > b {
				return false
			}
		case "$regex":
			re := arg.(primitive.Regex)
			pattern := re.Pattern
			if re.Options == "i" {
				pattern = "(?i)" + pattern
			}
			s, ok := fieldVal.(string)
			if !ok || !regexp.MustCompile(pattern).MatchString(s) {
				return false
			}
		default:
			t.Fatalf("evaluator does not support operator %q", op)
		}
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toDoc(t *testing.T, p models.Property) bson.M {
	t.Helper()
	raw, err := bson.Marshal(p)
	if err != nil {
		t.Fatalf("marshal property: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal property: %v", err)
	}
	return doc
}

// TestMatchAndQueryAgree checks the consistency requirement between the two
// filter call sites: for every filter in the grid, the in-memory evaluator
// and the compiled query must retain exactly the same properties.
func TestMatchAndQueryAgree(t *testing.T) {
	props := sampleProperties()
	grid := []Filters{
		{},
		{ListingType: models.ListingRent},
		{PropertyType: "فيلا"},
		{Location: "دبي"},
		{Location: "الخليج"},
		{MinPrice: "150"},
		{MaxPrice: "250"},
		{MinPrice: "100", MaxPrice: "300"},
		{MinPrice: "oops", MaxPrice: "250"},
		{Bedrooms: "4"},
		{Bedrooms: "4+"},
		{Bathrooms: "1"},
		{Bathrooms: "2+"},
		{MinArea: "100"},
		{MinArea: "50", MaxArea: "350"},
		{ListingType: models.ListingSale, Location: "دبي", MinPrice: "50", Bedrooms: "1"},
		{ListingType: models.ListingRent, Bathrooms: "2+", MaxArea: "400"},
	}

	for i, f := range grid {
		f := f
		t.Run(fmt.Sprintf("filter_%d", i), func(t *testing.T) {
			query := f.Query()
			for _, p := range props {
				local := f.Match(&p)
				compiled := evalQuery(t, query, toDoc(t, p))
				if local != compiled {
					t.Fatalf("filter %+v diverges on %s: Match=%v Query=%v", f, p.PropID, local, compiled)
				}
			}
		})
	}
}

func TestQueryEmptyFilterIsEmptyDocument(t *testing.T) {
	q := Filters{}.Query()
	if len(q) != 0 {
		t.Fatalf("empty filter should compile to an empty document, got %v", q)
	}
	q = Filters{MinPrice: "nope"}.Query()
	if len(q) != 0 {
		t.Fatalf("malformed-only filter should compile to an empty document, got %v", q)
	}
}
