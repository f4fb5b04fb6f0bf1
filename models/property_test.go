package models

import "testing"

func TestPropertyTypesForCategory(t *testing.T) {
	res := PropertyTypesFor(CategoryResidential)
	com := PropertyTypesFor(CategoryCommercial)
	if len(res) == 0 || len(com) == 0 {
		t.Fatal("both categories must offer property types")
	}

	seen := make(map[string]bool)
	for _, typ := range res {
		seen[typ] = true
	}
	for _, typ := range com {
		if seen[typ] {
			t.Fatalf("type %q appears in both categories", typ)
		}
	}

	all := PropertyTypesFor("")
	if len(all) != len(res)+len(com) {
		t.Fatalf("unknown category should return every type: got %d, want %d", len(all), len(res)+len(com))
	}
}

func TestValidPropertyType(t *testing.T) {
	if !ValidPropertyType(CategoryResidential, "شقة") {
		t.Fatal("apartment should be a residential type")
	}
	if ValidPropertyType(CategoryCommercial, "شقة") {
		t.Fatal("apartment should not be a commercial type")
	}
	if !ValidPropertyType("", "مكتب") {
		t.Fatal("an empty category should accept any known type")
	}
	if ValidPropertyType(CategoryResidential, "قصر") {
		t.Fatal("unknown type should be rejected")
	}
}
