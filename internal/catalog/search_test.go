package catalog

import (
	"reflect"
	"testing"
)

var testCategories = []Category{
	{ID: 1, Name: "Street Lighting", Text: "lamp broken,light weak"},
	{ID: 2, Name: "Garbage", Text: "bin overflowing"},
	{ID: 3, Name: "Roads", Text: "pothole,broken sidewalk"},
}

var testStreets = []StreetNumber{
	{ID: 1, Name: "Herzl", HouseNumber: "42"},
	{ID: 2, Name: "Weizmann", HouseNumber: "7"},
	{ID: 3, Name: "Karl Popper", HouseNumber: "421"},
}

func TestFilterCategoriesEmptyQueryIsIdentity(t *testing.T) {
	t.Parallel()

	got := FilterCategories("", testCategories)
	if !reflect.DeepEqual(got, testCategories) {
		t.Fatalf("FilterCategories(\"\") = %v, want input unchanged", got)
	}
}

func TestFilterCategoriesIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	upper := FilterCategories("BROKEN", testCategories)
	lower := FilterCategories("broken", testCategories)
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("case-sensitive mismatch: %v vs %v", upper, lower)
	}
	if len(upper) != 2 || upper[0].ID != 1 || upper[1].ID != 3 {
		t.Fatalf("FilterCategories(broken) = %v, want categories 1 and 3 in order", upper)
	}
}

func TestFilterCategoriesMatchesNameAndText(t *testing.T) {
	t.Parallel()

	byName := FilterCategories("garb", testCategories)
	if len(byName) != 1 || byName[0].ID != 2 {
		t.Fatalf("FilterCategories(garb) = %v", byName)
	}
	byText := FilterCategories("pothole", testCategories)
	if len(byText) != 1 || byText[0].ID != 3 {
		t.Fatalf("FilterCategories(pothole) = %v", byText)
	}
	if got := FilterCategories("no-such-thing", testCategories); len(got) != 0 {
		t.Fatalf("FilterCategories(no match) = %v, want empty", got)
	}
}

func TestFilterStreetsMatchesNameAndHouseNumber(t *testing.T) {
	t.Parallel()

	if got := FilterStreets("", testStreets); !reflect.DeepEqual(got, testStreets) {
		t.Fatalf("FilterStreets(\"\") = %v, want input unchanged", got)
	}
	byName := FilterStreets("herzl", testStreets)
	if len(byName) != 1 || byName[0].ID != 1 {
		t.Fatalf("FilterStreets(herzl) = %v", byName)
	}
	// "42" matches both Herzl 42 and Karl Popper 421; source order holds.
	byNumber := FilterStreets("42", testStreets)
	if len(byNumber) != 2 || byNumber[0].ID != 1 || byNumber[1].ID != 3 {
		t.Fatalf("FilterStreets(42) = %v", byNumber)
	}
}

func TestDescriptionOptions(t *testing.T) {
	t.Parallel()

	category := Category{Text: "lamp broken, light weak , ,"}
	got := category.DescriptionOptions()
	want := []string{"lamp broken", "light weak"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DescriptionOptions = %v, want %v", got, want)
	}
	if got := (Category{}).DescriptionOptions(); got != nil {
		t.Fatalf("DescriptionOptions empty = %v, want nil", got)
	}
}
