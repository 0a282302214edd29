package normalizer

import (
	"fmt"
	"sort"
	"strings"
)

// Attribute names a semantic field that vendors spell in several ways
type Attribute string

const (
	AttrTitle           Attribute = "title"
	AttrURL             Attribute = "url"
	AttrPlaceID         Attribute = "place_id"
	AttrRating          Attribute = "rating"
	AttrSnippet         Attribute = "snippet"
	AttrSnippetFallback Attribute = "snippet_fallback"
	AttrReviews         Attribute = "reviews"
	AttrReviewTitle     Attribute = "review_title"
	AttrReviewText      Attribute = "review_text"
	AttrReviewRating    Attribute = "review_rating"
	AttrReviewDate      Attribute = "review_date"
	AttrReviewURL       Attribute = "review_url"
)

// Aliases maps each attribute to gjson paths tried left to right.
// For AttrSnippet every present path contributes a part instead.
type Aliases map[Attribute][]string

// DefaultAliases returns the alias table for Google Maps place records
func DefaultAliases() Aliases {
	return Aliases{
		AttrTitle:           {"title", "name"},
		AttrURL:             {"url", "googleUrl", "placeUrl", "mapsUrl", "website"},
		AttrPlaceID:         {"placeId", "place_id"},
		AttrRating:          {"totalScore", "rating", "score"},
		AttrSnippet:         {"address", "phone", "website"},
		AttrSnippetFallback: {"categoryName", "description"},
		AttrReviews:         {"reviews", "reviewsList"},
		AttrReviewTitle:     {"name", "reviewerName", "author"},
		AttrReviewText:      {"text", "textTranslated", "reviewText", "snippet"},
		AttrReviewRating:    {"stars", "rating", "score"},
		AttrReviewDate:      {"publishedAtDate", "publishAt", "date"},
		AttrReviewURL:       {"reviewUrl", "url"},
	}
}

// WithOverrides returns a copy of the table with the given attributes replaced.
// Keys are attribute names as they appear in configuration.
func (a Aliases) WithOverrides(overrides map[string][]string) (Aliases, error) {
	out := make(Aliases, len(a))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}

	var unknown []string
	for key, paths := range overrides {
		attr := Attribute(strings.ToLower(strings.TrimSpace(key)))
		if _, ok := a[attr]; !ok {
			unknown = append(unknown, key)
			continue
		}
		if len(paths) == 0 {
			continue
		}
		out[attr] = append([]string(nil), paths...)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown normalizer alias attributes: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
