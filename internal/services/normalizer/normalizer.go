// Package normalizer maps vendor-shaped scrape records into result rows.
package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wasper/research-api/internal/models"
)

const (
	unknownTitle   = "Unknown"
	snippetJoiner  = " • "
	previewLimit   = 200
	mapsSearchBase = "https://www.google.com/maps/search/"
)

// dateLayouts are tried in order for string dates
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer converts raw records to rows. It holds no per-call state.
type Normalizer struct {
	aliases Aliases
	source  string
	now     func() time.Time
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithAliases replaces the alias table
func WithAliases(aliases Aliases) Option {
	return func(n *Normalizer) {
		if len(aliases) > 0 {
			n.aliases = aliases
		}
	}
}

// WithClock sets the time source used by the age filter
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithSource sets the source label stamped on every row
func WithSource(source string) Option {
	return func(n *Normalizer) {
		if source != "" {
			n.source = source
		}
	}
}

// New creates a normalizer for Google Maps records
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		aliases: DefaultAliases(),
		source:  models.SourceGoogleMaps,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize emits one row per record, each followed by its filtered and capped sub-record rows.
// Source order is preserved and no record is ever dropped.
func (n *Normalizer) Normalize(records []json.RawMessage, opts models.NormalizeOptions) []models.ResultRow {
	rows := make([]models.ResultRow, 0, len(records))
	now := n.now()

	for _, raw := range records {
		if !gjson.ValidBytes(raw) {
			rows = append(rows, n.unparsedRow(string(raw)))
			continue
		}
		record := gjson.ParseBytes(raw)
		if !record.IsObject() {
			rows = append(rows, n.unparsedRow(record.Raw))
			continue
		}

		business := n.businessRow(record)
		rows = append(rows, business)
		rows = append(rows, n.reviewRows(record, business, opts, now)...)
	}

	return rows
}

func (n *Normalizer) businessRow(record gjson.Result) models.ResultRow {
	title := n.firstText(record, AttrTitle)
	if title == "" {
		title = unknownTitle
	}

	link := n.firstText(record, AttrURL)
	if link == "" {
		if placeID := n.firstText(record, AttrPlaceID); placeID != "" {
			link = mapsSearchURL(title, placeID)
		}
	}

	var parts []string
	for _, path := range n.aliases[AttrSnippet] {
		if text := textOf(record.Get(path)); text != "" {
			parts = append(parts, text)
		}
	}
	snippet := strings.Join(parts, snippetJoiner)
	if snippet == "" {
		snippet = n.firstText(record, AttrSnippetFallback)
	}

	return models.ResultRow{
		Title:   title,
		Kind:    models.RowKindBusiness,
		Source:  n.source,
		Snippet: snippet,
		URL:     link,
		Rating:  n.firstNumber(record, AttrRating),
	}
}

func (n *Normalizer) reviewRows(record gjson.Result, business models.ResultRow, opts models.NormalizeOptions, now time.Time) []models.ResultRow {
	if opts.MaxSubItemCount <= 0 {
		return nil
	}

	var reviews gjson.Result
	for _, path := range n.aliases[AttrReviews] {
		if res := record.Get(path); res.IsArray() {
			reviews = res
			break
		}
	}
	if !reviews.Exists() {
		return nil
	}

	var cutoff time.Time
	if opts.MaxAgeDays > 0 {
		cutoff = now.Add(-time.Duration(opts.MaxAgeDays) * 24 * time.Hour)
	}

	var rows []models.ResultRow
	reviews.ForEach(func(_, review gjson.Result) bool {
		row, date := n.reviewRow(review, business)

		if opts.MinRating != nil && row.Rating != nil && *row.Rating < *opts.MinRating {
			return true
		}
		if !cutoff.IsZero() && date != nil && date.Before(cutoff) {
			return true
		}

		rows = append(rows, row)
		return len(rows) < opts.MaxSubItemCount
	})

	return rows
}

// reviewRow builds the row for one sub-record and returns its parsed date, if any
func (n *Normalizer) reviewRow(review gjson.Result, business models.ResultRow) (models.ResultRow, *time.Time) {
	row := models.ResultRow{
		Kind:   models.RowKindReview,
		Source: n.source,
	}

	if !review.IsObject() {
		row.Title = "Review of " + business.Title
		row.Snippet = preview(review.String())
		row.URL = business.URL
		return row, nil
	}

	if author := n.firstText(review, AttrReviewTitle); author != "" {
		row.Title = fmt.Sprintf("%s on %s", author, business.Title)
	} else {
		row.Title = "Review of " + business.Title
	}

	row.Snippet = n.firstText(review, AttrReviewText)
	row.URL = n.firstText(review, AttrReviewURL)
	if row.URL == "" {
		row.URL = business.URL
	}
	row.Rating = n.firstNumber(review, AttrReviewRating)

	var date *time.Time
	for _, path := range n.aliases[AttrReviewDate] {
		if t, ok := dateOf(review.Get(path)); ok {
			date = &t
			formatted := t.UTC().Format(time.RFC3339)
			row.Date = &formatted
			break
		}
	}

	return row, date
}

func (n *Normalizer) unparsedRow(raw string) models.ResultRow {
	return models.ResultRow{
		Title:   "Unrecognized record",
		Kind:    models.RowKindOther,
		Source:  n.source,
		Snippet: preview(raw),
	}
}

// firstText returns the first alias value that is non-empty text
func (n *Normalizer) firstText(obj gjson.Result, attr Attribute) string {
	for _, path := range n.aliases[attr] {
		if text := textOf(obj.Get(path)); text != "" {
			return text
		}
	}
	return ""
}

// firstNumber returns the first alias value that parses as a finite number
func (n *Normalizer) firstNumber(obj gjson.Result, attr Attribute) *float64 {
	for _, path := range n.aliases[attr] {
		if v, ok := numberOf(obj.Get(path)); ok {
			return &v
		}
	}
	return nil
}

func textOf(res gjson.Result) string {
	switch res.Type {
	case gjson.String:
		return collapse(res.Str)
	case gjson.Number:
		return res.Raw
	}
	return ""
}

func numberOf(res gjson.Result) (float64, bool) {
	var v float64
	switch res.Type {
	case gjson.Number:
		v = res.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(res.Str), 64)
		if err != nil {
			return 0, false
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func dateOf(res gjson.Result) (time.Time, bool) {
	switch res.Type {
	case gjson.String:
		s := strings.TrimSpace(res.Str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case gjson.Number:
		epoch := res.Int()
		if epoch <= 0 {
			return time.Time{}, false
		}
		// Values past 1e12 are milliseconds
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), true
		}
		return time.Unix(epoch, 0).UTC(), true
	}
	return time.Time{}, false
}

func mapsSearchURL(title, placeID string) string {
	params := url.Values{}
	params.Set("api", "1")
	params.Set("query", title)
	params.Set("query_place_id", placeID)
	return mapsSearchBase + "?" + params.Encode()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func preview(s string) string {
	s = collapse(s)
	if r := []rune(s); len(r) > previewLimit {
		return string(r[:previewLimit]) + "…"
	}
	return s
}
