package converters

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// ============================================================================
// TEST CASES - Encode
// ============================================================================

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		colType  models.ColumnType
		input    any
		expected any
	}{
		{"nil is omitted", models.ColumnTypeText, nil, nil},
		{"blank string is omitted", models.ColumnTypeStatus, "   ", nil},
		{"text from string", models.ColumnTypeText, "hello", "hello"},
		{"text from float", models.ColumnTypeText, 2.5, "2.5"},
		{"long text", models.ColumnTypeLongText, "notes", map[string]any{"text": "notes"}},
		{"numbers from float", models.ColumnTypeNumbers, 42.0, "42"},
		{"numbers from int64", models.ColumnTypeNumbers, int64(7), "7"},
		{"numbers from string with separators", models.ColumnTypeNumbers, "1,250.5", "1250.5"},
		{"status label", models.ColumnTypeStatus, "Done", map[string]any{"label": "Done"}},
		{"status index", models.ColumnTypeStatus, int64(1), map[string]any{"index": int64(1)}},
		{"dropdown labels", models.ColumnTypeDropdown, "a, b", map[string]any{"labels": []string{"a", "b"}}},
		{"date from string", models.ColumnTypeDate, "2024-03-01", map[string]any{"date": "2024-03-01"}},
		{
			"date with time",
			models.ColumnTypeDate,
			time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			map[string]any{"date": "2024-03-01", "time": "09:30:00"},
		},
		{
			"date with offset converts to utc",
			models.ColumnTypeDate,
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.FixedZone("IST", 2*60*60)),
			map[string]any{"date": "2024-01-14", "time": "22:00:00"},
		},
		{
			"date string with offset converts to utc",
			models.ColumnTypeDate,
			"2024-01-15T00:00:00+02:00",
			map[string]any{"date": "2024-01-14", "time": "22:00:00"},
		},
		{
			"utc midnight has no time",
			models.ColumnTypeDate,
			"2024-01-15T00:00:00Z",
			map[string]any{"date": "2024-01-15"},
		},
		{
			"timeline",
			models.ColumnTypeTimeline,
			"2024-01-01 - 2024-01-31",
			map[string]any{"from": "2024-01-01", "to": "2024-01-31"},
		},
		{"checkbox true", models.ColumnTypeCheckbox, true, map[string]any{"checked": "true"}},
		{"checkbox yes", models.ColumnTypeCheckbox, "yes", map[string]any{"checked": "true"}},
		{"checkbox false is omitted", models.ColumnTypeCheckbox, false, nil},
		{"email", models.ColumnTypeEmail, "a@b.io", map[string]any{"email": "a@b.io", "text": "a@b.io"}},
		{"phone strips formatting", models.ColumnTypePhone, "+1 (555) 010-9999", map[string]any{"phone": "+15550109999"}},
		{
			"phone with country",
			models.ColumnTypePhone,
			"us:5550109999",
			map[string]any{"phone": "5550109999", "countryShortName": "US"},
		},
		{
			"link in display form",
			models.ColumnTypeLink,
			"Docs - https://example.com/docs",
			map[string]any{"url": "https://example.com/docs", "text": "Docs"},
		},
		{"bare link", models.ColumnTypeLink, "https://x.io", map[string]any{"url": "https://x.io", "text": "https://x.io"}},
		{"rating", models.ColumnTypeRating, 4.0, map[string]any{"rating": int64(4)}},
		{"hour 24h", models.ColumnTypeHour, "14:05", map[string]any{"hour": 14, "minute": 5}},
		{"hour 12h", models.ColumnTypeHour, "9:30 am", map[string]any{"hour": 9, "minute": 30}},
		{
			"week",
			models.ColumnTypeWeek,
			"2024-01-01 - 2024-01-07",
			map[string]any{"week": map[string]any{"startDate": "2024-01-01", "endDate": "2024-01-07"}},
		},
		{
			"people and teams",
			models.ColumnTypePeople,
			"12, team:34",
			map[string]any{"personsAndTeams": []map[string]any{
				{"id": int64(12), "kind": "person"},
				{"id": int64(34), "kind": "team"},
			}},
		},
		{"tags", models.ColumnTypeTags, "1,2", map[string]any{"tag_ids": []int64{1, 2}}},
		{"country", models.ColumnTypeCountry, "us", map[string]any{"countryCode": "US", "countryName": "United States"}},
		{"country by name", models.ColumnTypeCountry, "Israel", map[string]any{"countryCode": "IL", "countryName": "Israel"}},
		{"country name ignores case", models.ColumnTypeCountry, " germany ", map[string]any{"countryCode": "DE", "countryName": "Germany"}},
		{
			"location with address",
			models.ColumnTypeLocation,
			"40.7,-74.0, New York",
			map[string]any{"lat": "40.7", "lng": "-74", "address": "New York"},
		},
		{"color", models.ColumnTypeColorPicker, "#FF00aa", map[string]any{"color": map[string]any{"hex": "#FF00aa"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Encode(tt.colType, tt.input)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		colType models.ColumnType
		input   any
		wantErr error
	}{
		{"numbers rejects words", models.ColumnTypeNumbers, "many", ErrInvalidValue},
		{"date rejects garbage", models.ColumnTypeDate, "someday", ErrInvalidValue},
		{"timeline needs two ends", models.ColumnTypeTimeline, "2024-01-01", ErrInvalidValue},
		{"timeline must be ordered", models.ColumnTypeTimeline, "2024-02-01 - 2024-01-01", ErrInvalidValue},
		{"checkbox rejects words", models.ColumnTypeCheckbox, "perhaps", ErrInvalidValue},
		{"email needs at sign", models.ColumnTypeEmail, "nobody", ErrInvalidValue},
		{"rating out of range", models.ColumnTypeRating, int64(9), ErrInvalidValue},
		{"people names are display text", models.ColumnTypePeople, "Alice, Bob", ErrDisplayText},
		{"tag labels are display text", models.ColumnTypeTags, "urgent, bug", ErrDisplayText},
		{"address is display text", models.ColumnTypeLocation, "Tel Aviv, Israel", ErrDisplayText},
		{"bare address is display text", models.ColumnTypeLocation, "Haifa", ErrDisplayText},
		{"location needs a longitude", models.ColumnTypeLocation, "40.7", ErrInvalidValue},
		{"unknown country name", models.ColumnTypeCountry, "Narnia", ErrInvalidValue},
		{"malformed country code", models.ColumnTypeCountry, "1A", ErrInvalidValue},
		{"color must be hex", models.ColumnTypeColorPicker, "red", ErrInvalidValue},
		{"formula is read-only", models.ColumnTypeFormula, "1", models.ErrReadOnlyColumn},
		{"unknown type", models.ColumnType("hologram"), "1", ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Encode(tt.colType, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Encode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
