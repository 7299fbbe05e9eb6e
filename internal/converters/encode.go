// Package converters maps values between frame cells and Monday.com column
// values. Encode produces the per-column fragment of a column_values payload,
// Decode turns a column's text/value pair into a typed cell, and Infer picks a
// column type for a frame column that has no board column yet.
package converters

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thenoetrevino/boardframe/internal/frame"
	"github.com/thenoetrevino/boardframe/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// dateLayouts are tried in order when a date arrives as text
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan 2, 2006 3:04 PM",
}

// Encode converts a frame value into the column_values fragment for colType.
// A nil result means the value should be left out of the payload.
func Encode(colType models.ColumnType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if colType.ReadOnly() {
		return nil, fmt.Errorf("%w: %s", models.ErrReadOnlyColumn, colType)
	}

	switch colType {
	case models.ColumnTypeText, models.ColumnTypeName:
		return frame.FormatValue(v), nil
	case models.ColumnTypeLongText:
		return map[string]any{"text": frame.FormatValue(v)}, nil
	case models.ColumnTypeNumbers:
		return encodeNumber(v)
	case models.ColumnTypeStatus:
		return encodeStatus(v)
	case models.ColumnTypeDropdown:
		return encodeDropdown(v)
	case models.ColumnTypeDate:
		return encodeDate(v)
	case models.ColumnTypeTimeline:
		return encodeTimeline(v)
	case models.ColumnTypeCheckbox:
		return encodeCheckbox(v)
	case models.ColumnTypeEmail:
		s := frame.FormatValue(v)
		if !strings.Contains(s, "@") {
			return nil, invalid(colType, v)
		}
		return map[string]any{"email": s, "text": s}, nil
	case models.ColumnTypePhone:
		return encodePhone(v)
	case models.ColumnTypeLink:
		return encodeLink(v), nil
	case models.ColumnTypeRating:
		return encodeRating(v)
	case models.ColumnTypeHour:
		return encodeHour(v)
	case models.ColumnTypeWeek:
		return encodeWeek(v)
	case models.ColumnTypePeople:
		return encodePeople(v)
	case models.ColumnTypeTags:
		ids, err := parseIDs(frame.FormatValue(v))
		if err != nil {
			return nil, fmt.Errorf("%w: tags are written as numeric tag IDs: %v", ErrDisplayText, err)
		}
		return map[string]any{"tag_ids": ids}, nil
	case models.ColumnTypeCountry:
		return encodeCountry(v)
	case models.ColumnTypeLocation:
		return encodeLocation(v)
	case models.ColumnTypeColorPicker:
		s := strings.TrimSpace(frame.FormatValue(v))
		if !hexColorRegexp.MatchString(s) {
			return nil, fmt.Errorf("%w: color must be in hex format #RRGGBB, got: %s", ErrInvalidValue, s)
		}
		return map[string]any{"color": map[string]any{"hex": s}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, colType)
}

func invalid(colType models.ColumnType, v any) error {
	return fmt.Errorf("%w: %q is not a valid %s value", ErrInvalidValue, frame.FormatValue(v), colType)
}

func encodeNumber(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, nil
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(frame.FormatValue(v)), ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, invalid(models.ColumnTypeNumbers, v)
	}
	return strconv.FormatFloat(n, 'f', -1, 64), nil
}

func encodeStatus(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return map[string]any{"index": x}, nil
	case int:
		return map[string]any{"index": x}, nil
	case float64:
		if x == math.Trunc(x) {
			return map[string]any{"index": int64(x)}, nil
		}
		return nil, invalid(models.ColumnTypeStatus, v)
	}
	return map[string]any{"label": frame.FormatValue(v)}, nil
}

func encodeDropdown(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return map[string]any{"ids": []int64{x}}, nil
	case float64:
		if x == math.Trunc(x) {
			return map[string]any{"ids": []int64{int64(x)}}, nil
		}
	}
	var labels []string
	for _, part := range strings.Split(frame.FormatValue(v), ",") {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return map[string]any{"labels": labels}, nil
}

// ParseDate parses a date or date-time in any of the accepted layouts
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a recognised date", ErrInvalidValue, s)
}

func encodeDate(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		var err error
		t, err = ParseDate(frame.FormatValue(v))
		if err != nil {
			return nil, err
		}
	}
	t = t.UTC()
	out := map[string]any{"date": t.Format(time.DateOnly)}
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		out["time"] = t.Format(time.TimeOnly)
	}
	return out, nil
}

// splitRange splits "A - B" or "A to B" into its two ends
func splitRange(s string) (string, string, bool) {
	for _, sep := range []string{" - ", " to ", " – "} {
		if parts := strings.SplitN(s, sep, 2); len(parts) == 2 {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
		}
	}
	return "", "", false
}

func encodeTimeline(v any) (any, error) {
	from, to, ok := splitRange(frame.FormatValue(v))
	if !ok {
		return nil, fmt.Errorf("%w: timeline must look like \"2024-01-01 - 2024-01-31\"", ErrInvalidValue)
	}
	fromDate, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("%w: timeline ends before it starts", ErrInvalidValue)
	}
	return map[string]any{
		"from": fromDate.Format(time.DateOnly),
		"to":   toDate.Format(time.DateOnly),
	}, nil
}

func encodeWeek(v any) (any, error) {
	from, to, ok := splitRange(frame.FormatValue(v))
	if !ok {
		return nil, fmt.Errorf("%w: week must look like \"2024-01-01 - 2024-01-07\"", ErrInvalidValue)
	}
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	return map[string]any{"week": map[string]any{
		"startDate": start.Format(time.DateOnly),
		"endDate":   end.Format(time.DateOnly),
	}}, nil
}

// ParseBool accepts the spellings people put in spreadsheets for checkboxes
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "v", "x", "checked":
		return true, nil
	case "false", "no", "n", "0", "", "unchecked":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, s)
}

func encodeCheckbox(v any) (any, error) {
	var checked bool
	switch x := v.(type) {
	case bool:
		checked = x
	case float64:
		checked = x != 0
	case int64:
		checked = x != 0
	default:
		b, err := ParseBool(frame.FormatValue(v))
		if err != nil {
			return nil, err
		}
		checked = b
	}
	if !checked {
		return nil, nil
	}
	return map[string]any{"checked": "true"}, nil
}

func encodePhone(v any) (any, error) {
	s := strings.TrimSpace(frame.FormatValue(v))
	country := ""
	if code, number, ok := strings.Cut(s, ":"); ok && len(code) == 2 {
		country = strings.ToUpper(code)
		s = strings.TrimSpace(number)
	}
	var digits strings.Builder
	for i, r := range s {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil, invalid(models.ColumnTypePhone, v)
	}
	out := map[string]any{"phone": digits.String()}
	if country != "" {
		out["countryShortName"] = country
	}
	return out, nil
}

// encodeLink accepts "url" or Monday's own "text - url" rendering
func encodeLink(v any) any {
	s := strings.TrimSpace(frame.FormatValue(v))
	if idx := strings.LastIndex(s, " - "); idx > 0 {
		text, url := s[:idx], strings.TrimSpace(s[idx+3:])
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
			return map[string]any{"url": url, "text": strings.TrimSpace(text)}
		}
	}
	return map[string]any{"url": s, "text": s}
}

func encodeRating(v any) (any, error) {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) {
			return nil, invalid(models.ColumnTypeRating, v)
		}
		n = int64(x)
	default:
		parsed, err := strconv.ParseInt(strings.TrimSpace(frame.FormatValue(v)), 10, 64)
		if err != nil {
			return nil, invalid(models.ColumnTypeRating, v)
		}
		n = parsed
	}
	if n < 0 || n > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5, got %d", ErrInvalidValue, n)
	}
	return map[string]any{"rating": n}, nil
}

func encodeHour(v any) (any, error) {
	if t, ok := v.(time.Time); ok {
		return map[string]any{"hour": t.Hour(), "minute": t.Minute()}, nil
	}
	s := strings.ToUpper(strings.TrimSpace(frame.FormatValue(v)))
	for _, layout := range []string{"15:04", "3:04 PM", "03:04 PM", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return map[string]any{"hour": t.Hour(), "minute": t.Minute()}, nil
		}
	}
	return nil, invalid(models.ColumnTypeHour, v)
}

func encodePeople(v any) (any, error) {
	var entries []map[string]any
	for _, part := range strings.Split(frame.FormatValue(v), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kind := "person"
		if rest, ok := strings.CutPrefix(part, "team:"); ok {
			kind = "team"
			part = rest
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: people are written as numeric user IDs (or team:<id>), got %q", ErrDisplayText, part)
		}
		entries = append(entries, map[string]any{"id": id, "kind": kind})
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return map[string]any{"personsAndTeams": entries}, nil
}

var (
	countryNamesOnce sync.Once
	countryNames     map[string]language.Region
)

// countryByName maps lower-cased English country names, as Monday renders
// them, back to their region
func countryByName(name string) (language.Region, bool) {
	countryNamesOnce.Do(func() {
		countryNames = make(map[string]language.Region)
		namer := display.English.Regions()
		for a := 'A'; a <= 'Z'; a++ {
			for b := 'A'; b <= 'Z'; b++ {
				r, err := language.ParseRegion(string([]rune{a, b}))
				if err != nil || !r.IsCountry() {
					continue
				}
				if n := namer.Name(r); n != "" {
					countryNames[strings.ToLower(n)] = r
				}
			}
		}
	})
	r, ok := countryNames[strings.ToLower(name)]
	return r, ok
}

// encodeCountry accepts an ISO 3166 alpha-2 code or the English country name
func encodeCountry(v any) (any, error) {
	s := strings.TrimSpace(frame.FormatValue(v))
	var region language.Region
	if code := strings.ToUpper(s); len(code) == 2 {
		r, err := language.ParseRegion(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an ISO 3166 alpha-2 code", ErrInvalidValue, code)
		}
		region = r
	} else {
		r, ok := countryByName(s)
		if !ok {
			return nil, fmt.Errorf("%w: country must be an ISO 3166 alpha-2 code or English name, got %q", ErrInvalidValue, s)
		}
		region = r
	}
	return map[string]any{
		"countryCode": region.String(),
		"countryName": display.English.Regions().Name(region),
	}, nil
}

// encodeLocation accepts "lat,lng[,address]". A plain address, which is how
// Monday renders the column, has no coordinates to write.
func encodeLocation(v any) (any, error) {
	s := frame.FormatValue(v)
	parts := strings.SplitN(s, ",", 3)
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: location is written as \"lat,lng[,address]\", got %q", ErrDisplayText, s)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: location must look like \"lat,lng[,address]\"", ErrInvalidValue)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, invalid(models.ColumnTypeLocation, v)
	}
	out := map[string]any{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lng": strconv.FormatFloat(lng, 'f', -1, 64),
	}
	if len(parts) == 3 {
		out["address"] = strings.TrimSpace(parts[2])
	}
	return out, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
