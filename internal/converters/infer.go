package converters

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/boardframe/internal/models"
)

// longTextThreshold is the length past which text values get a long_text column
const longTextThreshold = 2000

// Infer picks a column type for a frame column from its values. Empty values
// are ignored; a column with no values at all becomes text.
func Infer(values []any) models.ColumnType {
	var seen, numbers, bools, dates int
	long := false

	for _, v := range values {
		switch x := v.(type) {
		case nil:
			continue
		case float64, float32, int, int64, int32:
			numbers++
		case bool:
			bools++
		case time.Time:
			dates++
		case string:
			s := strings.TrimSpace(x)
			if s == "" {
				continue
			}
			if _, err := strconv.ParseFloat(s, 64); err == nil && !leadingZero(s) {
				numbers++
			} else if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
				bools++
			} else if _, err := time.Parse(time.DateOnly, s); err == nil {
				dates++
			} else if _, err := time.Parse(time.RFC3339, s); err == nil {
				dates++
			}
			if utf8.RuneCountInString(s) > longTextThreshold {
				long = true
			}
		}
		seen++
	}

	switch {
	case seen == 0:
		return models.ColumnTypeText
	case numbers == seen:
		return models.ColumnTypeNumbers
	case bools == seen:
		return models.ColumnTypeCheckbox
	case dates == seen:
		return models.ColumnTypeDate
	case long:
		return models.ColumnTypeLongText
	}
	return models.ColumnTypeText
}

// leadingZero reports digit strings such as zip codes that a numbers column
// would strip
func leadingZero(s string) bool {
	s = strings.TrimPrefix(s, "+")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}

var typeAliases = map[string]models.ColumnType{
	"string":   models.ColumnTypeText,
	"number":   models.ColumnTypeNumbers,
	"numeric":  models.ColumnTypeNumbers,
	"bool":     models.ColumnTypeCheckbox,
	"boolean":  models.ColumnTypeCheckbox,
	"longtext": models.ColumnTypeLongText,
	"color":    models.ColumnTypeColorPicker,
	"tag":      models.ColumnTypeTags,
	"person":   models.ColumnTypePeople,
}

// ParseColumnType parses a user supplied type name such as "numbers" or
// "long-text". Only writable types are accepted.
func ParseColumnType(s string) (models.ColumnType, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	t := models.ColumnType(key)
	if !t.Writable() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
	return t, nil
}
