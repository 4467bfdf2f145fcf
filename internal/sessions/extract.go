package sessions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// wireTimestampLayout is how driver time values are rendered before normalization.
const wireTimestampLayout = "2006-01-02 15:04:05.999999"

// Extract converts one raw row into Fields. It never fails: any problem yields
// a Fields holding only ErrorKey.
func Extract(row RawRow) Fields {
	if row.Err != nil {
		return errorFields(fmt.Errorf("%w: %w", ErrRowExtraction, row.Err))
	}
	if len(row.Columns) != len(row.Values) {
		return errorFields(fmt.Errorf("%w: %d columns but %d values",
			ErrRowExtraction, len(row.Columns), len(row.Values)))
	}

	fields := make(Fields, len(row.Columns))
	for i, column := range row.Columns {
		text, err := coerce(row.Values[i])
		if err != nil {
			return errorFields(fmt.Errorf("%w: column %q: %w", ErrRowExtraction, column, err))
		}
		fields[strings.ToLower(column)] = text
	}
	return fields
}

func errorFields(err error) Fields {
	return Fields{ErrorKey: err.Error()}
}

// coerce renders a driver value as text.
func coerce(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return NullMarker, nil
	case string:
		return val, nil
	case []byte:
		if val == nil {
			return NullMarker, nil
		}
		return string(val), nil
	case time.Time:
		return val.Format(wireTimestampLayout), nil
	case *time.Time:
		if val == nil {
			return NullMarker, nil
		}
		return val.Format(wireTimestampLayout), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// ParseSessionRow maps extracted fields onto the expected query columns.
// Every column must be present.
func ParseSessionRow(f Fields) (SessionRow, error) {
	if f.Failed() {
		return SessionRow{}, errors.New(f[ErrorKey])
	}
	var missing []string
	get := func(column string) string {
		v, ok := f[column]
		if !ok {
			missing = append(missing, column)
		}
		return v
	}
	row := SessionRow{
		Username:     get(ColumnUsername),
		Workstation:  get(ColumnWorkstation),
		LoginTime:    get(ColumnLoginTime),
		LastActivity: get(ColumnLastActivity),
		AppUserFlag:  get(ColumnAppUser),
		BIUserFlag:   get(ColumnBIUser),
	}
	if len(missing) > 0 {
		return SessionRow{}, fmt.Errorf("%w: missing columns %s", ErrRowExtraction, strings.Join(missing, ", "))
	}
	return row, nil
}
