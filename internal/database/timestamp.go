package database

import (
	"fmt"
	"time"
)

// Timestamp scans the shapes timestamp columns arrive in across drivers:
// time.Time (pgx, sqlite with a DATETIME column) or text/bytes (mysql
// without parseTime).
type Timestamp struct {
	Time time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = x
		return nil
	case string:
		return t.parse(x)
	case []byte:
		return t.parse(string(x))
	}
	return fmt.Errorf("unsupported timestamp value %T", v)
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparsable timestamp %q", s)
}
