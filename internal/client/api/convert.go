package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
)

// timeLayouts covers the date and time shapes the backend emits.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// apiTime decodes any of timeLayouts and encodes as RFC 3339. Zero is null.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	var s string
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized time '%s'", s)
}

func (t apiTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: apiTime{},
			DstType: time.Time{},
			Fn: func(src any) (any, error) {
				return src.(apiTime).Time, nil
			},
		},
		{
			SrcType: time.Time{},
			DstType: apiTime{},
			Fn: func(src any) (any, error) {
				return apiTime{Time: src.(time.Time)}, nil
			},
		},
	},
}

func copyInto(to, from any) error {
	if err := copier.CopyWithOption(to, from, copyOption); err != nil {
		return fmt.Errorf("failed to map response: %w", err)
	}
	return nil
}
