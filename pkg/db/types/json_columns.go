package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/moviemaestro/moviemaestro-backend/pkg/types"
)

// MediaList stores an ordered sequence of media entries as a JSON column.
type MediaList []types.MediaEntry

func (l *MediaList) Scan(src any) error {
	raw, err := jsonBytes("MediaList", src)
	if err != nil {
		return err
	}
	if raw == nil {
		*l = MediaList{}
		return nil
	}
	var out []types.MediaEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("MediaList: decode: %w", err)
	}
	*l = MediaList(out)
	return nil
}

func (l MediaList) Value() (driver.Value, error) {
	if l == nil {
		l = MediaList{}
	}
	return json.Marshal([]types.MediaEntry(l))
}

// ContainsTitle reports whether an entry with the given original_title
// is already present.
func (l MediaList) ContainsTitle(originalTitle string) bool {
	for _, entry := range l {
		if entry.OriginalTitle == originalTitle {
			return true
		}
	}
	return false
}

// WithoutTitle returns a copy of the list excluding entries whose
// original_title matches, preserving the relative order of the rest.
func (l MediaList) WithoutTitle(originalTitle string) (MediaList, bool) {
	out := make(MediaList, 0, len(l))
	removed := false
	for _, entry := range l {
		if entry.OriginalTitle == originalTitle {
			removed = true
			continue
		}
		out = append(out, entry)
	}
	return out, removed
}

// OptionPairList stores an ordered sequence of value/label pairs as JSON.
type OptionPairList []types.OptionPair

func (l *OptionPairList) Scan(src any) error {
	raw, err := jsonBytes("OptionPairList", src)
	if err != nil {
		return err
	}
	if raw == nil {
		*l = OptionPairList{}
		return nil
	}
	var out []types.OptionPair
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("OptionPairList: decode: %w", err)
	}
	*l = OptionPairList(out)
	return nil
}

func (l OptionPairList) Value() (driver.Value, error) {
	if l == nil {
		l = OptionPairList{}
	}
	return json.Marshal([]types.OptionPair(l))
}

func jsonBytes(kind string, src any) ([]byte, error) {
	if src == nil {
		return nil, nil
	}
	switch v := src.(type) {
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%s: unsupported Scan type %T", kind, src)
	}
}
