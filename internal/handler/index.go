package handler

import (
	"bytes"
	"encoding/json"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// activityIndex is a name-keyed JSON object that keeps query order.
// A repeated name keeps the position where it first appeared and the value
// of its last occurrence.
type activityIndex struct {
	names  []string
	byName map[string]model.Activity
}

func newActivityIndex(activities []model.Activity) activityIndex {
	idx := activityIndex{
		names:  make([]string, 0, len(activities)),
		byName: make(map[string]model.Activity, len(activities)),
	}
	for _, a := range activities {
		if _, seen := idx.byName[a.Name]; !seen {
			idx.names = append(idx.names, a.Name)
		}
		idx.byName[a.Name] = a
	}
	return idx
}

// MarshalJSON writes the object with keys in insertion order.
func (idx activityIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range idx.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(idx.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
