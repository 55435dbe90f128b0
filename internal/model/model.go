// Package model defines the core domain types for the activity signup service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Activity represents an extracurricular offering students can sign up for.
// Name is the lookup key; it is expected to be unique within a collection.
type Activity struct {
	Name         string   `json:"name"`
	Category     *string  `json:"category,omitempty"`
	Date         *string  `json:"date,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Participants []string `json:"participants"`

	// Extra holds attributes this service does not interpret (schedule,
	// max_participants and anything else). They are written back untouched
	// on save.
	Extra map[string]json.RawMessage `json:"-"`
}

// CategoryValue returns the category, or "" when absent.
func (a *Activity) CategoryValue() string { return deref(a.Category) }

// DateValue returns the date, or "" when absent.
func (a *Activity) DateValue() string { return deref(a.Date) }

// DescriptionValue returns the description, or "" when absent.
func (a *Activity) DescriptionValue() string { return deref(a.Description) }

// HasParticipant reports whether email is in the participant list.
func (a *Activity) HasParticipant(email string) bool {
	return a.participantIndex(email) >= 0
}

// AddParticipant appends email to the participant list.
// It returns false without modifying the list if email is already present.
func (a *Activity) AddParticipant(email string) bool {
	if a.HasParticipant(email) {
		return false
	}
	a.Participants = append(a.Participants, email)
	return true
}

// RemoveParticipant removes the first occurrence of email.
// It returns false if email was not a participant.
func (a *Activity) RemoveParticipant(email string) bool {
	i := a.participantIndex(email)
	if i < 0 {
		return false
	}
	a.Participants = append(a.Participants[:i:i], a.Participants[i+1:]...)
	return true
}

func (a *Activity) participantIndex(email string) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (a Activity) Clone() Activity {
	out := a
	out.Category = cloneRef(a.Category)
	out.Date = cloneRef(a.Date)
	out.Description = cloneRef(a.Description)
	if a.Participants != nil {
		out.Participants = make([]string, len(a.Participants))
		copy(out.Participants, a.Participants)
	}
	if a.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(a.Extra))
		for k, v := range a.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// activityFields avoids recursion into the custom marshaler.
type activityFields Activity

// UnmarshalJSON decodes the typed fields by exact key and stashes every other
// key in Extra. An optional string field holding a non-string value (or null)
// is left unset and kept verbatim in Extra.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	nameRaw, ok := raw["name"]
	if !ok {
		return fmt.Errorf("activity is missing required field %q", "name")
	}
	var out Activity
	if err := json.Unmarshal(nameRaw, &out.Name); err != nil {
		return fmt.Errorf("activity field %q: %w", "name", err)
	}
	delete(raw, "name")

	out.Participants = []string{}
	if participantsRaw, ok := raw["participants"]; ok {
		var participants []string
		if err := json.Unmarshal(participantsRaw, &participants); err != nil {
			return fmt.Errorf("activity %q field %q: %w", out.Name, "participants", err)
		}
		if participants != nil {
			out.Participants = participants
		}
		delete(raw, "participants")
	}

	out.Category = takeString(raw, "category")
	out.Date = takeString(raw, "date")
	out.Description = takeString(raw, "description")

	if len(raw) > 0 {
		out.Extra = raw
	}
	*a = out
	return nil
}

// takeString removes key from raw and returns its value when it holds a JSON
// string. Any other value stays in raw.
func takeString(raw map[string]json.RawMessage, key string) *string {
	value, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil
	}
	delete(raw, key)
	return &s
}

// MarshalJSON encodes the typed fields followed by any extra attributes.
func (a Activity) MarshalJSON() ([]byte, error) {
	fields := activityFields(a)
	if fields.Participants == nil {
		fields.Participants = []string{}
	}
	base, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if len(a.Extra) == 0 {
		return base, nil
	}

	extra, err := json.Marshal(a.Extra)
	if err != nil {
		return nil, fmt.Errorf("encode extra fields: %w", err)
	}

	// Splice the two objects: {...base} + {...extra}.
	var buf bytes.Buffer
	buf.Grow(len(base) + len(extra))
	buf.Write(base[:len(base)-1])
	buf.WriteByte(',')
	buf.Write(extra[1:])
	return buf.Bytes(), nil
}

// MessageResponse is the confirmation envelope for successful mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// StringPtr is a convenience for building optional fields.
func StringPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneRef[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
