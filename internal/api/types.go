package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Label is the classifier verdict.
type Label string

const (
	LabelStrep   Label = "strep"
	LabelHealthy Label = "healthy"
)

// ParseLabel normalises a label from the wire. Unknown labels are kept lowercased.
func ParseLabel(s string) Label {
	return Label(strings.ToLower(strings.TrimSpace(s)))
}

// Positive reports whether the label indicates a likely infection.
func (l Label) Positive() bool {
	return l == LabelStrep
}

// ClassificationResult is one verdict from the analyze call.
type ClassificationResult struct {
	Label          Label
	Positive       bool
	Probability    float64 // in [0,1]; meaningful only when HasProbability
	HasProbability bool
	Timestamp      time.Time // receipt time
}

// HistoryEntry is one past analysis returned by the server.
type HistoryEntry struct {
	ID           string
	Label        Label
	Probability  *float64
	Timestamp    time.Time // zero when RawTimestamp could not be parsed
	RawTimestamp string
}

// Resource is an educational article. Content may contain HTML.
type Resource struct {
	ID      string
	Title   string
	Content string
}

// Credentials are sent to register and login.
type Credentials struct {
	Username string
	Password string
}

// LoginResult carries the session identifier issued by the server.
type LoginResult struct {
	SessionID string
}

// envelope is the loosely typed JSON object every endpoint returns.
type envelope struct {
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	Success     *bool    `json:"success"`
	SessionID   string   `json:"sessionId"`
	Prediction  string   `json:"prediction"`
	Label       string   `json:"label"`
	Probability *float64 `json:"probability"`
}

type historyItem struct {
	ID          flexibleID `json:"id"`
	Label       string     `json:"label"`
	Prediction  string     `json:"prediction"`
	Probability *float64   `json:"probability"`
	Timestamp   string     `json:"timestamp"`
}

type resourceItem struct {
	ID      flexibleID `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
}

// flexibleID accepts both numeric and string identifiers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts RFC 3339 and the zone-less forms common in Python
// backends; zone-less values are read in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
