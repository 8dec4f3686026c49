package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FeedbackRange maps an inclusive score interval to a feedback text.
type FeedbackRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Feedback string `json:"feedback"`
}

// FeedbackConfig holds the feedback texts for an activity or a single
// question. All fields are optional; lookups fall back to Default and then
// to the empty string. Range order is significant: the first matching range
// wins.
type FeedbackConfig struct {
	Default    string          `json:"default,omitempty"`
	Correct    string          `json:"correct,omitempty"`
	Incorrect  string          `json:"incorrect,omitempty"`
	NoResponse string          `json:"no_response,omitempty"`
	Ranges     []FeedbackRange `json:"ranges,omitempty"`
}

func (f FeedbackConfig) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FeedbackConfig) Scan(value interface{}) error {
	if value == nil {
		*f = FeedbackConfig{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into FeedbackConfig", value)
	}
}
