package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuestionType is a closed set. Anything outside it is treated as
// ungradable by the evaluator rather than raising an error.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	MultipleSelect QuestionType = "multiple_select"
	TrueFalse      QuestionType = "true_false"
)

func (t QuestionType) Known() bool {
	switch t {
	case MultipleChoice, MultipleSelect, TrueFalse:
		return true
	}
	return false
}

type ChoiceOption struct {
	Value interface{} `json:"value"`
	Label string      `json:"label,omitempty"`
}

// ChoiceConfig holds a question's options and, for gradable questions, the
// answer key. CorrectAnswers is a list for multiple_choice/multiple_select
// and a plain boolean for true_false.
type ChoiceConfig struct {
	Options        []ChoiceOption `json:"options,omitempty"`
	CorrectAnswers interface{}    `json:"correct_answers,omitempty"`
}

func (c ChoiceConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ChoiceConfig) Scan(value interface{}) error {
	if value == nil {
		*c = ChoiceConfig{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ChoiceConfig", value)
	}
}

// swagger:model Question
type Question struct {
	BaseModel
	ActivityID       uint           `gorm:"index;not null" json:"activityId"`
	QuestionType     QuestionType   `gorm:"size:50;not null" json:"questionType"`
	Prompt           string         `gorm:"type:text" json:"prompt"`
	Choices          ChoiceConfig   `gorm:"type:json" json:"choices"`
	FeedbackConfig   FeedbackConfig `gorm:"type:json" json:"feedbackConfig"`
	HasCorrectAnswer bool           `gorm:"default:false" json:"hasCorrectAnswer"`
	IsRequired       bool           `gorm:"default:false" json:"isRequired"`
	Order            int            `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
