package service

import (
	"encoding/json"
	"fmt"

	"elearn_backend/internal/model"
)

// ResponseData is the submitted payload for a single question. Selected is a
// scalar for multiple_choice, a list for multiple_select and a boolean for
// true_false. A nil Selected means the question was left unanswered.
type ResponseData struct {
	Selected interface{} `json:"selected"`
}

// EvaluateAnswer grades one submitted answer against its question. It returns
// the tri-state correctness (nil when the question is ungradable) and the
// feedback text resolved from the question's own config. It never touches
// storage; persisting the result is the submission coordinator's job.
func EvaluateAnswer(q *model.Question, data ResponseData) (*bool, string) {
	if !q.HasCorrectAnswer {
		return nil, ""
	}

	cfg := q.FeedbackConfig
	if data.Selected == nil {
		incorrect := false
		return &incorrect, fallback(cfg.NoResponse, cfg.Default)
	}

	var correct bool
	switch q.QuestionType {
	case model.MultipleChoice:
		correct = containsAnswer(q.Choices.CorrectAnswers, data.Selected)
	case model.MultipleSelect:
		correct = sameAnswerSet(q.Choices.CorrectAnswers, data.Selected)
	case model.TrueFalse:
		correct = equalAnswer(q.Choices.CorrectAnswers, data.Selected)
	default:
		// Unknown question types are ungradable, never an error: one odd
		// question must not block the rest of the submission.
		return nil, ""
	}

	if correct {
		return &correct, fallback(cfg.Correct, cfg.Default)
	}
	return &correct, fallback(cfg.Incorrect, cfg.Default)
}

// AggregateScore computes the activity-level score over a set of evaluated
// question responses: one point per gradable question answered correctly.
// It returns nil when no gradable question is present, so that polls and
// opinion-only quizzes end up with a null score rather than zero.
func AggregateScore(responses []model.UserQuestionResponse, questions map[uint]*model.Question) *int {
	gradable := 0
	score := 0
	for _, r := range responses {
		q, ok := questions[r.QuestionID]
		if !ok || !q.HasCorrectAnswer {
			continue
		}
		gradable++
		if r.IsCorrect != nil && *r.IsCorrect {
			score++
		}
	}
	if gradable == 0 {
		return nil
	}
	return &score
}

// ResolveFeedback maps a score onto the activity's ranged feedback config.
// Ranges are scanned in declaration order and the first match wins; a nil
// score or no matching range falls back to the config default.
func ResolveFeedback(cfg model.FeedbackConfig, score *int) string {
	if score != nil {
		for _, r := range cfg.Ranges {
			if r.Min <= *score && *score <= r.Max {
				return r.Feedback
			}
		}
	}
	return cfg.Default
}

func fallback(text, def string) string {
	if text != "" {
		return text
	}
	return def
}

// containsAnswer reports whether selected is a member of the correct-answer
// list.
func containsAnswer(correctAnswers, selected interface{}) bool {
	list, ok := correctAnswers.([]interface{})
	if !ok {
		return false
	}
	want := normalizeAnswer(selected)
	for _, v := range list {
		if normalizeAnswer(v) == want {
			return true
		}
	}
	return false
}

// sameAnswerSet reports exact set equality between the submitted list and the
// correct-answer list. Order is irrelevant; extra or missing entries both
// fail. There is no partial credit.
func sameAnswerSet(correctAnswers, selected interface{}) bool {
	want, ok := toAnswerSet(correctAnswers)
	if !ok {
		return false
	}
	got, ok := toAnswerSet(selected)
	if !ok {
		return false
	}
	if len(want) != len(got) {
		return false
	}
	for v := range want {
		if !got[v] {
			return false
		}
	}
	return true
}

func equalAnswer(correctAnswers, selected interface{}) bool {
	return normalizeAnswer(correctAnswers) == normalizeAnswer(selected)
}

func toAnswerSet(v interface{}) (map[interface{}]bool, bool) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	set := make(map[interface{}]bool, len(list))
	for _, e := range list {
		set[normalizeAnswer(e)] = true
	}
	return set, true
}

// normalizeAnswer maps answer values onto comparable representatives so that
// JSON-decoded numbers (always float64) compare equal to their integer
// counterparts stored in the answer key.
func normalizeAnswer(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return n.String()
		}
		return f
	case string, bool, nil:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
