package service

import (
	"testing"

	"elearn_backend/internal/model"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func gradableQuestion(qt model.QuestionType, correct interface{}) *model.Question {
	return &model.Question{
		QuestionType:     qt,
		Choices:          model.ChoiceConfig{CorrectAnswers: correct},
		HasCorrectAnswer: true,
		FeedbackConfig: model.FeedbackConfig{
			Default:    "Thanks",
			Correct:    "Right!",
			Incorrect:  "Wrong",
			NoResponse: "You skipped this one",
		},
	}
}

func TestEvaluateAnswer(t *testing.T) {
	tests := []struct {
		name         string
		question     *model.Question
		selected     interface{}
		wantCorrect  *bool
		wantFeedback string
	}{
		{
			name:         "multiple choice correct",
			question:     gradableQuestion(model.MultipleChoice, []interface{}{"b"}),
			selected:     "b",
			wantCorrect:  boolPtr(true),
			wantFeedback: "Right!",
		},
		{
			name:         "multiple choice incorrect",
			question:     gradableQuestion(model.MultipleChoice, []interface{}{"b"}),
			selected:     "a",
			wantCorrect:  boolPtr(false),
			wantFeedback: "Wrong",
		},
		{
			name:         "multiple choice any listed answer counts",
			question:     gradableQuestion(model.MultipleChoice, []interface{}{"a", "c"}),
			selected:     "c",
			wantCorrect:  boolPtr(true),
			wantFeedback: "Right!",
		},
		{
			name:         "numeric answers compare across int and float",
			question:     gradableQuestion(model.MultipleChoice, []interface{}{2}),
			selected:     float64(2),
			wantCorrect:  boolPtr(true),
			wantFeedback: "Right!",
		},
		{
			name:         "multiple select exact set",
			question:     gradableQuestion(model.MultipleSelect, []interface{}{"a", "c"}),
			selected:     []interface{}{"c", "a"},
			wantCorrect:  boolPtr(true),
			wantFeedback: "Right!",
		},
		{
			name:         "multiple select subset is not enough",
			question:     gradableQuestion(model.MultipleSelect, []interface{}{"a", "c"}),
			selected:     []interface{}{"a"},
			wantCorrect:  boolPtr(false),
			wantFeedback: "Wrong",
		},
		{
			name:         "multiple select superset fails too",
			question:     gradableQuestion(model.MultipleSelect, []interface{}{"a", "c"}),
			selected:     []interface{}{"a", "b", "c"},
			wantCorrect:  boolPtr(false),
			wantFeedback: "Wrong",
		},
		{
			name:         "true false correct",
			question:     gradableQuestion(model.TrueFalse, true),
			selected:     true,
			wantCorrect:  boolPtr(true),
			wantFeedback: "Right!",
		},
		{
			name:         "true false incorrect",
			question:     gradableQuestion(model.TrueFalse, true),
			selected:     false,
			wantCorrect:  boolPtr(false),
			wantFeedback: "Wrong",
		},
		{
			name:         "no answer counts as incorrect with skip feedback",
			question:     gradableQuestion(model.MultipleChoice, []interface{}{"b"}),
			selected:     nil,
			wantCorrect:  boolPtr(false),
			wantFeedback: "You skipped this one",
		},
		{
			name: "ungradable question yields nil correctness",
			question: &model.Question{
				QuestionType:     model.MultipleChoice,
				HasCorrectAnswer: false,
			},
			selected:     "a",
			wantCorrect:  nil,
			wantFeedback: "",
		},
		{
			name:         "unknown question type is ungradable",
			question:     gradableQuestion("essay", []interface{}{"b"}),
			selected:     "b",
			wantCorrect:  nil,
			wantFeedback: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCorrect, gotFeedback := EvaluateAnswer(tt.question, ResponseData{Selected: tt.selected})

			if (gotCorrect == nil) != (tt.wantCorrect == nil) {
				t.Fatalf("correctness = %v, want %v", gotCorrect, tt.wantCorrect)
			}
			if gotCorrect != nil && *gotCorrect != *tt.wantCorrect {
				t.Errorf("correctness = %v, want %v", *gotCorrect, *tt.wantCorrect)
			}
			if gotFeedback != tt.wantFeedback {
				t.Errorf("feedback = %q, want %q", gotFeedback, tt.wantFeedback)
			}
		})
	}
}

func TestEvaluateAnswerFeedbackFallsBackToDefault(t *testing.T) {
	q := gradableQuestion(model.MultipleChoice, []interface{}{"b"})
	q.FeedbackConfig = model.FeedbackConfig{Default: "Thanks"}

	if _, fb := EvaluateAnswer(q, ResponseData{Selected: "b"}); fb != "Thanks" {
		t.Errorf("correct feedback = %q, want default %q", fb, "Thanks")
	}
	if _, fb := EvaluateAnswer(q, ResponseData{Selected: "a"}); fb != "Thanks" {
		t.Errorf("incorrect feedback = %q, want default %q", fb, "Thanks")
	}
	if _, fb := EvaluateAnswer(q, ResponseData{}); fb != "Thanks" {
		t.Errorf("no-response feedback = %q, want default %q", fb, "Thanks")
	}
}

func TestAggregateScore(t *testing.T) {
	questions := map[uint]*model.Question{
		1: {BaseModel: model.BaseModel{ID: 1}, HasCorrectAnswer: true},
		2: {BaseModel: model.BaseModel{ID: 2}, HasCorrectAnswer: true},
		3: {BaseModel: model.BaseModel{ID: 3}, HasCorrectAnswer: false},
	}

	tests := []struct {
		name      string
		responses []model.UserQuestionResponse
		want      *int
	}{
		{
			name: "counts correct gradable answers",
			responses: []model.UserQuestionResponse{
				{QuestionID: 1, IsCorrect: boolPtr(true)},
				{QuestionID: 2, IsCorrect: boolPtr(false)},
				{QuestionID: 3},
			},
			want: intPtr(1),
		},
		{
			name: "all correct",
			responses: []model.UserQuestionResponse{
				{QuestionID: 1, IsCorrect: boolPtr(true)},
				{QuestionID: 2, IsCorrect: boolPtr(true)},
			},
			want: intPtr(2),
		},
		{
			name: "zero is a real score",
			responses: []model.UserQuestionResponse{
				{QuestionID: 1, IsCorrect: boolPtr(false)},
			},
			want: intPtr(0),
		},
		{
			name: "no gradable questions gives nil",
			responses: []model.UserQuestionResponse{
				{QuestionID: 3},
			},
			want: nil,
		},
		{
			name:      "empty response set gives nil",
			responses: nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateScore(tt.responses, questions)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("score = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("score = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestResolveFeedback(t *testing.T) {
	cfg := model.FeedbackConfig{
		Default: "Thanks for taking the quiz",
		Ranges: []model.FeedbackRange{
			{Min: 0, Max: 1, Feedback: "Keep practicing"},
			{Min: 2, Max: 2, Feedback: "Good job"},
			{Min: 3, Max: 3, Feedback: "Excellent"},
		},
	}

	tests := []struct {
		name  string
		score *int
		want  string
	}{
		{"low score hits first range", intPtr(1), "Keep practicing"},
		{"bounds are inclusive", intPtr(0), "Keep practicing"},
		{"middle range", intPtr(2), "Good job"},
		{"top range", intPtr(3), "Excellent"},
		{"out of every range falls back", intPtr(10), "Thanks for taking the quiz"},
		{"nil score skips ranges entirely", nil, "Thanks for taking the quiz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFeedback(cfg, tt.score); got != tt.want {
				t.Errorf("feedback = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveFeedbackFirstMatchWins(t *testing.T) {
	cfg := model.FeedbackConfig{
		Default: "default",
		Ranges: []model.FeedbackRange{
			{Min: 0, Max: 5, Feedback: "first"},
			{Min: 3, Max: 5, Feedback: "second"},
		},
	}
	if got := ResolveFeedback(cfg, intPtr(4)); got != "first" {
		t.Errorf("feedback = %q, want %q", got, "first")
	}
}
