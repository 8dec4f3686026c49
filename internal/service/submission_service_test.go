package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.Lesson{},
		&model.Activity{},
		&model.Question{},
		&model.UserResponse{},
		&model.UserQuestionResponse{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSubmissionService(db *gorm.DB) *SubmissionService {
	return NewSubmissionService(
		repository.NewActivityRepository(db),
		repository.NewResponseRepository(db),
		db,
	)
}

// seedQuizActivity builds a published quiz with three gradable questions and
// one poll-style question. Question one is required.
func seedQuizActivity(t *testing.T, db *gorm.DB) *model.Activity {
	t.Helper()

	activity := &model.Activity{
		Type:        model.ActivityQuiz,
		Title:       "Chapter 1 quiz",
		IsPublished: true,
		FeedbackConfig: model.FeedbackConfig{
			Default: "Thanks for taking the quiz",
			Ranges: []model.FeedbackRange{
				{Min: 0, Max: 1, Feedback: "Keep practicing"},
				{Min: 2, Max: 2, Feedback: "Good job"},
				{Min: 3, Max: 3, Feedback: "Excellent"},
			},
		},
	}
	if err := db.Create(activity).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}

	questions := []model.Question{
		{
			ActivityID:       activity.ID,
			QuestionType:     model.MultipleChoice,
			Prompt:           "Pick b",
			Choices:          model.ChoiceConfig{CorrectAnswers: []interface{}{"b"}},
			FeedbackConfig:   model.FeedbackConfig{Correct: "Right!", Incorrect: "Wrong"},
			HasCorrectAnswer: true,
			IsRequired:       true,
			Order:            1,
		},
		{
			ActivityID:       activity.ID,
			QuestionType:     model.MultipleSelect,
			Prompt:           "Pick a and c",
			Choices:          model.ChoiceConfig{CorrectAnswers: []interface{}{"a", "c"}},
			HasCorrectAnswer: true,
			Order:            2,
		},
		{
			ActivityID:       activity.ID,
			QuestionType:     model.TrueFalse,
			Prompt:           "The sky is blue",
			Choices:          model.ChoiceConfig{CorrectAnswers: true},
			HasCorrectAnswer: true,
			Order:            3,
		},
		{
			ActivityID:   activity.ID,
			QuestionType: model.MultipleChoice,
			Prompt:       "Favorite topic?",
			Order:        4,
		},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	activity.Questions = questions
	return activity
}

func questionByOrder(a *model.Activity, order int) *model.Question {
	for i := range a.Questions {
		if a.Questions[i].Order == order {
			return &a.Questions[i]
		}
	}
	return nil
}

func TestSubmitCompleteGradesAndScores(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)

	req := SubmitRequest{
		TimeSpent: 120,
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 1).ID, ResponseData: ResponseData{Selected: "b"}},
			{QuestionID: questionByOrder(activity, 2).ID, ResponseData: ResponseData{Selected: []interface{}{"a", "c"}}},
			{QuestionID: questionByOrder(activity, 3).ID, ResponseData: ResponseData{Selected: false}},
			{QuestionID: questionByOrder(activity, 4).ID, ResponseData: ResponseData{Selected: "go"}},
		},
	}

	result, err := svc.Submit(7, activity.ID, req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resp := result.Response
	if !resp.IsComplete {
		t.Error("response should be complete")
	}
	if resp.Score == nil || *resp.Score != 2 {
		t.Errorf("score = %v, want 2", resp.Score)
	}
	if resp.CompletionPercentage != 100.0 {
		t.Errorf("completion = %v, want 100", resp.CompletionPercentage)
	}
	if resp.TimeSpent != 120 {
		t.Errorf("timeSpent = %d, want 120", resp.TimeSpent)
	}
	if result.Feedback != "Good job" {
		t.Errorf("feedback = %q, want %q", result.Feedback, "Good job")
	}
	if len(resp.QuestionResponses) != 4 {
		t.Fatalf("question responses = %d, want 4", len(resp.QuestionResponses))
	}

	for _, qr := range resp.QuestionResponses {
		switch qr.QuestionID {
		case questionByOrder(activity, 1).ID:
			if qr.IsCorrect == nil || !*qr.IsCorrect {
				t.Error("question 1 should be correct")
			}
			if qr.Feedback != "Right!" {
				t.Errorf("question 1 feedback = %q, want %q", qr.Feedback, "Right!")
			}
		case questionByOrder(activity, 3).ID:
			if qr.IsCorrect == nil || *qr.IsCorrect {
				t.Error("question 3 should be incorrect")
			}
		case questionByOrder(activity, 4).ID:
			if qr.IsCorrect != nil {
				t.Error("poll question should have nil correctness")
			}
		}
	}
}

func TestSubmitResubmissionMutatesSameRow(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)
	q1 := questionByOrder(activity, 1)

	first := SubmitRequest{
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: q1.ID, ResponseData: ResponseData{Selected: "a"}},
		},
	}
	r1, err := svc.Submit(7, activity.ID, first)
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	second := SubmitRequest{
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: q1.ID, ResponseData: ResponseData{Selected: "b"}},
		},
	}
	r2, err := svc.Submit(7, activity.ID, second)
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	if r1.Response.ID != r2.Response.ID {
		t.Errorf("response row changed: %d then %d", r1.Response.ID, r2.Response.ID)
	}

	var responseCount int64
	db.Model(&model.UserResponse{}).Count(&responseCount)
	if responseCount != 1 {
		t.Errorf("user responses = %d, want 1", responseCount)
	}

	var qrCount int64
	db.Model(&model.UserQuestionResponse{}).Where("question_id = ?", q1.ID).Count(&qrCount)
	if qrCount != 1 {
		t.Errorf("question responses = %d, want 1 (overwrite, not append)", qrCount)
	}

	if r2.Response.Score == nil || *r2.Response.Score != 1 {
		t.Errorf("score after resubmission = %v, want 1", r2.Response.Score)
	}
}

func TestSubmitMissingRequiredLeavesNothingBehind(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)

	req := SubmitRequest{
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 2).ID, ResponseData: ResponseData{Selected: []interface{}{"a"}}},
		},
	}

	_, err := svc.Submit(7, activity.ID, req)
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(ve.Error(), "1") {
		t.Errorf("error %q should name the missing question order 1", ve.Error())
	}

	var count int64
	db.Model(&model.UserResponse{}).Count(&count)
	if count != 0 {
		t.Errorf("user responses = %d, want 0 after rejected submission", count)
	}
	db.Model(&model.UserQuestionResponse{}).Count(&count)
	if count != 0 {
		t.Errorf("question responses = %d, want 0 after rejected submission", count)
	}
}

func TestSubmitPartialTracksCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)

	partial := false
	req := SubmitRequest{
		IsComplete: &partial,
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 2).ID, ResponseData: ResponseData{Selected: []interface{}{"a", "c"}}},
		},
	}

	result, err := svc.Submit(7, activity.ID, req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resp := result.Response
	if resp.IsComplete {
		t.Error("partial submission must not mark the response complete")
	}
	if resp.Score != nil {
		t.Errorf("score = %v, want nil before completion", resp.Score)
	}
	if resp.CompletionPercentage != 25.0 {
		t.Errorf("completion = %v, want 25", resp.CompletionPercentage)
	}
	if result.Feedback != "" {
		t.Errorf("feedback = %q, want empty for partial submission", result.Feedback)
	}
}

func TestSubmitPartialThenCompleteScoresEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)

	partial := false
	_, err := svc.Submit(7, activity.ID, SubmitRequest{
		IsComplete: &partial,
		TimeSpent:  30,
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 2).ID, ResponseData: ResponseData{Selected: []interface{}{"a", "c"}}},
		},
	})
	if err != nil {
		t.Fatalf("partial Submit: %v", err)
	}

	result, err := svc.Submit(7, activity.ID, SubmitRequest{
		TimeSpent: 60,
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 1).ID, ResponseData: ResponseData{Selected: "b"}},
			{QuestionID: questionByOrder(activity, 3).ID, ResponseData: ResponseData{Selected: true}},
		},
	})
	if err != nil {
		t.Fatalf("complete Submit: %v", err)
	}

	resp := result.Response
	// The earlier partial answer counts toward the final score.
	if resp.Score == nil || *resp.Score != 3 {
		t.Errorf("score = %v, want 3", resp.Score)
	}
	if resp.TimeSpent != 90 {
		t.Errorf("timeSpent = %d, want accumulated 90", resp.TimeSpent)
	}
	if result.Feedback != "Excellent" {
		t.Errorf("feedback = %q, want %q", result.Feedback, "Excellent")
	}
}

func TestSubmitPartialAfterCompleteKeepsScoreAndFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)

	_, err := svc.Submit(7, activity.ID, SubmitRequest{
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 1).ID, ResponseData: ResponseData{Selected: "b"}},
			{QuestionID: questionByOrder(activity, 2).ID, ResponseData: ResponseData{Selected: []interface{}{"a", "c"}}},
		},
	})
	if err != nil {
		t.Fatalf("complete Submit: %v", err)
	}

	partial := false
	result, err := svc.Submit(7, activity.ID, SubmitRequest{
		IsComplete: &partial,
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 1).ID, ResponseData: ResponseData{Selected: "a"}},
		},
	})
	if err != nil {
		t.Fatalf("partial Submit: %v", err)
	}

	resp := result.Response
	if !resp.IsComplete {
		t.Error("completeness is monotonic, a later partial must not clear it")
	}
	// The stale score stays in place until the next complete submission.
	if resp.Score == nil || *resp.Score != 2 {
		t.Errorf("score = %v, want the previously computed 2", resp.Score)
	}
}

func TestSubmitPollHasNullScore(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)

	activity := &model.Activity{
		Type:           model.ActivityPoll,
		Title:          "Course feedback",
		IsPublished:    true,
		FeedbackConfig: model.FeedbackConfig{Default: "Thanks for your input"},
	}
	if err := db.Create(activity).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}
	q := &model.Question{
		ActivityID:   activity.ID,
		QuestionType: model.MultipleChoice,
		Prompt:       "How was the course?",
		Order:        1,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}

	result, err := svc.Submit(7, activity.ID, SubmitRequest{
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: q.ID, ResponseData: ResponseData{Selected: "great"}},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.Response.Score != nil {
		t.Errorf("score = %v, want nil for a poll", result.Response.Score)
	}
	if result.Feedback != "Thanks for your input" {
		t.Errorf("feedback = %q, want the default", result.Feedback)
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)
	q1 := questionByOrder(activity, 1)

	t.Run("unknown activity", func(t *testing.T) {
		_, err := svc.Submit(7, 9999, SubmitRequest{})
		if !errors.Is(err, util.ErrActivityNotFound) {
			t.Errorf("err = %v, want ErrActivityNotFound", err)
		}
	})

	t.Run("unknown question", func(t *testing.T) {
		_, err := svc.Submit(7, activity.ID, SubmitRequest{
			QuestionResponses: []QuestionResponseReq{
				{QuestionID: 9999, ResponseData: ResponseData{Selected: "b"}},
			},
		})
		if !errors.Is(err, util.ErrQuestionNotFound) {
			t.Errorf("err = %v, want ErrQuestionNotFound", err)
		}
	})

	t.Run("duplicate question in batch", func(t *testing.T) {
		_, err := svc.Submit(7, activity.ID, SubmitRequest{
			QuestionResponses: []QuestionResponseReq{
				{QuestionID: q1.ID, ResponseData: ResponseData{Selected: "b"}},
				{QuestionID: q1.ID, ResponseData: ResponseData{Selected: "a"}},
			},
		})
		var ve *util.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})

	t.Run("list payload on a single-choice question", func(t *testing.T) {
		_, err := svc.Submit(7, activity.ID, SubmitRequest{
			QuestionResponses: []QuestionResponseReq{
				{QuestionID: q1.ID, ResponseData: ResponseData{Selected: []interface{}{"b"}}},
			},
		})
		var ve *util.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})

	t.Run("scalar payload on a multi-select question", func(t *testing.T) {
		_, err := svc.Submit(7, activity.ID, SubmitRequest{
			QuestionResponses: []QuestionResponseReq{
				{QuestionID: questionByOrder(activity, 2).ID, ResponseData: ResponseData{Selected: "a"}},
			},
		})
		var ve *util.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}

func TestSubmitSkippedQuestionGetsNoResponseFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	activity := seedQuizActivity(t, db)
	q2 := questionByOrder(activity, 2)

	// Explicit nil answer to an optional gradable question.
	result, err := svc.Submit(7, activity.ID, SubmitRequest{
		QuestionResponses: []QuestionResponseReq{
			{QuestionID: questionByOrder(activity, 1).ID, ResponseData: ResponseData{Selected: "b"}},
			{QuestionID: q2.ID, ResponseData: ResponseData{Selected: nil}},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for _, qr := range result.Response.QuestionResponses {
		if qr.QuestionID == q2.ID {
			if qr.IsCorrect == nil || *qr.IsCorrect {
				t.Error("skipped gradable question must be marked incorrect")
			}
		}
	}
	if result.Response.Score == nil || *result.Response.Score != 1 {
		t.Errorf("score = %v, want 1", result.Response.Score)
	}
}
