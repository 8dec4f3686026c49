package service

import (
	"encoding/json"
	"errors"

	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionService coordinates a full answer submission: validation,
// idempotent upsert of the response row, per-question grading, score
// aggregation and feedback resolution. All writes of one Submit call share a
// single transaction, so a failure anywhere leaves no partial state behind.
type SubmissionService struct {
	ActivityRepo *repository.ActivityRepository
	ResponseRepo *repository.ResponseRepository
	DB           *gorm.DB
}

func NewSubmissionService(activityRepo *repository.ActivityRepository, responseRepo *repository.ResponseRepository, db *gorm.DB) *SubmissionService {
	return &SubmissionService{
		ActivityRepo: activityRepo,
		ResponseRepo: responseRepo,
		DB:           db,
	}
}

type QuestionResponseReq struct {
	QuestionID   uint         `json:"questionId" binding:"required"`
	ResponseData ResponseData `json:"responseData"`
	TimeSpent    int          `json:"timeSpent"`
}

type SubmitRequest struct {
	IsComplete        *bool                 `json:"isComplete"` // nil defaults to true
	TimeSpent         int                   `json:"timeSpent"`
	QuestionResponses []QuestionResponseReq `json:"questionResponses"`
}

// SubmitResult carries the persisted response plus the ephemeral
// activity-level feedback, which is returned once and never stored.
type SubmitResult struct {
	Response *model.UserResponse `json:"response"`
	Feedback string              `json:"feedback"`
}

// Submit processes a partial or complete submission for one activity.
//
// A user has at most one UserResponse per activity; repeated submissions
// mutate that row. Question responses are overwritten per question, never
// appended. A complete submission is scored over every question response
// attached to the row, including ones saved by earlier partial calls.
//
// A partial submission arriving after a complete one leaves the previously
// computed score in place. That matches the long-standing behavior of the
// platform; do not "fix" it here without a product decision.
func (s *SubmissionService) Submit(userID, activityID uint, req SubmitRequest) (*SubmitResult, error) {
	activity, err := s.ActivityRepo.FindWithQuestions(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}

	isComplete := req.IsComplete == nil || *req.IsComplete

	questionsByID := make(map[uint]*model.Question, len(activity.Questions))
	for i := range activity.Questions {
		questionsByID[activity.Questions[i].ID] = &activity.Questions[i]
	}

	// Validate the whole batch before any write. Validation failures must
	// leave zero rows behind, so everything below runs ahead of the
	// transaction.
	answered := make(map[uint]bool, len(req.QuestionResponses))
	for _, qr := range req.QuestionResponses {
		if answered[qr.QuestionID] {
			return nil, util.NewValidationError("duplicate question %d in submission", qr.QuestionID)
		}
		answered[qr.QuestionID] = true

		q, ok := questionsByID[qr.QuestionID]
		if !ok {
			return nil, util.ErrQuestionNotFound
		}
		if err := validateResponseShape(q, qr.ResponseData); err != nil {
			return nil, err
		}
	}

	if isComplete {
		var missing []int
		for i := range activity.Questions {
			q := &activity.Questions[i]
			if q.IsRequired && !answered[q.ID] {
				missing = append(missing, q.Order)
			}
		}
		if len(missing) > 0 {
			return nil, util.NewMissingRequiredError(missing)
		}
	}

	var responseID uint
	var feedback string

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		response, err := upsertUserResponse(tx, userID, activity.ID)
		if err != nil {
			return err
		}

		// Completeness is monotonic: a later partial submission does not
		// clear the flag.
		if isComplete && !response.IsComplete {
			response.IsComplete = true
		}
		response.TimeSpent += req.TimeSpent
		if err := tx.Save(response).Error; err != nil {
			return err
		}

		for _, qr := range req.QuestionResponses {
			if err := upsertQuestionResponse(tx, response.ID, questionsByID[qr.QuestionID], qr); err != nil {
				return err
			}
		}

		// Reload every question response attached to this row: earlier
		// partial submissions count toward score and completion too.
		var all []model.UserQuestionResponse
		if err := tx.Where("user_response_id = ?", response.ID).Find(&all).Error; err != nil {
			return err
		}

		if isComplete {
			if score := AggregateScore(all, questionsByID); score != nil {
				response.Score = score
			}
			response.CompletionPercentage = 100.0
			feedback = ResolveFeedback(activity.FeedbackConfig, response.Score)
		} else {
			response.CompletionPercentage = 0
			if len(activity.Questions) > 0 {
				response.CompletionPercentage = float64(len(all)) / float64(len(activity.Questions)) * 100
			}
			feedback = ""
		}

		if err := tx.Save(response).Error; err != nil {
			return err
		}
		responseID = response.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	response, err := s.ResponseRepo.FindByID(responseID)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Response: response, Feedback: feedback}, nil
}

// upsertUserResponse finds or creates the single response row for
// (user, activity). Two requests racing on the first submission are
// serialized by the unique index: the loser's insert fails with a duplicate
// key error and is retried as a plain lookup.
func upsertUserResponse(tx *gorm.DB, userID, activityID uint) (*model.UserResponse, error) {
	response := model.UserResponse{UserID: userID, ActivityID: activityID}
	err := tx.Where("user_id = ? AND activity_id = ?", userID, activityID).
		FirstOrCreate(&response).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		err = tx.Where("user_id = ? AND activity_id = ?", userID, activityID).
			First(&response).Error
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// upsertQuestionResponse creates or overwrites the single row for
// (response, question), grading the submitted answer as it goes.
func upsertQuestionResponse(tx *gorm.DB, responseID uint, q *model.Question, req QuestionResponseReq) error {
	var qr model.UserQuestionResponse
	err := tx.Where("user_response_id = ? AND question_id = ?", responseID, req.QuestionID).
		First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		qr = model.UserQuestionResponse{UserResponseID: responseID, QuestionID: req.QuestionID}
	} else if err != nil {
		return err
	}

	payload, err := json.Marshal(req.ResponseData)
	if err != nil {
		return err
	}
	qr.ResponseData = datatypes.JSON(payload)

	isCorrect, fb := EvaluateAnswer(q, req.ResponseData)
	qr.IsCorrect = isCorrect
	qr.Feedback = fb
	qr.TimeSpent = req.TimeSpent

	return tx.Save(&qr).Error
}

// validateResponseShape rejects payloads whose multiplicity does not match
// the question type: lists belong to multiple_select only. A nil selection
// is always acceptable; the evaluator turns it into an incorrect answer with
// no-response feedback.
func validateResponseShape(q *model.Question, data ResponseData) error {
	if data.Selected == nil {
		return nil
	}
	_, isList := data.Selected.([]interface{})
	switch q.QuestionType {
	case model.MultipleSelect:
		if !isList {
			return util.NewValidationError("question %d expects a list of selected values", q.ID)
		}
	case model.MultipleChoice, model.TrueFalse:
		if isList {
			return util.NewValidationError("question %d expects a single selected value", q.ID)
		}
	}
	return nil
}
