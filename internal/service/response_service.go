package service

import (
	"errors"

	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"

	"gorm.io/gorm"
)

// ResponseService is the read side of the submission engine: listing and
// detailing a user's prior responses.
type ResponseService struct {
	Repo *repository.ResponseRepository
}

func NewResponseService(repo *repository.ResponseRepository) *ResponseService {
	return &ResponseService{Repo: repo}
}

// ResponseFilters narrows a listing; zero values mean "no filter". Both
// filters combine with AND.
type ResponseFilters struct {
	ActivityID uint
	LessonID   uint
}

func (s *ResponseService) ListResponses(userID uint, filters ResponseFilters) ([]model.UserResponse, error) {
	return s.Repo.ListByUser(userID, filters.ActivityID, filters.LessonID)
}

// GetResponseDetail returns one of the caller's responses. A response owned
// by a different user is reported as not found, not forbidden: ownership is
// not distinguishable from non-existence to the caller.
func (s *ResponseService) GetResponseDetail(userID, responseID uint) (*model.UserResponse, error) {
	resp, err := s.Repo.FindByUserAndResponseID(userID, responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResponseNotFound
		}
		return nil, err
	}
	return resp, nil
}

// ListActivityResponses is the teacher-facing listing of every user's
// response to one activity.
func (s *ResponseService) ListActivityResponses(activityID uint, page, limit int) ([]model.UserResponse, int64, error) {
	return s.Repo.ListByActivity(activityID, page, limit)
}
