package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func preloadQuestionResponses(db *gorm.DB) *gorm.DB {
	return db.Order("user_question_responses.question_id asc")
}

func (r *ResponseRepository) FindByID(id uint) (*model.UserResponse, error) {
	var resp model.UserResponse
	err := r.DB.Preload("QuestionResponses", preloadQuestionResponses).First(&resp, id).Error
	return &resp, err
}

// FindByUserAndResponseID scopes the lookup to the owning user, so that a
// response belonging to someone else is indistinguishable from a missing one.
func (r *ResponseRepository) FindByUserAndResponseID(userID, id uint) (*model.UserResponse, error) {
	var resp model.UserResponse
	err := r.DB.Where("user_id = ?", userID).
		Preload("QuestionResponses", preloadQuestionResponses).
		First(&resp, id).Error
	return &resp, err
}

// ListByUser returns the user's responses, optionally narrowed to one
// activity and/or one parent lesson (AND-combined).
func (r *ResponseRepository) ListByUser(userID, activityID, lessonID uint) ([]model.UserResponse, error) {
	var rs []model.UserResponse

	query := r.DB.Model(&model.UserResponse{}).Where("user_responses.user_id = ?", userID)
	if activityID > 0 {
		query = query.Where("user_responses.activity_id = ?", activityID)
	}
	if lessonID > 0 {
		query = query.Joins("JOIN activities ON activities.id = user_responses.activity_id").
			Where("activities.lesson_id = ?", lessonID)
	}

	err := query.Preload("QuestionResponses", preloadQuestionResponses).
		Order("user_responses.updated_at desc").Find(&rs).Error
	return rs, err
}

func (r *ResponseRepository) ListByActivity(activityID uint, page, limit int) ([]model.UserResponse, int64, error) {
	var rs []model.UserResponse
	var total int64

	query := r.DB.Model(&model.UserResponse{}).Where("activity_id = ?", activityID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("QuestionResponses", preloadQuestionResponses).
		Order("updated_at desc").Offset(offset).Limit(limit).Find(&rs).Error
	return rs, total, err
}
