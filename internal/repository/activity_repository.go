package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(activity *model.Activity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) FindByID(id uint) (*model.Activity, error) {
	var a model.Activity
	err := r.DB.First(&a, id).Error
	return &a, err
}

// FindWithQuestions loads an activity together with its questions in display
// order. This is the read the submission engine grades against.
func (r *ActivityRepository) FindWithQuestions(id uint) (*model.Activity, error) {
	var a model.Activity
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.`order` asc, questions.created_at asc")
	}).First(&a, id).Error
	return &a, err
}

func (r *ActivityRepository) ListByLesson(lessonID uint) ([]model.Activity, error) {
	var as []model.Activity
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("`order` asc, created_at asc").Find(&as).Error
	return as, err
}

func (r *ActivityRepository) Update(activity *model.Activity) error {
	return r.DB.Save(activity).Error
}

func (r *ActivityRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Activity{}, id).Error
}

func (r *ActivityRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *ActivityRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *ActivityRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *ActivityRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}
