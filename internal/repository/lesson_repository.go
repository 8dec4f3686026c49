package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindWithActivities(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("activities.`order` asc, activities.created_at asc")
	}).First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) List(publishedOnly bool, page, limit int) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64

	query := r.DB.Model(&model.Lesson{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("`order` asc, created_at desc").Offset(offset).Limit(limit).Find(&lessons).Error
	return lessons, total, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}
