package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	studentActivityKeyPrefix = "activity:student:"
	studentActivityCacheTTL  = 10 * time.Minute
)

// ContentService owns lesson/activity/question authoring and the student
// read path. The student view of an activity is cached in redis and never
// exposes answer keys or feedback texts.
type ContentService struct {
	LessonRepo   *repository.LessonRepository
	ActivityRepo *repository.ActivityRepository
	Redis        *redis.Client
	DB           *gorm.DB
}

func NewContentService(lessonRepo *repository.LessonRepository, activityRepo *repository.ActivityRepository, rdb *redis.Client, db *gorm.DB) *ContentService {
	return &ContentService{
		LessonRepo:   lessonRepo,
		ActivityRepo: activityRepo,
		Redis:        rdb,
		DB:           db,
	}
}

type LessonReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsPublished bool   `json:"isPublished"`
}

func (s *ContentService) CreateLesson(creatorID uint, req LessonReq) (*model.Lesson, error) {
	lesson := &model.Lesson{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		IsPublished: req.IsPublished,
		CreatorID:   creatorID,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) UpdateLesson(id uint, req LessonReq) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.Order = req.Order
	lesson.IsPublished = req.IsPublished
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson removes the lesson and all activities under it.
func (s *ContentService) DeleteLesson(id uint) error {
	activities, err := s.ActivityRepo.ListByLesson(id)
	if err != nil {
		return err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, a := range activities {
			if err := tx.Where("activity_id = ?", a.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Activity{}, a.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Lesson{}, id).Error
	})
	if err != nil {
		return err
	}
	for _, a := range activities {
		s.invalidateStudentActivity(a.ID)
	}
	return nil
}

func (s *ContentService) ListLessons(publishedOnly bool, page, limit int) ([]model.Lesson, int64, error) {
	return s.LessonRepo.List(publishedOnly, page, limit)
}

func (s *ContentService) GetLesson(id uint, publishedOnly bool) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindWithActivities(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if publishedOnly && !lesson.IsPublished {
		return nil, util.ErrLessonNotFound
	}
	return lesson, nil
}

type QuestionReq struct {
	QuestionType     model.QuestionType   `json:"questionType" binding:"required"`
	Prompt           string               `json:"prompt"`
	Choices          model.ChoiceConfig   `json:"choices"`
	FeedbackConfig   model.FeedbackConfig `json:"feedbackConfig"`
	HasCorrectAnswer bool                 `json:"hasCorrectAnswer"`
	IsRequired       bool                 `json:"isRequired"`
	Order            int                  `json:"order"`
}

type ActivityReq struct {
	LessonID       uint                 `json:"lessonId"`
	Type           model.ActivityType   `json:"type"`
	Title          string               `json:"title" binding:"required"`
	Description    string               `json:"description"`
	Order          int                  `json:"order"`
	PassingScore   int                  `json:"passingScore"`
	FeedbackConfig model.FeedbackConfig `json:"feedbackConfig"`
	IsPublished    bool                 `json:"isPublished"`
	Questions      []QuestionReq        `json:"questions"`
}

func (s *ContentService) CreateActivity(req ActivityReq) (*model.Activity, error) {
	if req.Type == "" {
		req.Type = model.ActivityQuiz
	}
	var created *model.Activity
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		activity := &model.Activity{
			LessonID:       req.LessonID,
			Type:           req.Type,
			Title:          req.Title,
			Description:    req.Description,
			Order:          req.Order,
			PassingScore:   req.PassingScore,
			FeedbackConfig: req.FeedbackConfig,
			IsPublished:    req.IsPublished,
		}
		if err := tx.Create(activity).Error; err != nil {
			return err
		}

		for idx, q := range req.Questions {
			order := q.Order
			if order == 0 {
				order = idx + 1
			}
			question := &model.Question{
				ActivityID:       activity.ID,
				QuestionType:     q.QuestionType,
				Prompt:           q.Prompt,
				Choices:          q.Choices,
				FeedbackConfig:   q.FeedbackConfig,
				HasCorrectAnswer: q.HasCorrectAnswer,
				IsRequired:       q.IsRequired,
				Order:            order,
			}
			if err := tx.Create(question).Error; err != nil {
				return err
			}
		}

		created = activity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ActivityRepo.FindWithQuestions(created.ID)
}

func (s *ContentService) UpdateActivity(id uint, req ActivityReq) (*model.Activity, error) {
	activity, err := s.ActivityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}

	if req.LessonID != 0 {
		activity.LessonID = req.LessonID
	}
	if req.Type != "" {
		activity.Type = req.Type
	}
	activity.Title = req.Title
	activity.Description = req.Description
	activity.Order = req.Order
	activity.PassingScore = req.PassingScore
	activity.FeedbackConfig = req.FeedbackConfig
	activity.IsPublished = req.IsPublished

	if err := s.ActivityRepo.Update(activity); err != nil {
		return nil, err
	}
	s.invalidateStudentActivity(id)
	return activity, nil
}

func (s *ContentService) DeleteActivity(id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Activity{}, id).Error
	})
	if err != nil {
		return err
	}
	s.invalidateStudentActivity(id)
	return nil
}

func (s *ContentService) GetActivity(id uint) (*model.Activity, error) {
	activity, err := s.ActivityRepo.FindWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

func (s *ContentService) AddQuestion(activityID uint, req QuestionReq) (*model.Question, error) {
	if _, err := s.ActivityRepo.FindByID(activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}

	question := &model.Question{
		ActivityID:       activityID,
		QuestionType:     req.QuestionType,
		Prompt:           req.Prompt,
		Choices:          req.Choices,
		FeedbackConfig:   req.FeedbackConfig,
		HasCorrectAnswer: req.HasCorrectAnswer,
		IsRequired:       req.IsRequired,
		Order:            req.Order,
	}
	if err := s.ActivityRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	s.invalidateStudentActivity(activityID)
	return question, nil
}

func (s *ContentService) UpdateQuestion(id uint, req QuestionReq) (*model.Question, error) {
	question, err := s.ActivityRepo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	question.QuestionType = req.QuestionType
	question.Prompt = req.Prompt
	question.Choices = req.Choices
	question.FeedbackConfig = req.FeedbackConfig
	question.HasCorrectAnswer = req.HasCorrectAnswer
	question.IsRequired = req.IsRequired
	question.Order = req.Order

	if err := s.ActivityRepo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	s.invalidateStudentActivity(question.ActivityID)
	return question, nil
}

func (s *ContentService) DeleteQuestion(id uint) error {
	question, err := s.ActivityRepo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if err := s.ActivityRepo.DeleteQuestion(id); err != nil {
		return err
	}
	s.invalidateStudentActivity(question.ActivityID)
	return nil
}

// StudentQuestion is the answer-key-free projection served to students.
type StudentQuestion struct {
	ID           uint                 `json:"id"`
	QuestionType model.QuestionType   `json:"questionType"`
	Prompt       string               `json:"prompt"`
	Options      []model.ChoiceOption `json:"options,omitempty"`
	IsRequired   bool                 `json:"isRequired"`
	Order        int                  `json:"order"`
}

type StudentActivity struct {
	ID          uint               `json:"id"`
	LessonID    uint               `json:"lessonId"`
	Type        model.ActivityType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Order       int                `json:"order"`
	Questions   []StudentQuestion  `json:"questions"`
}

// GetActivityForStudent serves the sanitized activity view, cached in redis.
// Unpublished activities are reported as not found.
func (s *ContentService) GetActivityForStudent(id uint) (*StudentActivity, error) {
	ctx := context.Background()
	key := fmt.Sprintf("%s%d", studentActivityKeyPrefix, id)

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached StudentActivity
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	activity, err := s.ActivityRepo.FindWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}
	if !activity.IsPublished {
		return nil, util.ErrActivityNotFound
	}

	view := &StudentActivity{
		ID:          activity.ID,
		LessonID:    activity.LessonID,
		Type:        activity.Type,
		Title:       activity.Title,
		Description: activity.Description,
		Order:       activity.Order,
		Questions:   make([]StudentQuestion, len(activity.Questions)),
	}
	for i, q := range activity.Questions {
		view.Questions[i] = StudentQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Prompt:       q.Prompt,
			Options:      q.Choices.Options,
			IsRequired:   q.IsRequired,
			Order:        q.Order,
		}
	}

	if s.Redis != nil {
		if data, err := json.Marshal(view); err == nil {
			if err := s.Redis.Set(ctx, key, data, studentActivityCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache student activity", zap.Uint("activityId", id), zap.Error(err))
			}
		}
	}
	return view, nil
}

func (s *ContentService) invalidateStudentActivity(id uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("%s%d", studentActivityKeyPrefix, id)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Warn("failed to invalidate activity cache", zap.Uint("activityId", id), zap.Error(err))
	}
}
