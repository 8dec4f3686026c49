package model

import "gorm.io/datatypes"

// UserResponse is the single response record a user has for an activity.
// The (user_id, activity_id) pair is unique: resubmissions mutate this row
// in place, no attempt history is kept.
//
// swagger:model UserResponse
type UserResponse struct {
	BaseModel
	UserID               uint                   `gorm:"not null;uniqueIndex:idx_user_activity" json:"userId"`
	ActivityID           uint                   `gorm:"not null;uniqueIndex:idx_user_activity" json:"activityId"`
	Score                *int                   `json:"score"` // nil until a complete submission has been scored
	IsComplete           bool                   `gorm:"default:false" json:"isComplete"`
	CompletionPercentage float64                `gorm:"default:0" json:"completionPercentage"`
	TimeSpent            int                    `gorm:"default:0" json:"timeSpent"` // seconds
	QuestionResponses    []UserQuestionResponse `gorm:"foreignKey:UserResponseID;constraint:OnDelete:CASCADE" json:"questionResponses,omitempty"`
}

func (UserResponse) TableName() string {
	return "user_responses"
}

// UserQuestionResponse holds one user's answer to one question. Unique per
// (user_response_id, question_id); resubmitting a question overwrites it.
// IsCorrect is nil iff the owning question has no correct answer.
//
// swagger:model UserQuestionResponse
type UserQuestionResponse struct {
	BaseModel
	UserResponseID uint           `gorm:"not null;uniqueIndex:idx_response_question" json:"userResponseId"`
	QuestionID     uint           `gorm:"not null;uniqueIndex:idx_response_question" json:"questionId"`
	ResponseData   datatypes.JSON `gorm:"type:json" json:"responseData"`
	IsCorrect      *bool          `json:"isCorrect"`
	Feedback       string         `gorm:"type:text" json:"feedback"`
	TimeSpent      int            `gorm:"default:0" json:"timeSpent"`
}

func (UserQuestionResponse) TableName() string {
	return "user_question_responses"
}
