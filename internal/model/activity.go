package model

type ActivityType string

const (
	ActivityQuiz ActivityType = "quiz"
	ActivityPoll ActivityType = "poll"
)

// Activity is a gradable (quiz) or opinion-only (poll) lesson unit holding
// ordered questions. The submission engine treats it as read-only input.
//
// swagger:model Activity
type Activity struct {
	BaseModel
	LessonID       uint           `gorm:"index" json:"lessonId"`
	Type           ActivityType   `gorm:"size:20;default:'quiz'" json:"type"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Order          int            `gorm:"default:0" json:"order"`
	PassingScore   int            `gorm:"default:0" json:"passingScore"` // quizzes only
	FeedbackConfig FeedbackConfig `gorm:"type:json" json:"feedbackConfig"`
	IsPublished    bool           `gorm:"default:false" json:"isPublished"`
	Questions      []Question     `gorm:"foreignKey:ActivityID" json:"questions,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}
