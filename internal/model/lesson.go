package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Order       int        `gorm:"default:0" json:"order"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	CreatorID   uint       `gorm:"index" json:"creatorId"`
	Activities  []Activity `gorm:"foreignKey:LessonID" json:"activities,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
