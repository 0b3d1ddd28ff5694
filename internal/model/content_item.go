package model

type ContentItemType string

const (
	ContentVideo     ContentItemType = "video"
	ContentArticle   ContentItemType = "article"
	ContentWorksheet ContentItemType = "worksheet"
	ContentExercise  ContentItemType = "exercise"
)

// ContentItem 课程内容条目，目录顺序由 Order 决定
// swagger:model ContentItem
type ContentItem struct {
	BaseModel
	ProgramID   uint            `gorm:"index;type:bigint unsigned;not null" json:"programId"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Type        ContentItemType `gorm:"type:varchar(20);default:'article'" json:"type"`
	URL         string          `gorm:"size:255" json:"url"`
	Order       int             `gorm:"default:0" json:"order"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
