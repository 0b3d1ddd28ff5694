package model

// Program 课程项目，内容条目与报名的归属单位
// swagger:model Program
type Program struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CoverURL    string `gorm:"size:255" json:"coverUrl"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

func (Program) TableName() string {
	return "programs"
}
