package model

import "time"

// Post.String 截取的字符数
const postPreviewLength = 15

type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	GroupID  *uint     `gorm:"index" json:"group_id"`
	Image    string    `gorm:"type:varchar(255)" json:"image"`

	Author User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Group  *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group"`
}

func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > postPreviewLength {
		return string(runes[:postPreviewLength])
	}
	return p.Text
}
