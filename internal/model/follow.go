package model

import "time"

// 用户 UserID 订阅作者 AuthorID, 每对最多一条
type Follow struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:unique_follow"`
	AuthorID  uint `gorm:"not null;uniqueIndex:unique_follow;index"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
