package model

import "time"

type Topic struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	Title   string `gorm:"column:title; size:255; not null; index" json:"title"`
	Content string `gorm:"column:content; not null" json:"content"`

	CategoryId int64 `gorm:"column:category_id; not null; index" json:"category_id"`
	UserId     int64 `gorm:"column:user_id; not null; index" json:"user_id"`

	IsLocked    bool   `gorm:"column:is_locked; not null" json:"is_locked"`
	BestReplyId *int64 `gorm:"column:best_reply_id" json:"best_reply_id"`

	CreatedAt time.Time `gorm:"column:created_at; not null; autoCreateTime" json:"created_at"`
}

func (*Topic) TableName() string {
	return "topics"
}

func (topic *Topic) IsBestReply(replyId int64) bool {
	return topic.BestReplyId != nil && *topic.BestReplyId == replyId
}
