package model

import "time"

type Reply struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	Text string `gorm:"column:text; not null" json:"text"`

	TopicId int64 `gorm:"column:topic_id; not null; index" json:"topic_id"`
	UserId  int64 `gorm:"column:user_id; not null; index" json:"user_id"`

	CreatedAt time.Time `gorm:"column:created_at; not null; autoCreateTime" json:"created_at"`
}

func (*Reply) TableName() string {
	return "replies"
}
