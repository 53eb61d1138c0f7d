package model

import "time"

type Message struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	Text string `gorm:"column:text; not null" json:"text"`

	ConversationId int64 `gorm:"column:conversation_id; not null; index" json:"conversation_id"`
	SenderId       int64 `gorm:"column:sender_id; not null" json:"sender_id"`

	CreatedAt time.Time `gorm:"column:created_at; not null; autoCreateTime" json:"created_at"`
}

func (*Message) TableName() string {
	return "messages"
}
