package model

import "time"

type Conversation struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	Name string `gorm:"column:name; size:255; not null" json:"name"`

	CreatedAt time.Time `gorm:"column:created_at; not null; autoCreateTime" json:"created_at"`
}

func (*Conversation) TableName() string {
	return "conversations"
}

// ConversationMember is keyed by both columns, so a user joins a conversation at most once.
type ConversationMember struct {
	ConversationId int64 `gorm:"column:conversation_id; primaryKey; not null; autoIncrement:false"`
	UserId         int64 `gorm:"column:user_id; primaryKey; not null; autoIncrement:false; index"`
}

func (*ConversationMember) TableName() string {
	return "conversation_members"
}
