package model

// Vote is unique per (reply_id, user_id); the index backs the upsert in the vote ledger.
type Vote struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	ReplyId int64 `gorm:"column:reply_id; not null; uniqueIndex:idx_votes_reply_user" json:"reply_id"`
	UserId  int64 `gorm:"column:user_id; not null; uniqueIndex:idx_votes_reply_user" json:"user_id"`

	TypeVote VoteType `gorm:"column:type_vote; size:8; not null" json:"type_vote"`
}

func (*Vote) TableName() string {
	return "votes"
}
