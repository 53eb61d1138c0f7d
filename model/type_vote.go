package model

import (
	"database/sql/driver"

	"gorm.io/gorm/schema"
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

func (VoteType) GormDataType() string {
	return string(schema.String)
}

func (v VoteType) Value() (driver.Value, error) {
	return string(v), nil
}

// Tally is the per-reply vote count.
type Tally struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}
