// Package forum holds the content lifecycle of categories, topics, replies
// and votes. Every mutation runs its access checks before the first write.
package forum

import (
	. "Townhall/common"
	"Townhall/database"

	"gitlab.com/CoiaPrant/clog"
)

type Service struct {
	db database.DB
}

func New(db database.DB) *Service {
	return &Service{db: db}
}

func dbError(err error, message string) error {
	clog.Errorf("[DB] execute error: %s", err)
	return Internal(err, message)
}
