package config

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Database interface {
	Dialect() string
	Open() (gorm.Dialector, error)
	PoolConfig() *Pool
}

// Pool is embedded by every dialect config, ConnMaxLifetime is in seconds.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int64
}

func (p *Pool) PoolConfig() *Pool {
	return p
}

func (p *Pool) Apply(db *sql.DB) {
	if p == nil {
		return
	}

	if p.MaxOpenConns > 0 {
		db.SetMaxOpenConns(p.MaxOpenConns)
	}

	if p.MaxIdleConns > 0 {
		db.SetMaxIdleConns(p.MaxIdleConns)
	}

	if p.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(p.ConnMaxLifetime) * time.Second)
	}
}
