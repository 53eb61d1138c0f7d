package config

import (
	"fmt"
	"net/url"

	sqlite "gitlab.com/CoiaPrant/gorm-sqlite"
	"gorm.io/gorm"
)

const SQLiteMemory = ":memory:"

type SQLite3 struct {
	File string

	BusyTimeout uint64
	JournalMode string

	Pool
}

func (*SQLite3) Dialect() string {
	return "sqlite3"
}

func (c *SQLite3) Open() (gorm.Dialector, error) {
	configs := make(url.Values)

	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5000
	}
	configs.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout))
	configs.Add("_pragma", "foreign_keys(1)")

	if c.File != SQLiteMemory {
		if c.JournalMode == "" {
			c.JournalMode = "WAL"
		}
		configs.Add("_pragma", fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	}

	dsn := c.File
	if args := configs.Encode(); args != "" {
		dsn += "?" + args
	}

	return sqlite.Open(dsn), nil
}

// PoolConfig pins in-memory databases to one connection, every new connection would see an empty database.
func (c *SQLite3) PoolConfig() *Pool {
	if c.File != SQLiteMemory {
		return &c.Pool
	}

	pool := c.Pool
	pool.MaxOpenConns = 1
	pool.MaxIdleConns = 1
	pool.ConnMaxLifetime = 0
	return &pool
}
