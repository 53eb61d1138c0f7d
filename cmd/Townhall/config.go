package main

import (
	"Townhall/config"
	"Townhall/model"
	"errors"
)

type Config struct {
	Web struct {
		Type      string
		Listen    string
		Cert, Key string
	}

	Database DatabaseConfig

	Auth model.AuthConfig

	Security struct {
		InsecureSkipVerify bool
	}

	Proxy string
}

type DatabaseConfig struct {
	Type string // sqlite3, mysql, postgres, oracle

	SQLite3  *config.SQLite3
	MySQL    *config.MySQL
	Postgres *config.Postgres
	Oracle   *config.Oracle
}

func (c *DatabaseConfig) Select() (config.Database, error) {
	var dbConf config.Database

	switch c.Type {
	case "sqlite3":
		if c.SQLite3 != nil {
			dbConf = c.SQLite3
		}
	case "mysql":
		if c.MySQL != nil {
			dbConf = c.MySQL
		}
	case "postgres":
		if c.Postgres != nil {
			dbConf = c.Postgres
		}
	case "oracle":
		if c.Oracle != nil {
			dbConf = c.Oracle
		}
	default:
		return nil, errors.New("unknown database type")
	}

	if dbConf == nil {
		return nil, errors.New("bad database config")
	}

	return dbConf, nil
}
