package database

import (
	"Townhall/config"
	"Townhall/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB hands out a fresh session on the shared pool; services receive it at construction.
type DB func() *gorm.DB

var Models = []any{
	model.User{},
	model.Category{},
	model.Topic{},
	model.Reply{},
	model.Vote{},
	model.Conversation{},
	model.ConversationMember{},
	model.Message{},
}

func Open(conf config.Database, debug bool) (DB, error) {
	if conf == nil {
		return nil, errors.New("no database config")
	}

	dialector, err := conf.Open()
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{Logger: logger.Discard, TranslateError: true}
	if debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	conf.PoolConfig().Apply(sqlDB)

	err = db.AutoMigrate(Models...)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db.Unscoped, nil
}

func (db DB) Ping(ctx context.Context) error {
	sqlDB, err := db().DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (db DB) Close() error {
	sqlDB, err := db().DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
