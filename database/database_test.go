package database

import (
	"Townhall/config"
	"Townhall/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) DB {
	t.Helper()

	db, err := Open(&config.SQLite3{File: config.SQLiteMemory}, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigratesEveryModel(t *testing.T) {
	db := openMemory(t)

	migrator := db().Migrator()
	for _, m := range Models {
		assert.True(t, migrator.HasTable(m), "missing table for %T", m)
	}

	assert.NoError(t, db.Ping(context.Background()))
}

func TestOpenWithoutConfig(t *testing.T) {
	_, err := Open(nil, false)
	assert.Error(t, err)
}

func TestVoteUniqueIndex(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, db().Create(&model.Vote{ReplyId: 1, UserId: 2, TypeVote: model.VoteUp}).Error)
	err := db().Create(&model.Vote{ReplyId: 1, UserId: 2, TypeVote: model.VoteDown}).Error
	assert.Error(t, err)

	var count int64
	require.NoError(t, db().Model(model.Vote{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMembershipUnique(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, db().Create(&model.ConversationMember{ConversationId: 1, UserId: 2}).Error)
	assert.Error(t, db().Create(&model.ConversationMember{ConversationId: 1, UserId: 2}).Error)
}
