package forum

import (
	"Townhall/config"
	"Townhall/database"
	"Townhall/model"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	s        *Service
	db       database.DB
	admin    *model.User
	author   *model.User
	other    *model.User
	category *model.Category
}

func setupService(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(&config.SQLite3{File: config.SQLiteMemory}, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{s: New(db), db: db}
	f.admin = createUser(t, db, "admin", true)
	f.author = createUser(t, db, "author", false)
	f.other = createUser(t, db, "other", false)

	f.category, err = f.s.CreateCategory(context.Background(), f.admin, "General", "")
	require.NoError(t, err)
	return f
}

func createUser(t *testing.T, db database.DB, username string, admin bool) *model.User {
	t.Helper()

	user := &model.User{Username: username, PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, db().Create(user).Error)
	return user
}

func (f *fixture) topic(t *testing.T) *model.Topic {
	t.Helper()

	topic, err := f.s.CreateTopic(context.Background(), f.author, f.category.Id, "Hello", "World")
	require.NoError(t, err)
	return topic
}

func (f *fixture) reply(t *testing.T, topic *model.Topic, by *model.User) *model.Reply {
	t.Helper()

	reply, err := f.s.CreateReply(context.Background(), by, topic.Id, "a reply")
	require.NoError(t, err)
	return reply
}
