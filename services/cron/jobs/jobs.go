// Package jobs holds the periodic maintenance work of the forum.
package jobs

import (
	"Townhall/database"
	"Townhall/model"
	"Townhall/services/conversations"
	"Townhall/services/cron"
	"context"

	"gitlab.com/CoiaPrant/clog"
)

func Register(s *cron.Scheduler, db database.DB, conv *conversations.Service) error {
	_, err := s.AddCron("0 0 * * *", "Conversation Cleanup", ConversationCleanup(conv))
	if err != nil {
		return err
	}

	_, err = s.AddCron("0 * * * *", "Forum Stats", ForumStats(db))
	return err
}

// ConversationCleanup drops conversations whose last member has left.
func ConversationCleanup(conv *conversations.Service) cron.Job {
	return func(ctx context.Context) error {
		deleted, err := conv.DeleteAbandoned(ctx)
		if err != nil {
			return err
		}

		clog.Debugf("[CronJob][Conversation Cleanup] removed %d conversations", deleted)
		return nil
	}
}

type Stats struct {
	Users, Topics, Replies, Votes int64
}

func CollectStats(ctx context.Context, db database.DB) (stats Stats, err error) {
	counters := []struct {
		table any
		dst   *int64
	}{
		{model.User{}, &stats.Users},
		{model.Topic{}, &stats.Topics},
		{model.Reply{}, &stats.Replies},
		{model.Vote{}, &stats.Votes},
	}

	for _, counter := range counters {
		err = db().WithContext(ctx).Model(counter.table).Count(counter.dst).Error
		if err != nil {
			return
		}
	}

	return
}

func ForumStats(db database.DB) cron.Job {
	return func(ctx context.Context) error {
		stats, err := CollectStats(ctx, db)
		if err != nil {
			return err
		}

		clog.Infof("[CronJob][Forum Stats] users: %d, topics: %d, replies: %d, votes: %d", stats.Users, stats.Topics, stats.Replies, stats.Votes)
		return nil
	}
}
