package forum

import (
	. "Townhall/common"
	"Townhall/model"
	"cmp"
	"context"
	"slices"
	"strings"

	"gitlab.com/CoiaPrant/clog"
)

func (s *Service) GetReply(ctx context.Context, id int64) (*model.Reply, error) {
	var reply model.Reply
	err := s.db().WithContext(ctx).Where("id", id).Limit(1).Find(&reply).Error
	if err != nil {
		return nil, dbError(err, "Could not load reply.")
	}

	if reply.Id == 0 {
		return nil, NotFound("Reply with ID '%d' not found.", id)
	}

	return &reply, nil
}

// Replies returns the replies of a topic in creation order.
func (s *Service) Replies(ctx context.Context, topicId int64) ([]model.Reply, error) {
	replies := []model.Reply{}
	err := s.db().WithContext(ctx).Where("topic_id", topicId).Order("created_at").Order("id").Find(&replies).Error
	if err != nil {
		return nil, dbError(err, "Could not load replies.")
	}

	return replies, nil
}

func (s *Service) CreateReply(ctx context.Context, actor *model.User, topicId int64, text string) (*model.Reply, error) {
	if err := CanPost(actor); err != nil {
		return nil, err
	}

	topic, err := s.findTopic(ctx, topicId)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, BadRequest("Reply text cannot be empty.")
	}

	if err := CanReplyTo(topic); err != nil {
		return nil, err
	}

	reply := &model.Reply{Text: text, TopicId: topic.Id, UserId: actor.Id}
	err = s.db().WithContext(ctx).Create(reply).Error
	if err != nil {
		return nil, dbError(err, "Could not create reply.")
	}

	clog.Debugf("[Forum] reply %d added to topic %d by %s", reply.Id, topic.Id, actor.Username)
	return reply, nil
}

// SortReplies puts the best reply first, the rest by creation time.
func SortReplies(replies []model.Reply, topic *model.Topic) {
	rank := func(r model.Reply) int {
		if topic.IsBestReply(r.Id) {
			return 0
		}
		return 1
	}

	slices.SortStableFunc(replies, func(a, b model.Reply) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
}
