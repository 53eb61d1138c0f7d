package forum

import (
	. "Townhall/common"
	"Townhall/model"
	"context"
	"strings"

	"gitlab.com/CoiaPrant/clog"
)

type TopicDetails struct {
	Topic   model.Topic           `json:"topic"`
	Replies []model.Reply         `json:"replies"`
	Votes   map[int64]model.Tally `json:"votes"`
}

func (s *Service) ListTopics(ctx context.Context, q model.Query) ([]model.Topic, error) {
	topics := []model.Topic{}
	err := s.db().WithContext(ctx).Scopes(pageOf(q)).Find(&topics).Error
	if err != nil {
		return nil, dbError(err, "Could not load topics.")
	}

	return topics, nil
}

func (s *Service) findTopic(ctx context.Context, id int64) (*model.Topic, error) {
	var topic model.Topic
	err := s.db().WithContext(ctx).Where("id", id).Limit(1).Find(&topic).Error
	if err != nil {
		return nil, dbError(err, "Could not load topic.")
	}

	if topic.Id == 0 {
		return nil, NotFound("Topic with ID '%d' not found.", id)
	}

	return &topic, nil
}

// GetTopic returns the topic with its replies, best reply first, and their tallies.
func (s *Service) GetTopic(ctx context.Context, id int64) (*TopicDetails, error) {
	topic, err := s.findTopic(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, err := s.Replies(ctx, topic.Id)
	if err != nil {
		return nil, err
	}
	SortReplies(replies, topic)

	votes, err := s.CountVotes(ctx, topic.Id)
	if err != nil {
		return nil, err
	}

	return &TopicDetails{Topic: *topic, Replies: replies, Votes: votes}, nil
}

func (s *Service) CreateTopic(ctx context.Context, actor *model.User, categoryId int64, title, content string) (*model.Topic, error) {
	if err := CanPost(actor); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, categoryId)
	if IsNotFound(err) {
		return nil, BadRequest("Category does not exist.")
	}

	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, BadRequest("Title cannot be empty.")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, BadRequest("Content cannot be empty.")
	}

	if err := CanCreateTopicIn(category); err != nil {
		return nil, err
	}

	topic := &model.Topic{
		Title:      title,
		Content:    content,
		CategoryId: category.Id,
		UserId:     actor.Id,
	}

	err = s.db().WithContext(ctx).Create(topic).Error
	if err != nil {
		return nil, dbError(err, "Could not create topic.")
	}

	clog.Infof("[Forum] topic %d created in category %d by %s", topic.Id, category.Id, actor.Username)
	return topic, nil
}

func (s *Service) SetTopicLock(ctx context.Context, actor *model.User, id int64, locked bool) (*model.Topic, error) {
	return s.lockTopic(ctx, actor, id, func(*model.Topic) bool { return locked })
}

// ToggleTopicLock flips the lock flag of a topic.
func (s *Service) ToggleTopicLock(ctx context.Context, actor *model.User, id int64) (*model.Topic, error) {
	return s.lockTopic(ctx, actor, id, func(topic *model.Topic) bool { return !topic.IsLocked })
}

func (s *Service) lockTopic(ctx context.Context, actor *model.User, id int64, next func(*model.Topic) bool) (*model.Topic, error) {
	if err := CanPost(actor); err != nil {
		return nil, err
	}

	topic, err := s.findTopic(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CanLockTopic(actor, topic); err != nil {
		return nil, err
	}

	locked := next(topic)
	err = s.db().WithContext(ctx).Model(model.Topic{}).Where("id", id).Update("is_locked", locked).Error
	if err != nil {
		return nil, dbError(err, "Could not update topic lock status.")
	}

	clog.Infof("[Forum] topic %d is_locked=%t by %s", id, locked, actor.Username)
	return s.findTopic(ctx, id)
}

// SelectBestReply points the topic at one of its own replies, replacing any previous choice.
func (s *Service) SelectBestReply(ctx context.Context, actor *model.User, topicId, replyId int64) error {
	if err := CanPost(actor); err != nil {
		return err
	}

	topic, err := s.findTopic(ctx, topicId)
	if err != nil {
		return err
	}

	if err := CanSelectBestReply(actor, topic); err != nil {
		return err
	}

	reply, err := s.GetReply(ctx, replyId)
	if err != nil && !IsNotFound(err) {
		return err
	}

	if reply == nil || reply.TopicId != topic.Id {
		return BadRequest("Reply %d does not belong to topic %d.", replyId, topicId)
	}

	err = s.db().WithContext(ctx).Model(model.Topic{}).Where("id", topic.Id).Update("best_reply_id", reply.Id).Error
	if err != nil {
		return dbError(err, "Failed to set best reply; please try again.")
	}

	clog.Infof("[Forum] topic %d best reply set to %d", topic.Id, reply.Id)
	return nil
}
