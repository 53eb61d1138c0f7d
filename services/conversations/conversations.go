// Package conversations implements multi-user conversations. Membership gates
// every read and write of a conversation.
package conversations

import (
	. "Townhall/common"
	"Townhall/database"
	"Townhall/model"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"gitlab.com/CoiaPrant/clog"
	"gorm.io/gorm"
)

type Service struct {
	db database.DB
}

func New(db database.DB) *Service {
	return &Service{db: db}
}

type MessageView struct {
	Id        int64     `json:"id"`
	Text      string    `json:"text"`
	SenderId  int64     `json:"sender_id"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationDetails struct {
	Id       int64         `json:"id"`
	Name     string        `json:"name"`
	Members  []model.User  `json:"members"`
	Messages []MessageView `json:"messages"`
}

func dbError(err error, message string) error {
	clog.Errorf("[DB] execute error: %s", err)
	return Internal(err, message)
}

func (s *Service) findUser(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db().WithContext(ctx).Where("username", username).Limit(1).Find(&user).Error
	if err != nil {
		return nil, dbError(err, "Could not load user.")
	}

	if user.Id == 0 {
		return nil, NotFound("User '%s' not found.", username)
	}

	return &user, nil
}

// Create opens a conversation between the actor and the given users.
func (s *Service) Create(ctx context.Context, actor *model.User, name string, userIds []int64) (*model.Conversation, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required.")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("Conversation name cannot be empty.")
	}

	ids := append([]int64{actor.Id}, userIds...)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var count int64
	err := s.db().WithContext(ctx).Model(model.User{}).Where("id IN ?", ids).Count(&count).Error
	if err != nil {
		return nil, dbError(err, "Could not create conversation.")
	}

	if count != int64(len(ids)) {
		return nil, NotFound("One or more users not found.")
	}

	conversation := &model.Conversation{Name: name}
	err = s.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(conversation).Error
		if err != nil {
			return err
		}

		members := make([]model.ConversationMember, 0, len(ids))
		for _, id := range ids {
			members = append(members, model.ConversationMember{ConversationId: conversation.Id, UserId: id})
		}

		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, dbError(err, "Could not create conversation.")
	}

	clog.Infof("[Conversations] conversation %d '%s' created by %s with %d members", conversation.Id, conversation.Name, actor.Username, len(ids))
	return conversation, nil
}

func (s *Service) IsMember(ctx context.Context, userId, conversationId int64) (bool, error) {
	var count int64
	err := s.db().WithContext(ctx).Model(model.ConversationMember{}).
		Where("conversation_id", conversationId).
		Where("user_id", userId).
		Count(&count).Error
	if err != nil {
		return false, dbError(err, "Could not check membership.")
	}

	return count > 0, nil
}

// enter loads the conversation if the actor is one of its members.
func (s *Service) enter(ctx context.Context, actor *model.User, conversationId int64) (*model.Conversation, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required.")
	}

	var conversation model.Conversation
	err := s.db().WithContext(ctx).Where("id", conversationId).Limit(1).Find(&conversation).Error
	if err != nil {
		return nil, dbError(err, "Could not load conversation.")
	}

	if conversation.Id == 0 {
		return nil, NotFound("Conversation with ID '%d' not found.", conversationId)
	}

	member, err := s.IsMember(ctx, actor.Id, conversation.Id)
	if err != nil {
		return nil, err
	}

	if !member {
		return nil, Unauthorized("You are not a member of this conversation.")
	}

	return &conversation, nil
}

func (s *Service) AddUser(ctx context.Context, actor *model.User, conversationId int64, username string) (*model.Message, error) {
	conversation, err := s.enter(ctx, actor, conversationId)
	if err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	member, err := s.IsMember(ctx, user.Id, conversation.Id)
	if err != nil {
		return nil, err
	}

	if member {
		return nil, BadRequest("User '%s' is already a member of this conversation.", user.Username)
	}

	notice := &model.Message{
		Text:           "* " + actor.Username + " added " + user.Username + " to this conversation *",
		ConversationId: conversation.Id,
		SenderId:       actor.Id,
	}

	err = s.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&model.ConversationMember{ConversationId: conversation.Id, UserId: user.Id}).Error
		if err != nil {
			return err
		}

		return tx.Create(notice).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, BadRequest("User '%s' is already a member of this conversation.", user.Username)
	}

	if err != nil {
		return nil, dbError(err, "Could not add user.")
	}

	clog.Infof("[Conversations] %s added %s to conversation %d", actor.Username, user.Username, conversation.Id)
	return notice, nil
}

var errNotMember = errors.New("not a member")

func (s *Service) RemoveUser(ctx context.Context, actor *model.User, conversationId int64, username string) (*model.Message, error) {
	conversation, err := s.enter(ctx, actor, conversationId)
	if err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	notice := &model.Message{
		Text:           "* " + actor.Username + " removed " + user.Username + " from this conversation *",
		ConversationId: conversation.Id,
		SenderId:       actor.Id,
	}

	// The notice is written first so its sender is still a member when the actor leaves.
	err = s.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(notice).Error
		if err != nil {
			return err
		}

		result := tx.Where("conversation_id", conversation.Id).Where("user_id", user.Id).Delete(&model.ConversationMember{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return errNotMember
		}

		return nil
	})
	if errors.Is(err, errNotMember) {
		return nil, NotFound("User '%s' is not a member of this conversation.", user.Username)
	}

	if err != nil {
		return nil, dbError(err, "Could not remove user.")
	}

	clog.Infof("[Conversations] %s removed %s from conversation %d", actor.Username, user.Username, conversation.Id)
	return notice, nil
}

func (s *Service) PostMessage(ctx context.Context, actor *model.User, conversationId int64, text string) (*model.Message, error) {
	conversation, err := s.enter(ctx, actor, conversationId)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, BadRequest("Message text cannot be empty.")
	}

	message := &model.Message{Text: text, ConversationId: conversation.Id, SenderId: actor.Id}
	err = s.db().WithContext(ctx).Create(message).Error
	if err != nil {
		return nil, dbError(err, "Could not send message.")
	}

	return message, nil
}

// Get returns the conversation with its members and messages in posting order.
func (s *Service) Get(ctx context.Context, actor *model.User, conversationId int64) (*ConversationDetails, error) {
	conversation, err := s.enter(ctx, actor, conversationId)
	if err != nil {
		return nil, err
	}

	members := []model.User{}
	err = s.db().WithContext(ctx).
		Where("id IN (?)", s.db().WithContext(ctx).Model(model.ConversationMember{}).Select("user_id").Where("conversation_id", conversation.Id)).
		Order("username").
		Find(&members).Error
	if err != nil {
		return nil, dbError(err, "Could not load members.")
	}

	messages := []MessageView{}
	err = s.db().WithContext(ctx).
		Table("messages m").
		Select("m.id, m.text, m.sender_id, u.username AS sender, m.created_at").
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("m.conversation_id = ?", conversation.Id).
		Order("m.created_at").
		Order("m.id").
		Scan(&messages).Error
	if err != nil {
		return nil, dbError(err, "Could not load messages.")
	}

	return &ConversationDetails{
		Id:       conversation.Id,
		Name:     conversation.Name,
		Members:  members,
		Messages: messages,
	}, nil
}

// List returns the conversations of the actor, narrowed to those shared with
// containsUsername when it is set.
func (s *Service) List(ctx context.Context, actor *model.User, containsUsername string) ([]model.Conversation, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required.")
	}

	ids := []int64{actor.Id}
	if containsUsername = strings.TrimSpace(containsUsername); containsUsername != "" {
		user, err := s.findUser(ctx, containsUsername)
		if err != nil {
			return nil, err
		}

		if user.Id != actor.Id {
			ids = append(ids, user.Id)
		}
	}

	shared := s.db().WithContext(ctx).Model(model.ConversationMember{}).
		Select("conversation_id").
		Where("user_id IN ?", ids).
		Group("conversation_id").
		Having("COUNT(DISTINCT user_id) = ?", len(ids))

	conversations := []model.Conversation{}
	err := s.db().WithContext(ctx).Where("id IN (?)", shared).Order("id").Find(&conversations).Error
	if err != nil {
		return nil, dbError(err, "Could not load conversations.")
	}

	return conversations, nil
}

// DeleteAbandoned removes conversations nobody belongs to anymore, with their messages.
func (s *Service) DeleteAbandoned(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		err := tx.Model(model.Conversation{}).
			Where("NOT EXISTS (SELECT 1 FROM conversation_members cm WHERE cm.conversation_id = conversations.id)").
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			return nil
		}

		err = tx.Where("conversation_id IN ?", ids).Delete(&model.Message{}).Error
		if err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&model.Conversation{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
