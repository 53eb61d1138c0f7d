package forum

import (
	. "Townhall/common"
	"Townhall/model"
	"context"

	"gitlab.com/CoiaPrant/clog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CastVote records the actor's vote on a reply. Re-voting the same type keeps
// the row, voting the other type flips it; the upsert is a single statement.
func (s *Service) CastVote(ctx context.Context, actor *model.User, topicId, replyId int64, voteType model.VoteType) (*model.Vote, error) {
	if err := CanPost(actor); err != nil {
		return nil, err
	}

	if !voteType.Valid() {
		return nil, BadRequest("Vote type must be '%s' or '%s'.", model.VoteUp, model.VoteDown)
	}

	topic, err := s.findTopic(ctx, topicId)
	if err != nil {
		return nil, err
	}

	reply, err := s.GetReply(ctx, replyId)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	if reply == nil || reply.TopicId != topic.Id {
		return nil, BadRequest("Reply %d does not belong to topic %d.", replyId, topicId)
	}

	var vote model.Vote
	err = s.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reply_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type_vote"}),
		}).Create(&model.Vote{ReplyId: reply.Id, UserId: actor.Id, TypeVote: voteType}).Error
		if err != nil {
			return err
		}

		return tx.Where("reply_id", reply.Id).Where("user_id", actor.Id).Take(&vote).Error
	})
	if err != nil {
		return nil, dbError(err, "Could not save vote.")
	}

	clog.Debugf("[Forum] %s voted %s on reply %d", actor.Username, vote.TypeVote, reply.Id)
	return &vote, nil
}

type tallyRow struct {
	ReplyId int64
	Up      int64
	Down    int64
}

// CountVotes tallies every reply of a topic, replies without votes count zero.
func (s *Service) CountVotes(ctx context.Context, topicId int64) (map[int64]model.Tally, error) {
	var rows []tallyRow
	err := s.db().WithContext(ctx).
		Table("replies r").
		Select(`r.id AS reply_id,
			SUM(CASE WHEN v.type_vote = ? THEN 1 ELSE 0 END) AS up,
			SUM(CASE WHEN v.type_vote = ? THEN 1 ELSE 0 END) AS down`, model.VoteUp, model.VoteDown).
		Joins("LEFT JOIN votes v ON v.reply_id = r.id").
		Where("r.topic_id = ?", topicId).
		Group("r.id").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "Could not count votes.")
	}

	tallies := make(map[int64]model.Tally, len(rows))
	for _, row := range rows {
		tallies[row.ReplyId] = model.Tally{Up: row.Up, Down: row.Down}
	}

	return tallies, nil
}
