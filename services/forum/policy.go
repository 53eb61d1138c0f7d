package forum

import (
	. "Townhall/common"
	"Townhall/model"
)

func CanPost(user *model.User) error {
	if user == nil {
		return Unauthorized("Authentication required.")
	}

	return nil
}

func CanManageCategories(user *model.User) error {
	if err := CanPost(user); err != nil {
		return err
	}

	if !user.IsAdmin {
		return Unauthorized("Admin access required.")
	}

	return nil
}

// CanLockTopic allows the topic author or any admin.
func CanLockTopic(user *model.User, topic *model.Topic) error {
	if err := CanPost(user); err != nil {
		return err
	}

	if user.Id != topic.UserId && !user.IsAdmin {
		return Unauthorized("Only the topic author or an admin can lock this topic.")
	}

	return nil
}

func CanSelectBestReply(user *model.User, topic *model.Topic) error {
	if err := CanPost(user); err != nil {
		return err
	}

	if user.Id != topic.UserId {
		return Unauthorized("Only the topic author can select the best reply.")
	}

	return nil
}

func CanCreateTopicIn(category *model.Category) error {
	if category.IsLocked {
		return BadRequest("Category is locked. Cannot create new topics.")
	}

	return nil
}

func CanReplyTo(topic *model.Topic) error {
	if topic.IsLocked {
		return BadRequest("Topic is locked. Cannot accept new replies.")
	}

	return nil
}
