package web

import (
	"Townhall/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

type lockBody struct {
	IsLocked *bool `json:"is_locked" form:"is_locked" binding:"required"`
}

type privacyBody struct {
	IsPrivate *bool `json:"is_private" form:"is_private" binding:"required"`
}

type topicBody struct {
	Title      string `json:"title" form:"title"`
	Content    string `json:"content" form:"content"`
	CategoryId int64  `json:"category_id" form:"category_id"`
}

type replyBody struct {
	Text    string `json:"text" form:"text"`
	Content string `json:"content" form:"content"`
}

// text accepts the reply under either field name.
func (b replyBody) text() string {
	if b.Text != "" {
		return b.Text
	}

	return b.Content
}

type voteBody struct {
	TypeVote model.VoteType `json:"type_vote" form:"type_vote"`
}

func (s Services) listCategories(c *gin.Context) {
	categories, err := s.Forum.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (s Services) createCategory(c *gin.Context) {
	body, err := bindBody[struct {
		Name     string `json:"name" form:"name"`
		ImageURL string `json:"image_url" form:"image_url"`
	}](c)
	if err != nil {
		fail(c, err)
		return
	}

	category, err := s.Forum.CreateCategory(c.Request.Context(), actor(c), body.Name, body.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (s Services) categoryTopics(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	var q model.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, errInvalidQuery)
		return
	}

	category, topics, err := s.Forum.CategoryTopics(c.Request.Context(), uri.Id, q)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "topics": topics})
}

func (s Services) setCategoryPrivacy(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[privacyBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	category, err := s.Forum.SetCategoryPrivacy(c.Request.Context(), actor(c), uri.Id, *body.IsPrivate)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (s Services) setCategoryLock(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[lockBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	category, err := s.Forum.SetCategoryLock(c.Request.Context(), actor(c), uri.Id, *body.IsLocked)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (s Services) listTopics(c *gin.Context) {
	var q model.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, errInvalidQuery)
		return
	}

	topics, err := s.Forum.ListTopics(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, topics)
}

func (s Services) createTopic(c *gin.Context) {
	body, err := bindBody[topicBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	topic, err := s.Forum.CreateTopic(c.Request.Context(), actor(c), body.CategoryId, body.Title, body.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, topic)
}

func (s Services) getTopic(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	details, err := s.Forum.GetTopic(c.Request.Context(), uri.Id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (s Services) setTopicLock(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[lockBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	topic, err := s.Forum.SetTopicLock(c.Request.Context(), actor(c), uri.Id, *body.IsLocked)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, topic)
}

func (s Services) createReply(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[replyBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	reply, err := s.Forum.CreateReply(c.Request.Context(), actor(c), uri.Id, body.text())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (s Services) castVote(c *gin.Context) {
	uri, err := bindURI[replyURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[voteBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	vote, err := s.Forum.CastVote(c.Request.Context(), actor(c), uri.Id, uri.ReplyId, body.TypeVote)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

func (s Services) selectBestReply(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[struct {
		ReplyId int64 `json:"reply_id" form:"reply_id" binding:"required"`
	}](c)
	if err != nil {
		fail(c, err)
		return
	}

	err = s.Forum.SelectBestReply(c.Request.Context(), actor(c), uri.Id, body.ReplyId)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
