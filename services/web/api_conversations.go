package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type conversationBody struct {
	Name    string  `json:"name" form:"name"`
	UserIds []int64 `json:"user_ids" form:"user_ids"`
}

type messageBody struct {
	Text string `json:"text" form:"text"`
}

type memberBody struct {
	Username string `json:"username" form:"username" binding:"required"`
}

func (s Services) listConversations(c *gin.Context) {
	conversations, err := s.Conversations.List(c.Request.Context(), actor(c), c.Query("contains_user"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (s Services) createConversation(c *gin.Context) {
	body, err := bindBody[conversationBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	conversation, err := s.Conversations.Create(c.Request.Context(), actor(c), body.Name, body.UserIds)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

func (s Services) getConversation(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	details, err := s.Conversations.Get(c.Request.Context(), actor(c), uri.Id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (s Services) postMessage(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[messageBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	message, err := s.Conversations.PostMessage(c.Request.Context(), actor(c), uri.Id, body.Text)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (s Services) addConversationUser(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[memberBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	notice, err := s.Conversations.AddUser(c.Request.Context(), actor(c), uri.Id, body.Username)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, notice)
}

func (s Services) removeConversationUser(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		fail(c, err)
		return
	}

	body, err := bindBody[memberBody](c)
	if err != nil {
		fail(c, err)
		return
	}

	notice, err := s.Conversations.RemoveUser(c.Request.Context(), actor(c), uri.Id, body.Username)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}
