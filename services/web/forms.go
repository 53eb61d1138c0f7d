package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	loginPage    = "/users/login"
	registerPage = "/users/register"
)

func (s Services) formRegister(c *gin.Context) {
	body, err := bindBody[credentials](c)
	if err == nil {
		_, err = s.Users.Register(c.Request.Context(), body.Username, body.Password)
	}

	if err != nil {
		redirect(c, registerPage, err)
		return
	}

	redirect(c, loginPage, nil)
}

func (s Services) formLogin(c *gin.Context) {
	body, err := bindBody[credentials](c)
	if err != nil {
		redirect(c, loginPage, err)
		return
	}

	token, _, err := s.Users.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		redirect(c, loginPage, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, 0, "/", "", false, true)
	redirect(c, "/", nil)
}

func (s Services) formLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
	redirect(c, loginPage, nil)
}

func topicPage(id int64) string {
	return fmt.Sprintf("/topics/%d", id)
}

func conversationPage(id int64) string {
	return fmt.Sprintf("/conversations/%d", id)
}

func (s Services) formCreateTopic(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		redirect(c, "/categories", err)
		return
	}

	back := fmt.Sprintf("/categories/%d", uri.Id)
	body, err := bindBody[topicBody](c)
	if err != nil {
		redirect(c, back, err)
		return
	}

	topic, err := s.Forum.CreateTopic(c.Request.Context(), actor(c), uri.Id, body.Title, body.Content)
	if err != nil {
		redirect(c, back, err)
		return
	}

	redirect(c, topicPage(topic.Id), nil)
}

// formCreateTopicIn takes the category from the form body instead of the path.
func (s Services) formCreateTopicIn(c *gin.Context) {
	body, err := bindBody[topicBody](c)
	if err != nil {
		redirect(c, "/topics", err)
		return
	}

	topic, err := s.Forum.CreateTopic(c.Request.Context(), actor(c), body.CategoryId, body.Title, body.Content)
	if err != nil {
		redirect(c, "/topics", err)
		return
	}

	redirect(c, topicPage(topic.Id), nil)
}

func (s Services) formCreateReply(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		redirect(c, "/", err)
		return
	}

	body, err := bindBody[replyBody](c)
	if err == nil {
		_, err = s.Forum.CreateReply(c.Request.Context(), actor(c), uri.Id, body.text())
	}

	redirect(c, topicPage(uri.Id), err)
}

func (s Services) formVote(c *gin.Context) {
	uri, err := bindURI[replyURI](c)
	if err != nil {
		redirect(c, "/", err)
		return
	}

	body, err := bindBody[voteBody](c)
	if err == nil {
		_, err = s.Forum.CastVote(c.Request.Context(), actor(c), uri.Id, uri.ReplyId, body.TypeVote)
	}

	redirect(c, topicPage(uri.Id), err)
}

func (s Services) formBestReply(c *gin.Context) {
	uri, err := bindURI[replyURI](c)
	if err != nil {
		redirect(c, "/", err)
		return
	}

	err = s.Forum.SelectBestReply(c.Request.Context(), actor(c), uri.Id, uri.ReplyId)
	redirect(c, topicPage(uri.Id), err)
}

func (s Services) formToggleLock(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		redirect(c, "/", err)
		return
	}

	_, err = s.Forum.ToggleTopicLock(c.Request.Context(), actor(c), uri.Id)
	redirect(c, topicPage(uri.Id), err)
}

func (s Services) formCreateConversation(c *gin.Context) {
	body, err := bindBody[conversationBody](c)
	if err != nil {
		redirect(c, "/conversations", err)
		return
	}

	conversation, err := s.Conversations.Create(c.Request.Context(), actor(c), body.Name, body.UserIds)
	if err != nil {
		redirect(c, "/conversations", err)
		return
	}

	redirect(c, conversationPage(conversation.Id), nil)
}

func (s Services) formPostMessage(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		redirect(c, "/conversations", err)
		return
	}

	body, err := bindBody[messageBody](c)
	if err == nil {
		_, err = s.Conversations.PostMessage(c.Request.Context(), actor(c), uri.Id, body.Text)
	}

	redirect(c, conversationPage(uri.Id), err)
}

func (s Services) formAddUser(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		redirect(c, "/conversations", err)
		return
	}

	body, err := bindBody[memberBody](c)
	if err == nil {
		_, err = s.Conversations.AddUser(c.Request.Context(), actor(c), uri.Id, body.Username)
	}

	redirect(c, conversationPage(uri.Id), err)
}

func (s Services) formRemoveUser(c *gin.Context) {
	uri, err := bindURI[idURI](c)
	if err != nil {
		redirect(c, "/conversations", err)
		return
	}

	body, err := bindBody[memberBody](c)
	if err == nil {
		_, err = s.Conversations.RemoveUser(c.Request.Context(), actor(c), uri.Id, body.Username)
	}

	redirect(c, conversationPage(uri.Id), err)
}
