// Package web exposes the forum over a JSON API under /api and a set of form
// routes answering with redirects.
package web

import (
	"Townhall/database"
	"Townhall/services/conversations"
	"Townhall/services/forum"
	"Townhall/services/users"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Services struct {
	DB            database.DB
	Users         *users.Service
	Forum         *forum.Service
	Conversations *conversations.Service
}

func NewEngine(s Services) (router *gin.Engine) {
	router = gin.New()
	router.SetTrustedProxies([]string{"0.0.0.0/0", "::/0"})

	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}

	router.Use(gin.Recovery())

	router.GET("/healthz", s.health)

	api := router.Group("/api", s.identify)
	{
		api.POST("/users/register", s.register)
		api.POST("/users/login", s.login)
		api.GET("/users/info", s.info)
		api.PATCH("/users/avatar", s.setAvatar)

		api.GET("/categories", s.listCategories)
		api.POST("/categories", s.createCategory)
		api.GET("/categories/:id/topics", s.categoryTopics)
		api.PATCH("/categories/:id/privacy", s.setCategoryPrivacy)
		api.PATCH("/categories/:id/lock", s.setCategoryLock)

		api.GET("/topics", s.listTopics)
		api.POST("/topics", s.createTopic)
		api.GET("/topics/:id", s.getTopic)
		api.PATCH("/topics/:id/lock", s.setTopicLock)
		api.POST("/topics/:id/replies", s.createReply)
		api.POST("/topics/:id/replies/:reply_id/votes", s.castVote)
		api.POST("/topics/:id/best", s.selectBestReply)

		api.GET("/conversations", s.listConversations)
		api.POST("/conversations", s.createConversation)
		api.GET("/conversations/:id", s.getConversation)
		api.POST("/conversations/:id", s.postMessage)
		api.PUT("/conversations/:id/users", s.addConversationUser)
		api.DELETE("/conversations/:id/users", s.removeConversationUser)
	}

	router.POST("/users/register", s.formRegister)
	router.POST("/users/login", s.formLogin)
	router.POST("/users/logout", s.formLogout)

	forms := router.Group("", s.session)
	{
		forms.POST("/categories/:id/topics", s.formCreateTopic)
		forms.POST("/topics/create", s.formCreateTopicIn)
		forms.POST("/topics/:id/replies", s.formCreateReply)
		forms.POST("/topics/:id/vote/:reply_id", s.formVote)
		forms.POST("/topics/:id/best-reply/:reply_id", s.formBestReply)
		forms.POST("/topics/:id/toggle-lock", s.formToggleLock)
		forms.POST("/conversations", s.formCreateConversation)
		forms.POST("/conversations/:id", s.formPostMessage)
		forms.POST("/conversations/:id/add_user", s.formAddUser)
		forms.POST("/conversations/:id/remove_user", s.formRemoveUser)
	}

	return
}

func (s Services) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.DB.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
