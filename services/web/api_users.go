package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (s Services) register(c *gin.Context) {
	body, err := bindBody[credentials](c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := s.Users.Register(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (s Services) login(c *gin.Context) {
	body, err := bindBody[credentials](c)
	if err != nil {
		fail(c, err)
		return
	}

	token, _, err := s.Users.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s Services) info(c *gin.Context) {
	user, ok := requireActor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s Services) setAvatar(c *gin.Context) {
	body, err := bindBody[struct {
		AvatarURL string `json:"avatar_url" form:"avatar_url"`
	}](c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := s.Users.SetAvatarURL(c.Request.Context(), actor(c), body.AvatarURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
