package web

import (
	. "Townhall/common"
	"Townhall/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	tokenHeader = "u-token"
	tokenCookie = "token"
	actorKey    = "actor"
)

func bearerToken(c *gin.Context) string {
	if token := c.GetHeader(tokenHeader); token != "" {
		return token
	}

	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// identify resolves the API caller; anonymous requests pass through and a bad token is rejected.
func (s Services) identify(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.Next()
		return
	}

	user, err := s.Users.Authenticate(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		c.Abort()
		return
	}

	c.Set(actorKey, user)
	c.Next()
}

// session resolves the form caller from the token cookie and sends anonymous callers to the login page.
func (s Services) session(c *gin.Context) {
	token, err := c.Cookie(tokenCookie)
	if err == nil && token != "" {
		user, err := s.Users.Authenticate(c.Request.Context(), token)
		if err == nil {
			c.Set(actorKey, user)
			c.Next()
			return
		}
	}

	c.Redirect(http.StatusFound, "/users/login")
	c.Abort()
}

func actor(c *gin.Context) *model.User {
	user, _ := c.Get(actorKey)
	u, _ := user.(*model.User)
	return u
}

func requireActor(c *gin.Context) (*model.User, bool) {
	user := actor(c)
	if user == nil {
		fail(c, Unauthorized("Authentication required."))
		return nil, false
	}

	return user, true
}
