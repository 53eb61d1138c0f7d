package web

import (
	. "Townhall/common"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

func status(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(status(KindOf(err)), gin.H{"error": MessageOf(err)})
}

// redirect sends the client to target, carrying the failure message in ?error= when err is set.
func redirect(c *gin.Context, target string, err error) {
	if err != nil {
		target += "?" + url.Values{"error": {MessageOf(err)}}.Encode()
	}

	c.Redirect(http.StatusFound, target)
}

type idURI struct {
	Id int64 `uri:"id" binding:"required,min=1"`
}

type replyURI struct {
	Id      int64 `uri:"id" binding:"required,min=1"`
	ReplyId int64 `uri:"reply_id" binding:"required,min=1"`
}

func bindURI[T any](c *gin.Context) (T, error) {
	var uri T
	if err := c.ShouldBindUri(&uri); err != nil {
		return uri, BadRequest("Invalid ID.")
	}

	return uri, nil
}

func bindBody[T any](c *gin.Context) (T, error) {
	var body T
	if err := c.ShouldBind(&body); err != nil {
		return body, BadRequest("Invalid request body.")
	}

	return body, nil
}

var errInvalidQuery = BadRequest("Invalid query parameters.")
