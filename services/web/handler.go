package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Handler serves the engine over HTTP/1.1 and cleartext HTTP/2.
func Handler(s Services) http.Handler {
	return h2c.NewHandler(&handler{gin: NewEngine(s)}, &http2.Server{})
}

type handler struct {
	gin *gin.Engine
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// unix socket peers carry no port
	if !strings.Contains(r.RemoteAddr, ":") {
		r.RemoteAddr = "127.0.0.1:0"
	}

	h.gin.ServeHTTP(w, r)
}
