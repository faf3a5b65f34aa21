package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PlanetWars/internal/shared/transport"
	"PlanetWars/modules/kit/logx"
)

// AccessLog 每个请求一条访问日志。handler 没写业务码时按 HTTP 状态推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := c.Request.Method + " " + route(c)
		ctx := transport.Begin(c.Request.Context(), action)
		if id := c.Param("id"); id != "" {
			transport.SetRoom(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if _, ok := transport.CodeOf(ctx); !ok {
			transport.Result(ctx, statusCode(c.Writer.Status()), nil)
		}
		transport.Finish(ctx, log)
	}
}

func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func statusCode(status int) int {
	switch {
	case status < http.StatusBadRequest:
		return transport.OK
	case status == http.StatusNotFound:
		return transport.NotFound
	case status < http.StatusInternalServerError:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}
