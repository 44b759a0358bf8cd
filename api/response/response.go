package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cost-navigator/types"
)

type Response struct {
	Code int         `json:"code"` // 0: success, -1: failure
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{
		Code: -1,
		Msg:  msg,
		Data: nil,
	})
}

// FailFromError maps an engine error kind onto an HTTP status. Client
// input problems are 400s; upstream trouble is surfaced distinctly so
// callers can tell slowness from hard failure.
func FailFromError(c *gin.Context, err error, fallbackMsg string) {
	switch types.KindOf(err) {
	case types.KindMissingLocation, types.KindInvalidLocation:
		Fail(c, http.StatusBadRequest, fallbackMsg)
	case types.KindUpstreamTimeout:
		Fail(c, http.StatusGatewayTimeout, fallbackMsg)
	case types.KindUpstreamExtraction:
		Fail(c, http.StatusBadGateway, fallbackMsg)
	default:
		Fail(c, http.StatusInternalServerError, fallbackMsg)
	}
}
