package server

import (
	"errors"
	"net/http"
	"papertrader/internal/engine"
	"papertrader/types"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// Response codes carried in the envelope. 0 is success.
const (
	codeSuccess              = 0
	codeBadRequest           = 1001
	codeInvalidOrder         = 1002
	codeInsufficientFunds    = 1003
	codeInsufficientHoldings = 1004
	codeInternal             = 1005
)

const msgMissingFields = "Missing required fields"

// apiResponse is the envelope every JSON endpoint answers with.
type apiResponse struct {
	RequestId string `json:"request_id"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, apiResponse{
		RequestId: c.GetString(requestIDKey),
		Code:      codeSuccess,
		Message:   message,
		Data:      data,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, apiResponse{
		RequestId: c.GetString(requestIDKey),
		Code:      codeBadRequest,
		Message:   message,
	})
}

// fail maps an order rejection onto a status and envelope code.
func fail(c *gin.Context, err error) {
	status, code := decodeErr(err)
	c.JSON(status, apiResponse{
		RequestId: c.GetString(requestIDKey),
		Code:      code,
		Message:   err.Error(),
	})
}

func decodeErr(err error) (int, int) {
	switch {
	case errors.Is(err, engine.ErrInsufficientFunds):
		return http.StatusConflict, codeInsufficientFunds
	case errors.Is(err, engine.ErrInsufficientHoldings):
		return http.StatusConflict, codeInsufficientHoldings
	case errors.Is(err, engine.ErrInvalidOrder), errors.Is(err, types.ErrUnknownSide):
		return http.StatusBadRequest, codeInvalidOrder
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
