// Package respond holds the fixed response envelopes every endpoint answers
// with.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Cause   string      `json:"cause,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	OK           = Envelope{Code: http.StatusOK, Status: statusSuccess, Message: "Success."}
	Created      = Envelope{Code: http.StatusCreated, Status: statusSuccess, Message: "Create successful."}
	NoContent    = Envelope{Code: http.StatusNoContent, Status: statusSuccess, Message: "Success, no content."}
	BadRequest   = Envelope{Code: http.StatusBadRequest, Status: statusError, Message: "Invalid request content."}
	Unauthorized = Envelope{Code: http.StatusUnauthorized, Status: statusError, Message: "Unauthorized to perform this action."}
	Forbidden    = Envelope{Code: http.StatusForbidden, Status: statusError, Message: "Unable to perform this action."}
	NotFound     = Envelope{Code: http.StatusNotFound, Status: statusError, Message: "Resource not found."}
	Internal     = Envelope{Code: http.StatusInternalServerError, Status: statusError, Message: "Internal server error."}
	Unavailable  = Envelope{Code: http.StatusServiceUnavailable, Status: statusError, Message: "Server is unavailable."}
	TooMany      = Envelope{Code: http.StatusTooManyRequests, Status: statusError, Message: "Too many requests."}
)

// ForStatus returns the base envelope for an HTTP status, falling back to
// Internal for codes without one.
func ForStatus(code int) Envelope {
	for _, e := range []Envelope{OK, Created, NoContent, BadRequest, Unauthorized, Forbidden, NotFound, Internal, Unavailable, TooMany} {
		if e.Code == code {
			return e
		}
	}
	return Internal
}

func (e Envelope) WithMessage(msg string) Envelope {
	e.Message = msg
	return e
}

func (e Envelope) WithData(data interface{}) Envelope {
	e.Data = data
	return e
}

// JSON writes e with its own code. 204 responses carry no body.
func JSON(c *gin.Context, e Envelope) {
	if e.Code == http.StatusNoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(e.Code, e)
}

// Abort writes e and stops the handler chain.
func Abort(c *gin.Context, e Envelope) {
	c.AbortWithStatusJSON(e.Code, e)
}
