// Package httpx holds the HTTP plumbing shared by every route: the JSON
// envelope, error to status mapping, pagination and request middleware.
package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

// Envelope is the body of every response.
type Envelope struct {
	Code   int                 `json:"code"`
	Status string              `json:"status"`
	Data   any                 `json:"data,omitempty"`
	Meta   *Meta               `json:"meta,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func write(c *gin.Context, code int, env Envelope) {
	env.Code = code
	env.Status = http.StatusText(code)
	c.JSON(code, env)
}

func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Envelope{Data: data})
}

func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, Envelope{Data: data})
}

// Paginated writes one page of a collection along with its meta block.
func Paginated(c *gin.Context, data any, meta Meta) {
	write(c, http.StatusOK, Envelope{Data: data, Meta: &meta})
}

// Status maps err onto an HTTP status code.
func Status(err error) int {
	if _, ok := validate.As(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Fail aborts the request with the envelope matching err.
func Fail(c *gin.Context, err error) {
	code := Status(err)
	env := Envelope{}
	if errs, ok := validate.As(err); ok {
		env.Errors = errs
	} else {
		env.Error = err.Error()
	}
	if code == http.StatusInternalServerError {
		log.Printf("[http] rid=%s %s %s error: %v", RID(c), c.Request.Method, c.Request.URL.Path, err)
	}
	env.Code = code
	env.Status = http.StatusText(code)
	c.AbortWithStatusJSON(code, env)
}

// BadRequest reports a body that could not be decoded at all.
func BadRequest(c *gin.Context, err error) {
	code := http.StatusBadRequest
	c.AbortWithStatusJSON(code, Envelope{Code: code, Status: http.StatusText(code), Error: err.Error()})
}
