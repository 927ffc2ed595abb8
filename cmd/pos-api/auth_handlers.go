package main

import (
	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/auth"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/resource"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

type loginResponse struct {
	Token string         `json:"token"`
	User  *resource.User `json:"user"`
}

// loginHandler godoc
// @Summary Log in and obtain a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body user.LoginRequest true "credentials"
// @Success 200 {object} httpx.Envelope
// @Failure 400,401 {object} httpx.Envelope
// @Router /login [post]
func loginHandler(gate *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.LoginRequest
		if !bindBody(c, &in) {
			return
		}
		token, u, err := gate.Login(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, loginResponse{Token: token, User: resource.FromUser(u)})
	}
}

// @Summary Revoke the current token
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope
// @Router /logout [post]
func logoutHandler(gate *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.FromContext(c)
		if !ok {
			httpx.Fail(c, auth.ErrMissingToken)
			return
		}
		if err := gate.Logout(c.Request.Context(), id); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, nil)
	}
}

func currentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.FromContext(c)
		if !ok {
			httpx.Fail(c, auth.ErrMissingToken)
			return
		}
		httpx.OK(c, resource.FromUser(id.User))
	}
}
