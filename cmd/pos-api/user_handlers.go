package main

import (
	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/order"
	"github.com/MikeMC777/kasir-pos/internal/resource"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

// @Summary List users with their orders
// @Tags users
// @Security BearerAuth
// @Param page query int false "page"
// @Success 200 {object} httpx.Envelope
// @Router /users [get]
func listUsersHandler(users *user.Service, orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := httpx.Page(c)
		list, total, err := users.List(ctx, page)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		ids := make([]int64, 0, len(list))
		for _, u := range list {
			ids = append(ids, u.ID)
		}
		byUser, err := orders.ForUsers(ctx, ids)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Paginated(c, resource.FromUsers(list, byUser), httpx.NewMeta(page, len(list), total))
	}
}

func createUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.CreateUserRequest
		if !bindBody(c, &in) {
			return
		}
		u, err := users.Create(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Created(c, resource.FromUser(u))
	}
}

func getUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, user.ErrNotFound)
		if !ok {
			return
		}
		u, err := users.Get(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromUser(u))
	}
}

func updateUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, user.ErrNotFound)
		if !ok {
			return
		}
		var in user.UpdateUserRequest
		if !bindBody(c, &in) {
			return
		}
		u, err := users.Update(c.Request.Context(), id, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromUser(u))
	}
}

func deleteUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, user.ErrNotFound)
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, nil)
	}
}
