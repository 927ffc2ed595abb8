package main

import (
	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/auth"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/order"
	"github.com/MikeMC777/kasir-pos/internal/resource"
)

// @Summary List orders
// @Tags orders
// @Security BearerAuth
// @Param page query int false "page"
// @Success 200 {object} httpx.Envelope
// @Router /orders [get]
func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.Page(c)
		list, total, err := svc.List(c.Request.Context(), page)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Paginated(c, resource.FromOrders(list), httpx.NewMeta(page, len(list), total))
	}
}

// @Summary Place an order
// @Description Computes line totals, decrements stock by one per line and issues a receipt code.
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Param body body order.PlaceOrderRequest true "basket"
// @Success 201 {object} httpx.Envelope
// @Failure 400,404,500 {object} httpx.Envelope
// @Router /orders [post]
func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.FromContext(c)
		if !ok {
			httpx.Fail(c, auth.ErrMissingToken)
			return
		}
		var in order.PlaceOrderRequest
		if !bindBody(c, &in) {
			return
		}
		d, err := svc.Place(c.Request.Context(), id.User.ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Created(c, resource.FromOrder(d))
	}
}

func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, order.ErrNotFound)
		if !ok {
			return
		}
		d, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromOrder(d))
	}
}
