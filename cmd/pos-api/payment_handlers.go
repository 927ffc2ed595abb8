package main

import (
	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/payment"
	"github.com/MikeMC777/kasir-pos/internal/resource"
)

func listPaymentsHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.Page(c)
		list, total, err := svc.List(c.Request.Context(), page)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Paginated(c, resource.FromPayments(list), httpx.NewMeta(page, len(list), total))
	}
}

func getPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, payment.ErrNotFound)
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromPayment(p))
	}
}

// @Summary Create a payment method
// @Tags payments
// @Security BearerAuth
// @Accept multipart/form-data
// @Param name formData string true "name"
// @Param type formData string true "type"
// @Param logo formData file true "logo"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /payments [post]
func createPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payment.PaymentRequest
		if !bindBody(c, &in) {
			return
		}
		logo, done, err := formFile(c, "logo")
		if err != nil {
			httpx.BadRequest(c, err)
			return
		}
		defer done()

		p, err := svc.Create(c.Request.Context(), in, logo)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Created(c, resource.FromPayment(p))
	}
}

func updatePaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, payment.ErrNotFound)
		if !ok {
			return
		}
		var in payment.PaymentRequest
		if !bindBody(c, &in) {
			return
		}
		logo, done, err := formFile(c, "logo")
		if err != nil {
			httpx.BadRequest(c, err)
			return
		}
		defer done()

		p, err := svc.Update(c.Request.Context(), id, in, logo)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromPayment(p))
	}
}

// deletePaymentHandler also removes the stored logo.
func deletePaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, payment.ErrNotFound)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, nil)
	}
}
