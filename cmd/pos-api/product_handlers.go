package main

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/product"
	"github.com/MikeMC777/kasir-pos/internal/resource"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

// productFilters reads the optional `category` and `name` query filters.
func productFilters(c *gin.Context) (categoryID *int64, name *string, err error) {
	if v, ok := c.GetQuery("category"); ok && v != "" {
		id, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			errs := validate.Errors{}
			errs.Add("category", "The category field must be an integer.")
			return nil, nil, errs
		}
		categoryID = &id
	}
	if v, ok := c.GetQuery("name"); ok && v != "" {
		name = &v
	}
	return categoryID, name, nil
}

// @Summary List products
// @Description Filters combine: category id and exact name.
// @Tags products
// @Param page query int false "page"
// @Param category query int false "category id"
// @Param name query string false "exact product name"
// @Success 200 {object} httpx.Envelope
// @Router /products [get]
func listProductsHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, name, err := productFilters(c)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		page := httpx.Page(c)
		list, total, err := svc.List(c.Request.Context(), categoryID, name, page)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Paginated(c, resource.FromProducts(list), httpx.NewMeta(page, len(list), total))
	}
}

func getProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, product.ErrNotFound)
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromProduct(p))
	}
}

// @Summary Create a product
// @Tags products
// @Security BearerAuth
// @Accept multipart/form-data
// @Param name formData string true "name"
// @Param sku formData string true "sku"
// @Param stock formData int true "stock"
// @Param price formData int true "price"
// @Param category_id formData int true "category id"
// @Param image formData file true "image"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /products [post]
func createProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.ProductRequest
		if !bindBody(c, &in) {
			return
		}
		image, done, err := formFile(c, "image")
		if err != nil {
			httpx.BadRequest(c, err)
			return
		}
		defer done()

		p, err := svc.Create(c.Request.Context(), in, image)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Created(c, resource.FromProduct(p))
	}
}

// updateProductHandler replaces every field; the image is optional.
func updateProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, product.ErrNotFound)
		if !ok {
			return
		}
		var in product.ProductRequest
		if !bindBody(c, &in) {
			return
		}
		image, done, err := formFile(c, "image")
		if err != nil {
			httpx.BadRequest(c, err)
			return
		}
		defer done()

		p, err := svc.Update(c.Request.Context(), id, in, image)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromProduct(p))
	}
}

func deleteProductHandler(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, product.ErrNotFound)
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
