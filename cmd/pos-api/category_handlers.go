package main

import (
	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/category"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/resource"
)

// @Summary List categories
// @Tags categories
// @Param page query int false "page"
// @Success 200 {object} httpx.Envelope
// @Router /categories [get]
func listCategoriesHandler(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.Page(c)
		list, total, err := svc.List(c.Request.Context(), page)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Paginated(c, resource.FromCategories(list), httpx.NewMeta(page, len(list), total))
	}
}

func getCategoryHandler(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, category.ErrNotFound)
		if !ok {
			return
		}
		cat, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromCategory(cat))
	}
}

// @Summary Create a category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Param body body category.CategoryRequest true "category"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /categories [post]
func createCategoryHandler(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in category.CategoryRequest
		if !bindBody(c, &in) {
			return
		}
		cat, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.Created(c, resource.FromCategory(cat))
	}
}

func updateCategoryHandler(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, category.ErrNotFound)
		if !ok {
			return
		}
		var in category.CategoryRequest
		if !bindBody(c, &in) {
			return
		}
		cat, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, resource.FromCategory(cat))
	}
}

func deleteCategoryHandler(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, category.ErrNotFound)
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
