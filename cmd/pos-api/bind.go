package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/asset"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
)

// bindBody decodes the request body into dst by content type. An empty body
// leaves dst zeroed so the field validation reports what is missing.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadRequest(c, err)
		return false
	}
	return true
}

// formFile returns the uploaded file in field, or nil when none was sent.
// The returned func closes the file.
func formFile(c *gin.Context, field string) (*asset.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &asset.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}

// idParam reads :id. A malformed id cannot match any record, so it is
// reported with notFound.
func idParam(c *gin.Context, notFound error) (int64, bool) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		httpx.Fail(c, notFound)
	}
	return id, ok
}
