package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, h gin.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFail_StatusMapping(t *testing.T) {
	verr := validate.Errors{}
	verr.Add("name", validate.Unique("name"))

	cases := []struct {
		err    error
		code   int
		status string
	}{
		{fmt.Errorf("wrap: %w", verr), 400, "Bad Request"},
		{fmt.Errorf("product %w", apperr.ErrNotFound), 404, "Not Found"},
		{apperr.ErrUnauthorized, 401, "Unauthorized"},
		{apperr.ErrForbidden, 403, "Forbidden"},
		{errors.New("db down"), 500, "Internal Server Error"},
	}
	for _, tc := range cases {
		w, body := serve(t, func(c *gin.Context) { Fail(c, tc.err) }, "/x")
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.EqualValues(t, tc.code, body["code"])
		assert.Equal(t, tc.status, body["status"])
	}
}

func TestFail_ValidationBody(t *testing.T) {
	verr := validate.Errors{}
	verr.Add("name", validate.Unique("name"))

	_, body := serve(t, func(c *gin.Context) { Fail(c, verr) }, "/x")
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "body: %v", body)
	assert.Equal(t, []any{"The name has already been taken."}, errs["name"])
	assert.NotContains(t, body, "error")
}

func TestFail_InternalMessageSurfaced(t *testing.T) {
	_, body := serve(t, func(c *gin.Context) { Fail(c, errors.New("db down")) }, "/x")
	assert.Equal(t, "db down", body["error"])
}

func TestPaginated_Meta(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		page := Page(c)
		Paginated(c, []int{1, 2, 3}, NewMeta(page, 3, 23))
	}, "/x?page=3")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "OK", body["status"])

	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 3, meta["current_page"])
	assert.EqualValues(t, 10, meta["per_page"])
	assert.EqualValues(t, 23, meta["total"])
	assert.EqualValues(t, 3, meta["last_page"])
	assert.EqualValues(t, 21, meta["from"])
	assert.EqualValues(t, 23, meta["to"])
}

func TestNewMeta_Empty(t *testing.T) {
	m := NewMeta(1, 0, 0)
	assert.Equal(t, 1, m.LastPage)
	assert.Nil(t, m.From)
	assert.Nil(t, m.To)
}

func TestPage_Defaults(t *testing.T) {
	for target, want := range map[string]int{"/x": 1, "/x?page=abc": 1, "/x?page=-2": 1, "/x?page=4": 4} {
		var got int
		serve(t, func(c *gin.Context) { got = Page(c); OK(c, nil) }, target)
		assert.Equal(t, want, got, target)
	}
}

func TestRequestID_Echoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) { seen = RID(c); OK(c, nil) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", seen)
}
