package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/db"
)

// Meta describes where a page sits in the whole collection. From and To are
// 1-based positions and are null for an empty page.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	LastPage    int  `json:"last_page"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

// Page reads the `page` query parameter. Missing, malformed or non-positive
// values mean the first page.
func Page(c *gin.Context) int {
	p, err := strconv.Atoi(c.Query("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func NewMeta(page, count, total int) Meta {
	m := Meta{CurrentPage: page, PerPage: db.PageSize, Total: total, LastPage: 1}
	if total > 0 {
		m.LastPage = (total + db.PageSize - 1) / db.PageSize
	}
	if count > 0 {
		from := db.Offset(page) + 1
		to := from + count - 1
		m.From, m.To = &from, &to
	}
	return m
}

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
