package main

import (
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/asset"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
)

// serveAssetHandler streams a stored image or logo by its store-relative path.
func serveAssetHandler(assets asset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := strings.TrimPrefix(c.Param("path"), "/")
		rc, err := assets.Open(c.Request.Context(), p)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(path.Ext(p))
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Header("Content-Type", ct)
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			log.Printf("[asset] rid=%s stream %s: %v", httpx.RID(c), p, err)
		}
	}
}
