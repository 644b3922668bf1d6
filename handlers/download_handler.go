package handlers

import (
	"compress/gzip"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const downloadChunkSize = 8192

// Download streams the static client archive gzip-compressed in fixed-size
// chunks, so the whole file is never held in memory.
func Download(filePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := os.Open(filePath)
		if err != nil {
			writeError(c, err)
			return
		}
		defer file.Close()

		c.Header("Content-Disposition", "filename="+filepath.Base(filePath))
		c.Header("Content-Type", "application/gzip")
		c.Status(http.StatusOK)

		gz := gzip.NewWriter(c.Writer)
		defer gz.Close()

		buf := make([]byte, downloadChunkSize)
		for {
			n, err := file.Read(buf)
			if n > 0 {
				if _, werr := gz.Write(buf[:n]); werr != nil {
					return
				}
				if ferr := gz.Flush(); ferr != nil {
					return
				}
				c.Writer.Flush()
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				return
			}
		}
	}
}
