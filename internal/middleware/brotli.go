package middleware

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type brotliWriter struct {
	gin.ResponseWriter
	bw *brotli.Writer
}

func (w *brotliWriter) Write(p []byte) (int, error) { return w.bw.Write(p) }

func (w *brotliWriter) WriteString(s string) (int, error) { return w.bw.Write([]byte(s)) }

// Brotli compresses responses for clients that advertise br support. Upgrade
// requests and uploaded assets pass through untouched: the WebSocket
// handshake fails on a wrapped writer, and media files are already compressed
// formats.
func Brotli(quality int) gin.HandlerFunc {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") ||
			strings.HasPrefix(c.Request.URL.Path, "/uploads/") ||
			!strings.Contains(c.GetHeader("Accept-Encoding"), "br") {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "br")
		c.Header("Vary", "Accept-Encoding")
		c.Writer.Header().Del("Content-Length")

		bw := brotli.NewWriterLevel(c.Writer, quality)
		c.Writer = &brotliWriter{ResponseWriter: c.Writer, bw: bw}
		defer bw.Close()

		c.Next()
	}
}
