package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/his-api/internal/cache"
)

const HeaderXCache = "X-Cache"

type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves successful GET responses from the page cache. Entries
// are keyed by credential class and request URI; services drop them on writes.
func ResponseCache(pc *cache.PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pc == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		c.Header("Cache-Control", "private, no-cache")
		key := cache.Key(c.GetString(ContextCredential), c.Request.URL.RequestURI())

		if entry, ok := pc.Get(key); ok {
			c.Header(HeaderXCache, "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		c.Header(HeaderXCache, "MISS")
		w := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		if w.Status() == http.StatusOK && !c.IsAborted() {
			pc.Set(key, &cache.Entry{
				Status:      http.StatusOK,
				ContentType: w.Header().Get("Content-Type"),
				Body:        bytes.Clone(w.body.Bytes()),
			})
		}
	}
}
