package http

import (
	"bytes"
	"net/http"
	"strconv"
)

// cachedResponse is a memoized 200 OK JSON body.
type cachedResponse struct {
	body []byte
}

// bufferingWriter captures a handler's status and body.
type bufferingWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *bufferingWriter) Header() http.Header { return b.header }

func (b *bufferingWriter) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// cached memoizes successful GET responses per dataset revision. A new
// load, import or filter changes the revision, so stale entries are never
// read again and age out of the cache.
func (s *Server) cached(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		key := strconv.FormatUint(s.dash.Revision(), 10) + "|" + r.URL.Path + "|" + r.URL.RawQuery
		if hit, ok := s.responses.Get(key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeJSONBytes(w, http.StatusOK, hit.body)
			return
		}

		buf := &bufferingWriter{header: w.Header()}
		next.ServeHTTP(buf, r)
		if buf.status == 0 {
			buf.status = http.StatusOK
		}
		if buf.status == http.StatusOK {
			s.responses.Set(key, cachedResponse{body: bytes.Clone(buf.body.Bytes())})
		}
		w.Header().Set("X-Cache", "MISS")
		w.WriteHeader(buf.status)
		_, _ = w.Write(buf.body.Bytes())
	})
}
