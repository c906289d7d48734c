package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Compression middleware adds gzip compression to HTTP responses.
// Bodies below gzhttp.DefaultMinSize and already-compressed content types
// (images, archives) are passed through untouched.
// Do not wrap websocket routes: the gzip writer cannot be hijacked.
func Compression(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
