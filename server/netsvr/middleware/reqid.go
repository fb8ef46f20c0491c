package middleware

import (
	"net/http"
	"strings"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestID 沿用 chi 的 id 產生方式，並回寫到回應標頭，方便對照 bot 服務那邊的紀錄
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimid.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimid.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

func GetReqId(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}

func GetReqIdNumPart(r *http.Request) string {
	str := chimid.GetReqID(r.Context())
	if len(str) == 0 {
		return ""
	}
	i := strings.LastIndex(str, "-")
	if i < 0 || i+1 >= len(str) {
		return str
	}
	return str[i+1:]
}
