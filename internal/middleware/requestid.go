package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"sitecms/internal/reqctx"
)

const RequestIDHeader = "X-Request-ID"

// RequestID выдаёт запросу идентификатор (или берёт пришедший)
// и сохраняет IP и User-Agent клиента.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, rid)

		ctx := reqctx.WithRequestID(r.Context(), rid)
		ctx = reqctx.WithClient(ctx, ClientIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP: первый адрес из X-Forwarded-For, затем X-Real-IP, затем RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
