package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/metrics"
	"sitecms/internal/reqctx"
)

// Logging пишет строку на каждый запрос и считает HTTP-метрики.
// Маршрут в метриках — шаблон mux, а не сырой путь.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		took := time.Since(start)

		route := routeTemplate(r)
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(lrw.statusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(took.Seconds())

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", took),
		}
		ctx := r.Context()
		if rid, ok := reqctx.GetRequestID(ctx); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		if ip, _ := reqctx.GetClient(ctx); ip != "" {
			fields = append(fields, zap.String("ip", ip))
		}

		switch {
		case lrw.statusCode >= 500:
			logger.Log.Error("HTTP-запрос", fields...)
		case r.URL.Path == "/health" || r.URL.Path == "/metrics":
			logger.Log.Debug("HTTP-запрос", fields...)
		default:
			logger.Log.Info("HTTP-запрос", fields...)
		}
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
