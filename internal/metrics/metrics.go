package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitecms_http_requests_total",
		Help: "HTTP-запросы по маршруту, методу и коду ответа.",
	}, []string{"route", "method", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitecms_http_request_duration_seconds",
		Help:    "Длительность HTTP-запросов.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	RenderedBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitecms_rendered_blocks_total",
		Help: "Блоки, отрендеренные в HTML, по типу.",
	}, []string{"type"})

	RenderCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitecms_render_cache_total",
		Help: "Обращения к кэшу рендера (hit/miss).",
	}, []string{"result"})

	AutoSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitecms_autosaves_total",
		Help: "Автосохранения редактора по результату.",
	}, []string{"result"})

	EditorSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sitecms_editor_sessions",
		Help: "Открытые сессии редактора.",
	})

	ContactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitecms_contact_submissions_total",
		Help: "Заявки с сайта по результату.",
	}, []string{"result"})
)

func Handler() http.Handler { return promhttp.Handler() }
