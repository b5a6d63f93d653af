package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"sitecms/internal/handlers"
	"sitecms/internal/metrics"
	"sitecms/internal/middleware"
	"sitecms/internal/models"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Posts    *handlers.PostHandler
	Editor   *handlers.EditorHandler
	Content  *handlers.ContentHandler
	Taxonomy *handlers.TaxonomyHandler
	FAQ      *handlers.FAQHandler
	Contacts *handlers.ContactHandler
	Activity *handlers.ActivityHandler
	Media    *handlers.MediaHandler
	Stats    *handlers.StatsHandler
	Health   *handlers.HealthHandler
	Logs     *handlers.SystemLogsHandler
	Search   *handlers.SearchHandler
}

type Options struct {
	JWTSecret string
	UploadDir string
}

func InitRoutes(router *mux.Router, h Handlers, opts Options) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	router.HandleFunc("/healthz", h.Health.Health).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	if opts.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))),
		).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/posts", h.Posts.PublicList).Methods("GET")
	api.HandleFunc("/posts/{slug}", h.Posts.PublicGet).Methods("GET")
	api.HandleFunc("/categories", h.Taxonomy.ListCategories).Methods("GET")
	api.HandleFunc("/categories/{slug}", h.Taxonomy.GetCategory).Methods("GET")
	api.HandleFunc("/tags", h.Taxonomy.ListTags).Methods("GET")
	api.HandleFunc("/faqs", h.FAQ.PublicList).Methods("GET")
	api.HandleFunc("/search", h.Search.Search).Methods("GET")
	api.HandleFunc("/contacts", h.Contacts.Submit).Methods("POST")

	api.HandleFunc("/admin/login", h.Auth.Login).Methods("POST")

	// --- Админка: editor и admin ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.JWTAuth(opts.JWTSecret), middleware.AnyRole(models.RoleEditor))

	admin.HandleFunc("/me", h.Auth.Me).Methods("GET")
	admin.HandleFunc("/stats", h.Stats.Dashboard).Methods("GET")

	admin.HandleFunc("/posts", h.Posts.List).Methods("GET")
	admin.HandleFunc("/posts", h.Posts.Create).Methods("POST")
	admin.HandleFunc("/posts/{id:[0-9]+}", h.Posts.Get).Methods("GET")
	admin.HandleFunc("/posts/{id:[0-9]+}", h.Posts.Update).Methods("PUT")
	admin.HandleFunc("/posts/{id:[0-9]+}", h.Posts.Delete).Methods("DELETE")
	admin.HandleFunc("/posts/{id:[0-9]+}/status", h.Posts.SetStatus).Methods(http.MethodPatch, http.MethodOptions)
	admin.HandleFunc("/posts/{id:[0-9]+}/editor", h.Editor.Open).Methods("POST")

	editor := admin.PathPrefix("/editor/{sid}").Subrouter()
	editor.HandleFunc("", h.Editor.State).Methods("GET")
	editor.HandleFunc("", h.Editor.Close).Methods("DELETE")
	editor.HandleFunc("/blocks", h.Editor.Insert).Methods("POST")
	editor.HandleFunc("/blocks/{bid}", h.Editor.UpdateBlock).Methods("PATCH")
	editor.HandleFunc("/blocks/{bid}", h.Editor.DeleteBlock).Methods("DELETE")
	editor.HandleFunc("/move", h.Editor.Move).Methods("POST")
	editor.HandleFunc("/save", h.Editor.Save).Methods("POST")
	editor.HandleFunc("/preview", h.Editor.Preview).Methods("GET")

	admin.HandleFunc("/content/block-types", h.Content.BlockTypes).Methods("GET")
	admin.HandleFunc("/content/render", h.Content.Render).Methods("POST")
	admin.HandleFunc("/content/preview", h.Content.Preview).Methods("POST")
	admin.HandleFunc("/content/preview.html", h.Content.PreviewHTML).Methods("POST")

	admin.HandleFunc("/categories", h.Taxonomy.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id:[0-9]+}", h.Taxonomy.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id:[0-9]+}", h.Taxonomy.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/tags", h.Taxonomy.CreateTag).Methods("POST")
	admin.HandleFunc("/tags/{id:[0-9]+}", h.Taxonomy.DeleteTag).Methods("DELETE")

	admin.HandleFunc("/faqs", h.FAQ.List).Methods("GET")
	admin.HandleFunc("/faqs", h.FAQ.Create).Methods("POST")
	admin.HandleFunc("/faqs/reorder", h.FAQ.Reorder).Methods("POST")
	admin.HandleFunc("/faqs/{id:[0-9]+}", h.FAQ.Update).Methods("PUT")
	admin.HandleFunc("/faqs/{id:[0-9]+}", h.FAQ.Delete).Methods("DELETE")

	admin.HandleFunc("/media", h.Media.List).Methods("GET")
	admin.HandleFunc("/media", h.Media.Upload).Methods("POST")
	admin.HandleFunc("/media/{id:[0-9]+}", h.Media.Delete).Methods("DELETE")

	// --- Только admin ---
	only := admin.NewRoute().Subrouter()
	only.Use(middleware.OnlyRole(models.RoleAdmin))

	only.HandleFunc("/contacts", h.Contacts.List).Methods("GET")
	only.HandleFunc("/contacts/{id:[0-9]+}", h.Contacts.Get).Methods("GET")
	only.HandleFunc("/contacts/{id:[0-9]+}/status", h.Contacts.SetStatus).Methods("PATCH")
	only.HandleFunc("/contacts/{id:[0-9]+}", h.Contacts.Delete).Methods("DELETE")

	only.HandleFunc("/activity", h.Activity.List).Methods("GET")

	only.HandleFunc("/system-logs", h.Logs.Entries).Methods("GET")
	only.HandleFunc("/system-logs/days", h.Logs.Days).Methods("GET")
	only.HandleFunc("/system-logs/hourly", h.Logs.Hourly).Methods("GET")
	only.HandleFunc("/system-logs/summary", h.Logs.Summary).Methods("GET")
	only.HandleFunc("/system-logs/download", h.Logs.Download).Methods("GET")
}
