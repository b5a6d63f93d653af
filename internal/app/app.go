package app

import (
	"context"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/cache"
	"sitecms/internal/config"
	"sitecms/internal/content"
	"sitecms/internal/db"
	"sitecms/internal/handlers"
	"sitecms/internal/repository"
	"sitecms/internal/routes"
	"sitecms/internal/services"
)

// App — собранное приложение: маршрутизатор и всё, что нужно остановить.
type App struct {
	Router *mux.Router

	pool      *pgxpool.Pool
	redis     *cache.RedisCache
	editors   *services.EditorManager
	scheduler *services.Scheduler
	cancel    context.CancelFunc
}

func InitApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		cancel()
		return nil, err
	}

	a := &App{pool: conn, cancel: cancel}

	// Кэш рендера
	var renderCache cache.Cache
	memCache := cache.NewMemory()
	if cfg.RedisAddr != "" {
		a.redis = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		renderCache = a.redis
	} else {
		renderCache = memCache
	}

	// Репозитории
	userRepo := repository.NewUserRepo(conn)
	postRepo := repository.NewPostRepo(conn)
	catRepo := repository.NewCategoryRepo(conn)
	tagRepo := repository.NewTagRepo(conn)
	faqRepo := repository.NewFAQRepo(conn)
	contactRepo := repository.NewContactRepo(conn)
	mediaRepo := repository.NewMediaRepo(conn)
	activityRepo := repository.NewActivityRepo(conn)

	// Сервисы
	activitySvc := services.NewActivityService(activityRepo)
	authSvc := services.NewAuthService(userRepo, activitySvc, cfg.JWTSecret, config.Duration(cfg.AccessTokenTTL, 12*time.Hour))
	postSvc := services.NewPostService(postRepo, catRepo, renderCache, activitySvc, services.PostOptions{
		SupportedLocales: cfg.SupportedLocales,
		DefaultLocale:    cfg.DefaultLocale,
		CacheTTL:         config.Duration(cfg.CacheTTL, 10*time.Minute),
	})
	a.editors = services.NewEditorManager(postRepo, activitySvc, postSvc.Invalidate, services.EditorOptions{
		AutoSaveInterval: config.Duration(cfg.AutoSaveInterval, 30*time.Second),
		Debounce:         config.Duration(cfg.EditorDebounce, 100*time.Millisecond),
		IdleTTL:          config.Duration(cfg.EditorIdleTTL, time.Hour),
	})
	postSvc.OnContentReplaced(func(ctx context.Context, postID int64, blocks []content.Block) {
		a.editors.Refresh(ctx, postID, blocks)
	})
	taxonomySvc := services.NewTaxonomyService(catRepo, tagRepo, activitySvc)
	faqSvc := services.NewFAQService(faqRepo, activitySvc)

	var mailer *services.Mailer
	if cfg.SMTPEnabled() {
		mailer = services.NewMailer(services.NewEmailService(cfg), 100)
		mailer.Start(ctx)
	}
	limiter := services.NewRateLimiter(5, time.Hour)
	contactSvc := services.NewContactService(contactRepo, limiter, mailer, activitySvc, services.ContactOptions{
		NotifyEmail: cfg.ContactNotifyEmail,
		AdminURL:    cfg.PublicBaseURL,
	})
	mediaSvc := services.NewMediaService(mediaRepo, activitySvc, services.MediaOptions{
		UploadDir:     cfg.UploadDir,
		PublicBaseURL: cfg.PublicBaseURL,
		MaxWidth:      cfg.MediaMaxWidth,
	})
	statsSvc := services.NewStatsService(postRepo, catRepo, tagRepo, faqRepo, contactRepo, mediaRepo, activitySvc, a.editors)

	if cfg.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			a.Close(context.Background())
			return nil, err
		}
	}

	// Фоновые задачи
	a.scheduler = services.NewScheduler(5 * time.Minute)
	jobs := []struct {
		spec, name string
		job        services.Job
	}{
		{"@daily", "activity-purge", func(ctx context.Context) error {
			_, err := activitySvc.Purge(ctx, cfg.ActivityRetentionDays)
			return err
		}},
		{"@every 5m", "editor-sweep", func(ctx context.Context) error {
			a.editors.Sweep(ctx)
			return nil
		}},
		{"@every 10m", "limiter-cleanup", func(context.Context) error {
			limiter.Cleanup()
			return nil
		}},
		{"@every 10m", "cache-prune", func(context.Context) error {
			memCache.Prune()
			return nil
		}},
	}
	for _, j := range jobs {
		if err := a.scheduler.Add(j.spec, j.name, j.job); err != nil {
			a.Close(context.Background())
			return nil, err
		}
	}
	a.scheduler.Start()

	// Хендлеры
	checks := map[string]handlers.Pinger{"postgres": conn}
	if a.redis != nil {
		checks["redis"] = a.redis
	}
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc),
		Posts:    handlers.NewPostHandler(postSvc),
		Editor:   handlers.NewEditorHandler(a.editors),
		Content:  handlers.NewContentHandler(),
		Taxonomy: handlers.NewTaxonomyHandler(taxonomySvc),
		FAQ:      handlers.NewFAQHandler(faqSvc),
		Contacts: handlers.NewContactHandler(contactSvc),
		Activity: handlers.NewActivityHandler(activitySvc),
		Media:    handlers.NewMediaHandler(mediaSvc),
		Stats:    handlers.NewStatsHandler(statsSvc),
		Health:   handlers.NewHealthHandler(checks),
		Logs:     handlers.NewSystemLogsHandler(cfg.LogDir, 14),
		Search:   handlers.NewSearchHandler(postSvc, faqSvc),
	}

	// Маршруты
	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, h, routes.Options{JWTSecret: cfg.JWTSecret, UploadDir: cfg.UploadDir})

	return a, nil
}

// Close сохраняет открытые сессии редактора и освобождает ресурсы.
func (a *App) Close(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}
	if a.editors != nil {
		a.editors.CloseAll(ctx)
	}
	a.cancel()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.pool.Close()
}
