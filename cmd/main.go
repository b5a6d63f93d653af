package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "sitecms/docs"
	"sitecms/internal/app"
	"sitecms/internal/config"
	"sitecms/internal/logger"
)

// @title SiteCMS API
// @version 1.0
// @description API сайта: посты на блоках, таксономия, FAQ, заявки и админка с редактором.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Ошибка загрузки конфига: " + err.Error())
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Log.Fatal("Некорректная конфигурация", zap.Error(err))
	}
	for _, w := range warnings {
		logger.Log.Warn("Конфигурация", zap.String("warning", w))
	}
	logger.Log.Info("Подключение к БД", zap.String("dsn", cfg.GetDSNSafe()))

	a, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("Ошибка инициализации приложения", zap.Error(err))
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Language"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(a.Router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Остановка сервера")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Ошибка остановки HTTP-сервера", zap.Error(err))
	}
	// несохранённые документы редактора пишутся в базу здесь
	a.Close(ctx)
	logger.Log.Info("Сервер остановлен")
}
