package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	DefaultLocale    string
	SupportedLocales []string

	UploadDir     string
	PublicBaseURL string
	MediaMaxWidth int

	RedisAddr     string
	RedisPassword string
	CacheTTL      string

	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPassword       string
	ContactNotifyEmail string

	ActivityRetentionDays int
	CORSOrigins           []string

	AutoSaveInterval string
	EditorDebounce   string
	EditorIdleTTL    string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "12h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		AdminUsername: def(os.Getenv("ADMIN_USERNAME"), "admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		DefaultLocale:    strings.ToLower(def(os.Getenv("DEFAULT_LOCALE"), "en")),
		SupportedLocales: splitCSV(def(os.Getenv("SUPPORTED_LOCALES"), "en,es,fr,de")),

		UploadDir:     def(os.Getenv("UPLOAD_DIR"), "uploads"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		MediaMaxWidth: atoi(os.Getenv("MEDIA_MAX_WIDTH"), 1600),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      def(os.Getenv("CACHE_TTL"), "10m"),

		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		ContactNotifyEmail: os.Getenv("CONTACT_NOTIFY_EMAIL"),

		ActivityRetentionDays: atoi(os.Getenv("ACTIVITY_RETENTION_DAYS"), 90),
		CORSOrigins:           splitCSV(def(os.Getenv("CORS_ORIGINS"), "*")),

		AutoSaveInterval: def(os.Getenv("AUTOSAVE_INTERVAL"), "30s"),
		EditorDebounce:   def(os.Getenv("EDITOR_DEBOUNCE"), "100ms"),
		EditorIdleTTL:    def(os.Getenv("EDITOR_IDLE_TTL"), "1h"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	for name, v := range map[string]string{
		"ACCESS_TOKEN_EXPIRY": c.AccessTokenTTL,
		"CACHE_TTL":           c.CacheTTL,
		"AUTOSAVE_INTERVAL":   c.AutoSaveInterval,
		"EDITOR_DEBOUNCE":     c.EditorDebounce,
		"EDITOR_IDLE_TTL":     c.EditorIdleTTL,
	} {
		if _, perr := time.ParseDuration(v); perr != nil {
			return nil, fmt.Errorf("%s: неверная длительность %q", name, v)
		}
	}

	if !contains(c.SupportedLocales, c.DefaultLocale) {
		warnings = append(warnings, "DEFAULT_LOCALE is not in SUPPORTED_LOCALES")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is empty, admin bootstrap skipped")
	}
	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, contact notifications disabled")
	}
	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is empty, using in-memory render cache")
	}
	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// Duration разбирает строковую длительность; после Validate ошибок не бывает.
func Duration(v string, d time.Duration) time.Duration {
	if p, err := time.ParseDuration(v); err == nil && p > 0 {
		return p
	}
	return d
}

func (c *Config) SMTPEnabled() bool { return c.SMTPHost != "" && c.SMTPUser != "" }

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(v string, d int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return d
	}
	return n
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
