package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	JWTSecret string
	App       Config
)

// Config carries every runtime knob of the service. Values come from the environment (.env in dev).
type Config struct {
	Port           string
	RequestTimeout time.Duration

	DBDriver string // sqlite | postgres
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string

	GeminiAPIKey string
	GeminiModel  string
	ChatTimeout  time.Duration

	Municipality string
	AppTimezone  string
	SeedFile     string

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration

	MediaDir string

	TileURL     string
	TileAttrib  string
	MapCenter   [2]float64
	MapZoom     int
	CORSOrigins string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() Config {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			zap.L().Info("no .env file found, using system environment")
		} else {
			zap.L().Info(".env file loaded")
		}
	} else {
		zap.L().Info("running in Railway, using system environment")
	}

	App = FromEnv()
	JWTSecret = App.JWTSecret

	if App.JWTSecret == "" {
		zap.L().Warn("JWT_SECRET is not set, admin login is disabled")
	}
	if App.GeminiAPIKey == "" {
		zap.L().Warn("GEMINI_API_KEY is not set, chat assistant will answer with the unavailable notice")
	}
	return App
}

// FromEnv reads the configuration without touching .env files.
func FromEnv() Config {
	return Config{
		Port:           GetEnv("PORT", "8080"),
		RequestTimeout: GetDuration("REQUEST_TIMEOUT", 15*time.Second),

		DBDriver: strings.ToLower(GetEnv("DB_DRIVER", "sqlite")),
		DBDSN:    GetEnv("DB_DSN", "educa.db"),

		JWTSecret: GetEnv("JWT_SECRET"),
		JWTTTL:    GetDuration("JWT_TTL", 12*time.Hour),

		AdminUser:         GetEnv("ADMIN_USER", "admin"),
		AdminPassword:     GetEnv("ADMIN_PASSWORD"),
		AdminPasswordHash: GetEnv("ADMIN_PASSWORD_HASH"),

		GeminiAPIKey: firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:  GetEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ChatTimeout:  GetDuration("CHAT_TIMEOUT", 2*time.Minute),

		Municipality: GetEnv("MUNICIPALITY_NAME", "Município"),
		AppTimezone:  GetEnv("APP_TIMEZONE", "America/Bahia"),
		SeedFile:     GetEnv("SEED_FILE", ""),

		GeocoderURL:       GetEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: GetEnv("GEOCODER_USER_AGENT", "educa-backend/1.0"),
		GeocoderTimeout:   GetDuration("GEOCODER_TIMEOUT", 8*time.Second),

		MediaDir: GetEnv("MEDIA_DIR", "./media"),

		TileURL:    GetEnv("MAP_TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
		TileAttrib: GetEnv("MAP_TILE_ATTRIBUTION", "&copy; OpenStreetMap contributors"),
		MapCenter: [2]float64{
			GetFloat("MAP_CENTER_LAT", -12.5253),
			GetFloat("MAP_CENTER_LNG", -40.2917),
		},
		MapZoom:     GetInt("MAP_ZOOM", 13),
		CORSOrigins: GetEnv("CORS_ORIGINS", "*"),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return def
}

func GetFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return f
	}
	return def
}

// GetDuration accepts Go durations ("90s") or plain seconds ("90").
func GetDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
