package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Catalog     CatalogAPIConfig
	Exchange    ExchangeConfig
	Translation TranslationConfig
	Warmup      WarmupConfig
	Themes      map[string][]int64
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MigrationsDir   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CatalogAPIConfig points at the supplier's storefront REST API.
type CatalogAPIConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	PageSize       int
	Timeout        time.Duration
	RequestsPerSec float64
}

type ExchangeConfig struct {
	SourceURL       string
	TTL             time.Duration
	FallbackRate    float64
	NativeCurrency  string
	ForeignCurrency string
}

type TranslationConfig struct {
	EngineURL      string
	SourceLang     string
	TargetLang     string
	MaxDescription int
}

type WarmupConfig struct {
	Interval      time.Duration
	CacheTTL      time.Duration
	TopCategories int
	TopProducts   int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8080"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "catalog"),
			Password:        getEnv("POSTGRES_PASSWORD", "catalog"),
			DBName:          getEnv("POSTGRES_DB", "catalog"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MigrationsDir:   getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Catalog: CatalogAPIConfig{
			BaseURL:        getEnv("CATALOG_API_URL", "https://supplier.example.com/wp-json/wc/v3"),
			ConsumerKey:    getEnv("CATALOG_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("CATALOG_CONSUMER_SECRET", ""),
			PageSize:       getEnvInt("CATALOG_PAGE_SIZE", 100),
			Timeout:        getEnvDuration("CATALOG_TIMEOUT", 30*time.Second),
			RequestsPerSec: getEnvFloat("CATALOG_REQUESTS_PER_SEC", 5),
		},
		Exchange: ExchangeConfig{
			SourceURL:       getEnv("EXCHANGE_SOURCE_URL", "https://open.er-api.com/v6/latest/COP"),
			TTL:             getEnvDuration("EXCHANGE_TTL", time.Hour),
			FallbackRate:    getEnvFloat("EXCHANGE_FALLBACK_RATE", 0.00025),
			NativeCurrency:  getEnv("EXCHANGE_NATIVE_CURRENCY", "COP"),
			ForeignCurrency: getEnv("EXCHANGE_FOREIGN_CURRENCY", "USD"),
		},
		Translation: TranslationConfig{
			EngineURL:      getEnv("TRANSLATION_ENGINE_URL", "http://localhost:5000"),
			SourceLang:     getEnv("TRANSLATION_SOURCE_LANG", "es"),
			TargetLang:     getEnv("TRANSLATION_TARGET_LANG", "en"),
			MaxDescription: getEnvInt("TRANSLATION_MAX_DESCRIPTION", 5000),
		},
		Warmup: WarmupConfig{
			Interval:      getEnvDuration("WARMUP_INTERVAL", 50*time.Minute),
			CacheTTL:      getEnvDuration("WARMUP_CACHE_TTL", time.Hour),
			TopCategories: getEnvInt("WARMUP_TOP_CATEGORIES", 5),
			TopProducts:   getEnvInt("WARMUP_TOP_PRODUCTS", 12),
		},
		Themes: getEnvThemes("CATALOG_THEMES", defaultThemes),
	}
}

// defaultThemes maps storefront theme buckets to supplier category ids.
// Categories missing from every bucket are reachable only through the flat list.
var defaultThemes = map[string][]int64{
	"hogar":      {15, 22, 87},
	"tecnologia": {31, 45},
	"mascotas":   {52, 53},
	"deportes":   {64, 71, 72},
	"belleza":    {19, 26},
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvThemes parses "theme:1|2|3,other:4|5" into the theme map.
func getEnvThemes(key string, fallback map[string][]int64) map[string][]int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	themes := map[string][]int64{}
	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		var ids []int64
		for _, raw := range strings.Split(parts[1], "|") {
			if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			themes[strings.TrimSpace(parts[0])] = ids
		}
	}
	if len(themes) == 0 {
		return fallback
	}
	return themes
}
