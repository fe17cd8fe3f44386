package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"product-catalog/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	defaultAPIPrefix         = "/api"
	defaultLogLevel          = "info"
	defaultClientName        = "product-catalog-client"
	defaultCollection        = "products"
	defaultShutdownTimeoutMs = 10000
)

type Config struct {
	AppPort                string
	AppName                string
	APIPrefix              string
	LogLevel               string
	StoreBackend           string
	MongoURI               string
	MongoDBName            string
	MongoCollection        string
	ShutdownTimeoutMs      int64
	ClientTargetHTTP       string
	RemoteLogHttpURI       string
	RemoteTraceRpcURI      string
	RemoteProfilingHttpURI string
}

// SafeConfig is the loggable view of Config; it leaves out the Mongo URI
// since that usually carries credentials.
type SafeConfig struct {
	AppPort                string `json:"app_port"`
	AppName                string `json:"app_name"`
	APIPrefix              string `json:"api_prefix"`
	LogLevel               string `json:"log_level"`
	StoreBackend           string `json:"store_backend"`
	MongoDBName            string `json:"mongo_db_name"`
	MongoCollection        string `json:"mongo_collection"`
	ShutdownTimeoutMs      int64  `json:"shutdown_timeout_ms"`
	ClientTargetHTTP       string `json:"client_target_http"`
	RemoteLogHttpURI       string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string `json:"remote_profiling_http_uri"`
}

// MissingEnvError lists required variables that were unset.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		APIPrefix:              c.APIPrefix,
		LogLevel:               c.LogLevel,
		StoreBackend:           c.StoreBackend,
		MongoDBName:            c.MongoDBName,
		MongoCollection:        c.MongoCollection,
		ShutdownTimeoutMs:      c.ShutdownTimeoutMs,
		ClientTargetHTTP:       c.ClientTargetHTTP,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "3001"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key := prefix + "." + jsonKey(t.Field(i))

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt64(key string, def int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil || num <= 0 {
		logger.Instance().Warn(fmt.Sprintf("Invalid %s; falling back to default", key),
			slog.String("value", val),
			slog.Int64("default", def),
		)
		return def
	}
	return num
}

// normalizePrefix makes sure the prefix starts with one slash and has no
// trailing slash. "/" and "" both mean no prefix.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Instance().Warn("No .env file found, using system environment variables")
	}
}

func validLogLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", name)
	}
	return nil
}

// Load reads the process environment (and an optional .env file) into a
// Config. It fails when a required key is missing. The Mongo settings are
// only required for the mongo store backend.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		AppPort:                os.Getenv("APP_PORT"),
		AppName:                os.Getenv("APP_NAME"),
		APIPrefix:              normalizePrefix(getEnv("API_PREFIX", defaultAPIPrefix)),
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		StoreBackend:           strings.ToLower(getEnv("STORE_BACKEND", StoreMongo)),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDBName:            os.Getenv("MONGO_DB_NAME"),
		MongoCollection:        getEnv("MONGO_COLLECTION", defaultCollection),
		ShutdownTimeoutMs:      getInt64("SHUTDOWN_TIMEOUT_MS", defaultShutdownTimeoutMs),
		ClientTargetHTTP:       os.Getenv("CLIENT_TARGET_HTTP"),
		RemoteLogHttpURI:       os.Getenv("REMOTE_LOG_HTTP_URI"),
		RemoteTraceRpcURI:      os.Getenv("REMOTE_TRACE_RPC_URI"),
		RemoteProfilingHttpURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
	}

	if err := validLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	var missing []string
	if cfg.AppPort == "" {
		missing = append(missing, "APP_PORT")
	}
	if cfg.AppName == "" {
		missing = append(missing, "APP_NAME")
	}
	switch cfg.StoreBackend {
	case StoreMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if cfg.MongoDBName == "" {
			missing = append(missing, "MONGO_DB_NAME")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Keys: missing}
	}

	return cfg, nil
}

// LoadClient reads only what the smoke client uses: the target URL, the
// API prefix, the log level and the telemetry endpoints. APP_NAME is
// optional here.
func LoadClient() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		AppName:                getEnv("APP_NAME", defaultClientName),
		APIPrefix:              normalizePrefix(getEnv("API_PREFIX", defaultAPIPrefix)),
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		ClientTargetHTTP:       os.Getenv("CLIENT_TARGET_HTTP"),
		RemoteLogHttpURI:       os.Getenv("REMOTE_LOG_HTTP_URI"),
		RemoteTraceRpcURI:      os.Getenv("REMOTE_TRACE_RPC_URI"),
		RemoteProfilingHttpURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
	}

	if err := validLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.ClientTargetHTTP == "" {
		return nil, &MissingEnvError{Keys: []string{"CLIENT_TARGET_HTTP"}}
	}
	return cfg, nil
}

var (
	configInstance *Config
	configOnce     sync.Once
)

// Instance loads the configuration once per process and exits when it is
// invalid.
func Instance() *Config {
	configOnce.Do(func() {
		log := logger.Instance()

		cfg, err := Load()
		if err != nil {
			log.Error("Invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		_ = logger.SetLevel(cfg.LogLevel)

		if cfg.RemoteLogHttpURI == "" {
			log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
		}
		if cfg.RemoteTraceRpcURI == "" {
			log.Warn("Missing REMOTE_TRACE_RPC_URI will write traces to stdout")
		}
		if cfg.RemoteProfilingHttpURI == "" {
			log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip profiling")
		}

		attrs := StructAttrs("data", cfg.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		log.Info("Configuration loaded successfully", anyAttrs...)

		configInstance = cfg
	})

	return configInstance
}
