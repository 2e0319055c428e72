package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validBackends = map[string]bool{
	"mongo":    true,
	"postgres": true,
	"sqlite":   true,
	"memory":   true,
}

var validAuthModes = map[string]bool{
	"off": true,
	"dev": true,
	"jwt": true,
}

type Config struct {
	ServerPort string        `toml:"server_port"`
	AppEnv     string        `toml:"app_env"`
	LogLevel   string        `toml:"log_level"`
	LogFormat  string        `toml:"log_format"`
	BasePath   string        `toml:"base_path"`
	AuthMode   string        `toml:"auth_mode"`
	Store      StoreConfig   `toml:"store"`
	DB         DBConfig      `toml:"postgres"`
	Cognito    CognitoConfig `toml:"cognito"`
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", c.LogFormat)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("invalid BASE_PATH %q: must start with /", c.BasePath)
	}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("invalid STORE_BACKEND %q: must be one of mongo, postgres, sqlite, memory", c.Store.Backend)
	}
	if c.Store.Collection == "" {
		return fmt.Errorf("STORE_COLLECTION must not be empty")
	}
	if !validAuthModes[c.AuthMode] {
		return fmt.Errorf("invalid AUTH_MODE %q: must be one of off, dev, jwt", c.AuthMode)
	}
	if c.AuthMode == "dev" && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_MODE=dev must not be enabled in %s environment", c.AppEnv)
	}
	if c.AuthMode == "jwt" {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_MODE is jwt")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_MODE is jwt")
		}
	}
	return nil
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	Collection    string `toml:"collection"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	SQLitePath    string `toml:"sqlite_path"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type CognitoConfig struct {
	Region          string `toml:"region"`
	UserPoolID      string `toml:"user_pool_id"`
	AppClientID     string `toml:"app_client_id"`
	AppClientSecret string `toml:"app_client_secret"`
}

func defaults() Config {
	return Config{
		ServerPort: "8080",
		AppEnv:     "local",
		LogLevel:   "info",
		LogFormat:  "json",
		BasePath:   "/api/v1",
		AuthMode:   "off",
		Store: StoreConfig{
			Backend:       "mongo",
			Collection:    "todoItems",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "todo",
			SQLitePath:    "data/todo.db",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "todo",
			Password: "todo",
			Name:     "todo",
			SSLMode:  "disable",
		},
		Cognito: CognitoConfig{
			Region: "ap-northeast-1",
		},
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// CONFIG_FILE if set, then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	loadFromEnv(&cfg)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	for key, dst := range map[string]*string{
		"SERVER_PORT":               &cfg.ServerPort,
		"APP_ENV":                   &cfg.AppEnv,
		"LOG_LEVEL":                 &cfg.LogLevel,
		"LOG_FORMAT":                &cfg.LogFormat,
		"BASE_PATH":                 &cfg.BasePath,
		"AUTH_MODE":                 &cfg.AuthMode,
		"STORE_BACKEND":             &cfg.Store.Backend,
		"STORE_COLLECTION":          &cfg.Store.Collection,
		"MONGO_URI":                 &cfg.Store.MongoURI,
		"MONGO_DATABASE":            &cfg.Store.MongoDatabase,
		"SQLITE_PATH":               &cfg.Store.SQLitePath,
		"DB_HOST":                   &cfg.DB.Host,
		"DB_PORT":                   &cfg.DB.Port,
		"DB_USER":                   &cfg.DB.User,
		"DB_PASSWORD":               &cfg.DB.Password,
		"DB_NAME":                   &cfg.DB.Name,
		"DB_SSLMODE":                &cfg.DB.SSLMode,
		"COGNITO_REGION":            &cfg.Cognito.Region,
		"COGNITO_USER_POOL_ID":      &cfg.Cognito.UserPoolID,
		"COGNITO_APP_CLIENT_ID":     &cfg.Cognito.AppClientID,
		"COGNITO_APP_CLIENT_SECRET": &cfg.Cognito.AppClientSecret,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	cfg.AuthMode = strings.ToLower(cfg.AuthMode)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
}
