package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/forkthecity/microsite-store/internal/platform/idgen"
)

// EnvPrefix prefixes every environment override, e.g. CIVICSTORE_STORE_BACKEND.
const EnvPrefix = "civicstore"

const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	Store StoreConfig
	IDs   IDConfig
	Auth  AuthConfig
	Log   LogConfig
}

type StoreConfig struct {
	Backend string
	DataDir string
	// QuotaBytes bounds the memory backend and is the capacity usage is
	// reported against.
	QuotaBytes    int
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
}

type IDConfig struct {
	Scheme string
}

type AuthConfig struct {
	// VerifyPasswords makes login check the stored bcrypt hash.
	VerifyPasswords bool
}

type LogConfig struct {
	Level string
}

type Options struct {
	// File is an optional YAML config file. When empty, config.yaml is
	// looked up in the working directory and a missing file is not an error.
	File string
	// EnvFile is loaded into the environment first if it exists.
	EnvFile string
}

// Load reads configuration from the optional .env file, the optional YAML
// file and CIVICSTORE_* environment variables, in increasing precedence.
func Load(opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("store.quota_bytes", 5*1024*1024)
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "civicstore")
	v.SetDefault("ids.scheme", idgen.SchemeLocal)
	v.SetDefault("auth.verify_passwords", false)
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Store: StoreConfig{
			Backend:       strings.ToLower(v.GetString("store.backend")),
			DataDir:       v.GetString("store.data_dir"),
			QuotaBytes:    v.GetInt("store.quota_bytes"),
			DatabaseURL:   v.GetString("store.database_url"),
			MongoURI:      v.GetString("store.mongo_uri"),
			MongoDatabase: v.GetString("store.mongo_database"),
		},
		IDs:  IDConfig{Scheme: strings.ToLower(v.GetString("ids.scheme"))},
		Auth: AuthConfig{VerifyPasswords: v.GetBool("auth.verify_passwords")},
		Log:  LogConfig{Level: v.GetString("log.level")},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendJSON, BackendSQLite:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("store.database_url is required for the postgres backend")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New("store.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("store.backend must be one of memory, json, sqlite, postgres, mongo (got %q)", c.Store.Backend)
	}
	if (c.Store.Backend == BackendJSON || c.Store.Backend == BackendSQLite) && c.Store.DataDir == "" {
		return fmt.Errorf("store.data_dir is required for the %s backend", c.Store.Backend)
	}
	if c.Store.QuotaBytes < 0 {
		return fmt.Errorf("store.quota_bytes must be >= 0 (got %d)", c.Store.QuotaBytes)
	}
	if c.IDs.Scheme != idgen.SchemeLocal && c.IDs.Scheme != idgen.SchemeUUID {
		return fmt.Errorf("ids.scheme must be %q or %q (got %q)", idgen.SchemeLocal, idgen.SchemeUUID, c.IDs.Scheme)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
