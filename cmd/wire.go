package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/bnema/dramaradar/internal/adapters/extract/maoyan"
	telegramnotify "github.com/bnema/dramaradar/internal/adapters/notify/telegram"
	sqliterepo "github.com/bnema/dramaradar/internal/adapters/repo/sqlite"
	"github.com/bnema/dramaradar/internal/adapters/repo/tomlfile"
	"github.com/bnema/dramaradar/internal/logging"
	"github.com/bnema/dramaradar/internal/ports"
)

type app struct {
	cfg *viper.Viper
	log zerolog.Logger
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: logging.New(cfg)}, nil
}

// loadConfig layers the optional config file under environment variables:
// DRAMARADAR_TELEGRAM_TOKEN overrides the file's telegram.token, and so on.
func loadConfig() (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetEnvPrefix("DRAMARADAR")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("storage.backend", "sqlite")
	cfg.SetDefault("ranking.url", maoyan.DefaultURL)
	cfg.SetDefault("timezone", "Asia/Shanghai")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		cfg.AddConfigPath(filepath.Join(xdg, "dramaradar"))
	}
	cfg.AddConfigPath(filepath.Join(homeDir, ".config", "dramaradar"))
	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

// openStore builds the configured seen-set backend. The returned closer is
// always safe to call.
func (a *app) openStore() (ports.SeenRepository, func(), error) {
	switch backend := a.cfg.GetString("storage.backend"); backend {
	case "sqlite":
		repo, err := sqliterepo.NewRepository(a.cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite seen-set store: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	case "toml":
		repo, err := tomlfile.NewRepository(a.cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("wire toml seen-set store: %w", err)
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage.backend %q (want sqlite or toml)", backend)
	}
}

func (a *app) newExtractor() (*maoyan.Client, error) {
	client, err := maoyan.NewClient(a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("wire ranking extractor: %w", err)
	}
	return client, nil
}

func (a *app) newNotifier() (ports.Notifier, error) {
	notifier, err := telegramnotify.NewNotifier(a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("wire telegram notifier: %w", err)
	}
	return notifier, nil
}

func (a *app) location() *time.Location {
	name := a.cfg.GetString("timezone")
	loc, err := time.LoadLocation(name)
	if err != nil {
		a.log.Warn().Err(err).Str("timezone", name).Msg("unknown timezone, falling back to UTC")
		return time.UTC
	}
	return loc
}
