package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	timex "github.com/PraneethJain/simplipy-backend/internal/pkg/time"
)

type ServerOptions struct {
	URL             string         `json:"url,omitempty"`
	Port            int            `json:"port,omitempty"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
}

type DBOptions struct {
	Driver          string         `json:"driver,omitempty"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type JWTOptions struct {
	JTILength uint32         `json:"jti_length,omitempty"`
	Issuer    string         `json:"issuer,omitempty"`
	TTL       timex.Duration `json:"ttl,omitempty"`
}

// SessionOptions tunes the in-memory debugger session registry.
type SessionOptions struct {
	MaxSessions  int            `json:"max_sessions,omitempty"`
	IdleTTL      timex.Duration `json:"idle_ttl,omitempty"`
	ReapInterval timex.Duration `json:"reap_interval,omitempty"`
}

type Options struct {
	Server  *ServerOptions  `json:"server,omitempty"`
	DB      *DBOptions      `json:"db,omitempty"`
	JWT     *JWTOptions     `json:"jwt,omitempty"`
	Session *SessionOptions `json:"session,omitempty"`
}

func (o *Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("server", o.Server),
		slog.Any("db", o.DB),
		slog.Any("jwt", o.JWT),
		slog.Any("session", o.Session),
	)
}

func New(cfgFile string) (*Options, error) {
	slog.Info("Loading config...")
	opts, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := overrideWithEnv(opts); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", opts))
	return opts, nil
}

func parseCfgFile(cfgFile string) (*Options, error) {
	cfgFile = filepath.Clean(cfgFile)
	configFile, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	var opts Options
	if err := json.Unmarshal(configFile, &opts); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return &opts, nil
}

func overrideWithEnv(opts *Options) error {
	if url, ok := os.LookupEnv("URL"); ok {
		opts.Server.URL = url
	}

	// Cloud Run injects PORT; it wins over the config file.
	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return err
		}
		opts.Server.Port = port
	}
	return nil
}
