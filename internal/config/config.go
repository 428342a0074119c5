package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/atomicstack/shell-sync/internal/app"
	"github.com/atomicstack/shell-sync/internal/validate"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, if any.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	flagConfig               = "config"
	flagLogFile              = "log-file"
	flagTrace                = "trace"
	flagPrefs                = "prefs"
	flagProbeTimeout         = "probe-timeout"
	flagPlatform             = "platform"
	flagLang                 = "lang"
	flagServer               = "server"
	flagWidth                = "width"
	flagHeight               = "height"
	flagWatch                = "watch"
	flagConnectivityAddr     = "connectivity-addr"
	flagConnectivityInterval = "connectivity-interval"
)

const (
	envConfig               = "SHELL_SYNC_CONFIG"
	envLogFile              = "SHELL_SYNC_LOG_FILE"
	envTrace                = "SHELL_SYNC_TRACE"
	envPrefs                = "SHELL_SYNC_PREFS"
	envProbeTimeout         = "SHELL_SYNC_PROBE_TIMEOUT"
	envPlatform             = "SHELL_SYNC_PLATFORM"
	envLang                 = "SHELL_SYNC_LANG"
	envServers              = "SHELL_SYNC_SERVERS"
	envWidth                = "SHELL_SYNC_WIDTH"
	envHeight               = "SHELL_SYNC_HEIGHT"
	envWatch                = "SHELL_SYNC_WATCH"
	envConnectivityAddr     = "SHELL_SYNC_CONNECTIVITY_ADDR"
	envConnectivityInterval = "SHELL_SYNC_CONNECTIVITY_INTERVAL"
	envSystemLang           = "LANG"
)

// envKeys maps settings to the variables that override them.
var envKeys = map[string]string{
	flagLogFile:              envLogFile,
	flagTrace:                envTrace,
	flagPrefs:                envPrefs,
	flagProbeTimeout:         envProbeTimeout,
	flagPlatform:             envPlatform,
	flagLang:                 envLang,
	flagWidth:                envWidth,
	flagHeight:               envHeight,
	flagWatch:                envWatch,
	flagConnectivityAddr:     envConnectivityAddr,
	flagConnectivityInterval: envConnectivityInterval,
}

const defaultConnectivityAddr = "open.rocket.chat:443"

// KnownPlatforms lists accepted --platform values.
var KnownPlatforms = []string{"linux", "darwin", "windows"}

// BindFlags registers every setting on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "path to a TOML config file")
	fs.String(flagLogFile, "", "path to the log file")
	fs.Bool(flagTrace, false, "enable verbose JSON trace logging")
	fs.String(flagPrefs, defaultPrefsPath(), "path to the preferences file")
	fs.Duration(flagProbeTimeout, validate.DefaultTimeout, "deadline for each server probe")
	fs.String(flagPlatform, "", "platform used for preference defaults (linux, darwin, windows)")
	fs.String(flagLang, "", "interface language as a BCP 47 tag, e.g. pt-BR")
	fs.StringSlice(flagServer, nil, "server URL to register at startup (repeatable)")
	fs.Int(flagWidth, 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int(flagHeight, 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool(flagWatch, true, "reload preferences when the file changes on disk")
	fs.String(flagConnectivityAddr, defaultConnectivityAddr, "host:port dialled to detect connectivity (empty disables)")
	fs.Duration(flagConnectivityInterval, 15*time.Second, "interval between connectivity checks")
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("shell-sync", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := FromFlags(fs, environ)
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), fs.Args()...)
	return cfg, nil
}

// FromFlags resolves settings from a parsed flag set. Precedence, highest
// first: explicitly set flags, environment, config file, flag defaults.
func FromFlags(fs *pflag.FlagSet, environ []string) (Config, error) {
	env := parseEnv(environ)

	v := viper.New()
	v.SetConfigType("toml")

	file, _ := fs.GetString(flagConfig)
	if !fs.Changed(flagConfig) {
		file = envOrDefault(env, envConfig, "")
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	for key, name := range envKeys {
		if fs.Changed(key) {
			continue
		}
		if value, ok := env[name]; ok && strings.TrimSpace(value) != "" {
			v.Set(key, value)
		}
	}
	if !fs.Changed(flagServer) {
		if value, ok := env[envServers]; ok && strings.TrimSpace(value) != "" {
			v.Set(flagServer, splitList(value))
		}
	}
	if !fs.Changed(flagLang) && !v.IsSet(flagLang) {
		if value, ok := env[envSystemLang]; ok {
			v.Set(flagLang, langFromLocale(value))
		}
	}
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	width := v.GetInt(flagWidth)
	height := v.GetInt(flagHeight)
	if width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", width)
	}
	if height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", height)
	}

	cfg := Config{
		App: app.Config{
			PrefsPath:            v.GetString(flagPrefs),
			Platform:             v.GetString(flagPlatform),
			Lang:                 v.GetString(flagLang),
			ProbeTimeout:         v.GetDuration(flagProbeTimeout),
			Servers:              v.GetStringSlice(flagServer),
			Width:                width,
			Height:               height,
			WatchPrefs:           v.GetBool(flagWatch),
			ConnectivityAddr:     v.GetString(flagConnectivityAddr),
			ConnectivityInterval: v.GetDuration(flagConnectivityInterval),
		},
		Logging: Logging{
			FilePath: v.GetString(flagLogFile),
			Trace:    v.GetBool(flagTrace),
		},
		File: file,
	}
	cfg.Flags = map[string]string{
		"config":       file,
		"logFile":      cfg.Logging.FilePath,
		"trace":        strconv.FormatBool(cfg.Logging.Trace),
		"prefs":        cfg.App.PrefsPath,
		"probeTimeout": cfg.App.ProbeTimeout.String(),
		"platform":     cfg.App.Platform,
		"lang":         cfg.App.Lang,
		"servers":      strings.Join(cfg.App.Servers, ","),
		"width":        strconv.Itoa(width),
		"height":       strconv.Itoa(height),
		"watch":        strconv.FormatBool(cfg.App.WatchPrefs),
	}
	return cfg, nil
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "shell-sync-preferences.toml"
	}
	return filepath.Join(dir, "shell-sync", "preferences.toml")
}

// langFromLocale turns a POSIX locale such as "pt_BR.UTF-8" into "pt-BR".
func langFromLocale(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the resolved configuration is usable.
func Validate(cfg Config) error {
	if cfg.App.ProbeTimeout <= 0 {
		return fmt.Errorf("probe-timeout must be positive (got %s)", cfg.App.ProbeTimeout)
	}
	if cfg.App.Platform != "" {
		known := false
		for _, p := range KnownPlatforms {
			if cfg.App.Platform == p {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown platform %q (want one of %s)", cfg.App.Platform, strings.Join(KnownPlatforms, ", "))
		}
	}
	if cfg.App.PrefsPath == "" {
		return fmt.Errorf("prefs path must not be empty")
	}
	return nil
}
