// Package config loads estatedesk settings from ~/.estatedesk/config.yaml,
// ESTATEDESK_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "ESTATEDESK"
)

// Config keys.
const (
	KeyCMSURL     = "cms_url"
	KeyStorageURL = "storage_url"
	KeyAuthURL    = "auth_url"
	KeyToken      = "token"
	KeyDBPath     = "db_path"
	KeyPageSize   = "page_size"
	KeyExportDir  = "export_dir"
	KeyExportCap  = "export_cap"
	KeyTimeoutMs  = "timeout_ms"
	KeyLogCalls   = "log_calls"
	KeyLogFile    = "log_file"
)

var keys = []string{
	KeyCMSURL, KeyStorageURL, KeyAuthURL, KeyToken, KeyDBPath, KeyPageSize,
	KeyExportDir, KeyExportCap, KeyTimeoutMs, KeyLogCalls, KeyLogFile,
}

// Config holds all runtime settings.
type Config struct {
	CMSURL     string
	StorageURL string
	// AuthURL serves GET /api/me. Empty disables the session lookup.
	AuthURL   string
	Token     string
	DBPath    string
	PageSize  int
	ExportDir string
	ExportCap int
	Timeout   time.Duration
	LogCalls  bool
	LogFile   string
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Dir returns the default configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".estatedesk"
	}
	return filepath.Join(home, ".estatedesk")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyCMSURL, "http://localhost:4000")
	v.SetDefault(KeyStorageURL, "")
	v.SetDefault(KeyAuthURL, "")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyDBPath, filepath.Join(Dir(), "estatedesk.db"))
	v.SetDefault(KeyPageSize, 10)
	v.SetDefault(KeyExportDir, ".")
	v.SetDefault(KeyExportCap, 1000)
	v.SetDefault(KeyTimeoutMs, 15000)
	v.SetDefault(KeyLogCalls, false)
	v.SetDefault(KeyLogFile, "")
}

// FlagConfig names the flag that points at an explicit config file.
const FlagConfig = "config"

// FlagSet returns the global flags Load understands. Unknown flags are
// tolerated so the set can pre-parse a whole command line before the
// command tree exists.
func FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("estatedesk", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.String(FlagConfig, "", "config file (default ~/.estatedesk/config.yaml)")
	fs.String("cms-url", "", "CMS API root")
	fs.String("auth-url", "", "session endpoint root serving /api/me")
	fs.String("token", "", "static bearer token")
	fs.String("db-path", "", "SQLite file for saved filters and export history")
	fs.Int("page-size", 0, "rows per page")
	fs.String("export-dir", "", "directory export files are written to")
	fs.Bool("log-calls", false, "log CMS calls and use cases")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	return fs
}

// LoadArgs pre-parses args with fs and loads the configuration they
// select. Parse errors are left for the command tree to report.
func LoadArgs(fs *pflag.FlagSet, args []string) (Config, error) {
	_ = fs.Parse(args)
	configFile, _ := fs.GetString(FlagConfig)
	return Load(configFile, fs)
}

// Load reads configuration. configFile overrides the default location; a
// missing default file is not an error. Flags in fs named like the keys
// with dashes (cms-url, page-size, ...) take precedence when set.
func Load(configFile string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for _, key := range keys {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	cfg := Config{
		CMSURL:     strings.TrimRight(v.GetString(KeyCMSURL), "/"),
		StorageURL: strings.TrimRight(v.GetString(KeyStorageURL), "/"),
		AuthURL:    strings.TrimRight(v.GetString(KeyAuthURL), "/"),
		Token:      v.GetString(KeyToken),
		DBPath:     v.GetString(KeyDBPath),
		PageSize:   v.GetInt(KeyPageSize),
		ExportDir:  v.GetString(KeyExportDir),
		ExportCap:  v.GetInt(KeyExportCap),
		Timeout:    time.Duration(v.GetInt(KeyTimeoutMs)) * time.Millisecond,
		LogCalls:   v.GetBool(KeyLogCalls),
		LogFile:    v.GetString(KeyLogFile),
	}
	if cfg.StorageURL == "" {
		cfg.StorageURL = cfg.CMSURL
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and URLs.
func (c Config) Validate() error {
	if c.CMSURL == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, KeyCMSURL)
	}
	if !strings.HasPrefix(c.CMSURL, "http://") && !strings.HasPrefix(c.CMSURL, "https://") {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalid, KeyCMSURL, c.CMSURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyPageSize)
	}
	if c.ExportCap <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyExportCap)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyTimeoutMs)
	}
	return nil
}
