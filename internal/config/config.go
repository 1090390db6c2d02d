package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/slasher/internal/chat"
	"github.com/Zuo-Peng/slasher/internal/chatdb"
	"github.com/Zuo-Peng/slasher/internal/export"
)

// Config holds the defaults of every command line flag. Durations are kept
// as expressions and parsed by the caller, like flags are.
type Config struct {
	Format     string  `toml:"format"`
	Duration   string  `toml:"duration"`
	Delay      string  `toml:"delay"`
	Resource   string  `toml:"resource"`
	Multiplier float64 `toml:"multiplier"`
	Amount     int     `toml:"amount"`

	Downloader     string   `toml:"downloader"`
	DownloaderArgs []string `toml:"downloader_args"`

	Database Database `toml:"database"`
}

type Database struct {
	Table        string `toml:"table"`
	OffsetColumn string `toml:"offset_column"`
	TextColumn   string `toml:"text_column"`
	AuthorColumn string `toml:"author_column"`
	VODColumn    string `toml:"vod_column"`
}

func defaults() *Config {
	l := chatdb.DefaultLayout()
	return &Config{
		Format:     export.DefaultFormat,
		Duration:   "10s",
		Delay:      "0s",
		Resource:   export.DefaultResource,
		Multiplier: 2.0,
		Amount:     5,
		Downloader: chat.DefaultDownloader,
		Database: Database{
			Table:        l.Table,
			OffsetColumn: l.OffsetColumn,
			TextColumn:   l.TextColumn,
			AuthorColumn: l.AuthorColumn,
			VODColumn:    l.VODColumn,
		},
	}
}

// DefaultPath is ~/.config/slasher/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "slasher", "config.toml"), nil
}

// Load returns the defaults overlaid with the file at path. An empty path
// means DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := defaults()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			// No home directory: run on defaults.
			return cfg, nil
		}
		path = p
	}

	home, _ := os.UserHomeDir()
	path = expandHome(path, home)

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Downloader = expandHome(cfg.Downloader, home)
	return cfg, nil
}

// ChatOptions converts the source related settings.
func (c *Config) ChatOptions(match string) chat.Options {
	return chat.Options{
		Match:          match,
		Downloader:     c.Downloader,
		DownloaderArgs: c.DownloaderArgs,
		Database: chat.DatabaseOptions{
			Table:        c.Database.Table,
			OffsetColumn: c.Database.OffsetColumn,
			TextColumn:   c.Database.TextColumn,
			AuthorColumn: c.Database.AuthorColumn,
			VODColumn:    c.Database.VODColumn,
		},
	}
}

func expandHome(path, home string) string {
	if home != "" && len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
