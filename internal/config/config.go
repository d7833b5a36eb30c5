// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"

	"github.com/nhath/ezmoji/internal/emoji"
)

// Config represents the application configuration
type Config struct {
	Store      Profile `toml:"store"`
	Dataset    Dataset `toml:"dataset"`
	Popup      Popup   `toml:"popup"`
	Theme      Theme   `toml:"theme_colors"`
	Keys       KeyMap  `toml:"keys"`
	AutoExpand bool    `toml:"autoexpand"`

	// path is where Save writes; empty means the XDG location
	path string
}

// Dataset pins the emoji data version and the mirrors it is fetched from.
// {version} in a URL is replaced with Version.
type Dataset struct {
	Version       string   `toml:"version"`
	DatasetURLs   []string `toml:"dataset_urls"`
	ShortcodeURLs []string `toml:"shortcode_urls"`
	TimeoutSec    int      `toml:"timeout_sec"`
}

// Popup controls suggestion list geometry.
type Popup struct {
	MaxItems    int `toml:"max_items"`
	Visible     int `toml:"visible"`
	Margin      int `toml:"margin"`
	OffsetBelow int `toml:"offset_below"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Toggle    []string `toml:"toggle"`
	Up        []string `toml:"up"`
	Down      []string `toml:"down"`
	Commit    []string `toml:"commit"`
	Dismiss   []string `toml:"dismiss"`
	Retry     []string `toml:"retry"`
	Quit      []string `toml:"quit"`
	NextFocus []string `toml:"next_focus"`
	Snippets  []string `toml:"snippets"`
	Enable    []string `toml:"enable"`
	Save      []string `toml:"save"`
	Help      []string `toml:"help"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Store: Profile{Name: "default", Type: "sqlite"},
		Dataset: Dataset{
			Version:       "15.3.0",
			DatasetURLs:   append([]string(nil), emoji.DefaultDatasetURLs...),
			ShortcodeURLs: append([]string(nil), emoji.DefaultShortcodeURLs...),
			TimeoutSec:    15,
		},
		Popup: Popup{
			MaxItems:    12,
			Visible:     6,
			Margin:      1,
			OffsetBelow: 1,
		},
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
		Keys: KeyMap{
			Toggle:    []string{"f8"},
			Up:        []string{"up", "ctrl+p"},
			Down:      []string{"down", "ctrl+n"},
			Commit:    []string{"enter", "tab"},
			Dismiss:   []string{"esc"},
			Retry:     []string{"ctrl+r"},
			Quit:      []string{"ctrl+c", "ctrl+q"},
			NextFocus: []string{"ctrl+o"},
			Snippets:  []string{"ctrl+t"},
			Enable:    []string{"ctrl+e"},
			Save:      []string{"ctrl+s"},
			Help:      []string{"f1"},
		},
		AutoExpand: true,
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("ezmoji/config.toml")
}

// Load loads the config from the XDG location, creating it on first run.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path")
	}
	return LoadFile(path)
}

// LoadFile loads the config at path or writes defaults there.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	cfg.path = path

	if cfg.migrate() {
		// Save updated config to persist defaults so user can see/edit them.
		// In-memory defaults still apply if this fails.
		_ = cfg.Save()
	}

	if cfg.Store.EncryptedPassword != "" {
		if key, err := GetMasterKey(); err == nil {
			if plain, err := Decrypt(cfg.Store.EncryptedPassword, key); err == nil {
				cfg.Store.Password = plain
			}
		}
	}

	return &cfg, nil
}

// migrate fills sections missing from older files. It reports whether anything
// changed.
func (c *Config) migrate() bool {
	defaults := DefaultConfig()
	updated := false

	if c.Store.Type == "" {
		c.Store = defaults.Store
		updated = true
	}
	if c.Dataset.Version == "" {
		c.Dataset.Version = defaults.Dataset.Version
		updated = true
	}
	if len(c.Dataset.DatasetURLs) == 0 {
		c.Dataset.DatasetURLs = defaults.Dataset.DatasetURLs
		updated = true
	}
	if len(c.Dataset.ShortcodeURLs) == 0 {
		c.Dataset.ShortcodeURLs = defaults.Dataset.ShortcodeURLs
		updated = true
	}
	if c.Dataset.TimeoutSec <= 0 {
		c.Dataset.TimeoutSec = defaults.Dataset.TimeoutSec
		updated = true
	}
	if c.Popup.MaxItems <= 0 {
		c.Popup = defaults.Popup
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	for _, k := range c.Keys.bindings(&defaults.Keys) {
		if len(*k.cur) == 0 {
			*k.cur = k.def
			updated = true
		}
	}
	return updated
}

type binding struct {
	cur *[]string
	def []string
}

func (k *KeyMap) bindings(def *KeyMap) []binding {
	return []binding{
		{&k.Toggle, def.Toggle}, {&k.Up, def.Up}, {&k.Down, def.Down},
		{&k.Commit, def.Commit}, {&k.Dismiss, def.Dismiss}, {&k.Retry, def.Retry},
		{&k.Quit, def.Quit}, {&k.NextFocus, def.NextFocus}, {&k.Snippets, def.Snippets},
		{&k.Enable, def.Enable}, {&k.Save, def.Save}, {&k.Help, def.Help},
	}
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string { return c.path }

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return errors.Wrap(err, "resolve config path")
		}
		path = p
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer f.Close()

	if c.Store.Password != "" {
		if key, err := GetMasterKey(); err == nil {
			if enc, err := Encrypt(c.Store.Password, key); err == nil {
				c.Store.EncryptedPassword = enc
			}
		}
	}

	return errors.Wrap(toml.NewEncoder(f).Encode(c), "encode config")
}
