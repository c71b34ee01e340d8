/*
DESCRIPTION
  config.go locates ytup's files and reads the user's defaults.

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean)

  This file is part of ytup. ytup is free software: you can
  redistribute it and/or modify it under the terms of the GNU
  General Public License as published by the Free Software
  Foundation, either version 3 of the License, or (at your option)
  any later version.

  ytup is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see <http://www.gnu.org/licenses/>.
*/

// Package config provides ytup's file locations and user defaults.
//
// Files live under the XDG base directories, falling back to ~/.config,
// ~/.local/share and ~/.local/state. A .env file in the config directory is
// loaded into the environment without overriding variables already set.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/ausocean/ytup/schedule"
	"github.com/ausocean/ytup/youtube"
)

// Environment variables.
const (
	EnvSecrets = "YTUP_SECRETS"
	EnvToken   = "YTUP_TOKEN_CACHE"
)

// File names within the ytup directories.
const (
	appDir       = "ytup"
	envFile      = ".env"
	defaultsFile = "defaults.json"
	secretsFile  = "client_secret.json"
	tokenFile    = "token_cache.json"
	logFile      = "ytup.log"
)

// Paths holds ytup's per-user directories.
type Paths struct {
	Config string // Client secrets, defaults and .env.
	Data   string // Token cache.
	State  string // Log file.
}

// DefaultPaths returns the directories for the current user.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("could not find home directory: %w", err)
	}
	return Paths{
		Config: filepath.Join(xdg("XDG_CONFIG_HOME", home, ".config"), appDir),
		Data:   filepath.Join(xdg("XDG_DATA_HOME", home, ".local", "share"), appDir),
		State:  filepath.Join(xdg("XDG_STATE_HOME", home, ".local", "state"), appDir),
	}, nil
}

// xdg returns the directory named by env, or home joined with rel when env is
// unset or not absolute.
func xdg(env, home string, rel ...string) string {
	dir := os.Getenv(env)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(append([]string{home}, rel...)...)
}

// LoadEnv loads the .env file in the config directory, if there is one.
func (p Paths) LoadEnv() error {
	err := godotenv.Load(filepath.Join(p.Config, envFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not load %s: %w", envFile, err)
	}
	return nil
}

// Secrets returns the client secrets location.
func (p Paths) Secrets() string {
	return envOr(EnvSecrets, filepath.Join(p.Config, secretsFile))
}

// Token returns the token cache location.
func (p Paths) Token() string {
	return envOr(EnvToken, filepath.Join(p.Data, tokenFile))
}

// Log returns the log file path.
func (p Paths) Log() string {
	return filepath.Join(p.State, logFile)
}

// Defaults returns the path of the defaults file.
func (p Paths) Defaults() string {
	return filepath.Join(p.Config, defaultsFile)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Defaults holds the user's preferences. Every field is optional.
//
// The video details are used when the user starts from the defaults rather
// than from one of their videos. Category may be an ID or a category name.
type Defaults struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	Category      string   `json:"category"`
	PrivacyStatus string   `json:"privacy_status"`

	// PublishTime is the time of day, as HHMM, that videos are scheduled for.
	PublishTime string `json:"publish_time"`

	// SearchLimit is the number of recent videos offered.
	SearchLimit int `json:"search_limit"`

	// Editor is the command used to edit video details.
	Editor string `json:"editor"`
}

// LoadDefaults reads the defaults file at name. A missing file gives zero
// Defaults and no error.
func LoadDefaults(name string) (Defaults, error) {
	var d Defaults
	b, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("could not read defaults: %w", err)
	}

	err = json.Unmarshal(b, &d)
	if err != nil {
		return d, fmt.Errorf("could not decode defaults %s: %w", name, err)
	}
	if d.SearchLimit < 0 || d.SearchLimit > youtube.MaxSearchResults {
		return d, fmt.Errorf("invalid search_limit %d in %s: must be 0 to %d", d.SearchLimit, name, youtube.MaxSearchResults)
	}
	return d, nil
}

// Request returns the upload request seeded from the default video details.
// A category name is converted to its ID and an empty privacy status is
// private. The publish time is left for the caller to set.
func (d Defaults) Request() youtube.UploadRequest {
	req := youtube.UploadRequest{
		Title:         d.Title,
		Description:   d.Description,
		Tags:          append([]string{}, d.Tags...),
		Category:      d.Category,
		PrivacyStatus: d.PrivacyStatus,
	}
	if id := youtube.SanitiseCategory(d.Category); id != "" {
		req.Category = id
	}
	if req.PrivacyStatus == "" {
		req.PrivacyStatus = youtube.DefaultPrivacy
	}
	return req
}

// PublishOffset returns the publish time as an offset from midnight, zero if
// none is set.
func (d Defaults) PublishOffset() (time.Duration, error) {
	return schedule.ParseTimeOfDay(d.PublishTime)
}
