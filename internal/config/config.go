// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"derrclan.com/daily-seed/internal/notify"
)

type Config struct {
	Addr   string
	DBPath string

	Title       string
	PageContent string

	AdminUser         string
	AdminPasswordHash string

	Mailgun notify.MailgunConfig
}

// Load reads the given .env files (default ".env") into the process
// environment without overriding variables already set, then builds
// the Config. A missing default .env file is not an error.
func Load(files ...string) (Config, error) {
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) Config {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	return Config{
		Addr:              get("DAILY_SEED_ADDR", ":42069"),
		DBPath:            get("DAILY_SEED_DB", "daily-seed.db"),
		Title:             get("DAILY_SEED_TITLE", "Verse of the Day"),
		PageContent:       get("DAILY_SEED_PAGE_CONTENT", "[daily_seed]"),
		AdminUser:         get("DAILY_SEED_ADMIN_USER", "admin"),
		AdminPasswordHash: getenv("DAILY_SEED_ADMIN_PASSWORD_HASH"),
		Mailgun: notify.MailgunConfig{
			Domain:    getenv("MAILGUN_DOMAIN"),
			APIKey:    getenv("MAILGUN_API_KEY"),
			Sender:    getenv("MAILGUN_SENDER"),
			Recipient: getenv("DAILY_SEED_ADMIN_EMAIL"),
		},
	}
}
