package config

import (
	"github.com/joho/godotenv"
)

// LoadDotEnv loads local env files before the YAML config is read.
// godotenv never overwrites variables that are already set, so the
// effective precedence is OS environment > .env.local > .env.
// Returns the files actually loaded.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	return loaded
}
