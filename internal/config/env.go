package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config fields from environment variables declared in the
// struct's env tags. Unset variables leave the current values in place.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
