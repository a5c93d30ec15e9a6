package config

import (
	"encoding/json"
	"os"

	"github.com/avolkov/pawshare/internal/flagx"
	"github.com/avolkov/pawshare/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both duration
// strings such as "15m" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	PhotoBucket                  string         `json:"photo_bucket"`
	AvatarBucket                 string         `json:"avatar_bucket"`
	PublicURLBase                string         `json:"public_url_base"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is named, nothing
// is loaded. An unreadable or malformed file panics: a config file that was
// explicitly requested must not be silently skipped.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	// Seed from the current values so a partial file overrides only the
	// keys it names; absent keys keep the defaults.
	c := &JsonConfig{
		DatabaseDSN:                  config.DatabaseDSN,
		SecretKey:                    config.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: config.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: config.RefreshTokenValidityDuration},
		S3RootUser:                   config.S3RootUser,
		S3RootPassword:               config.S3RootPassword,
		S3Region:                     config.S3Region,
		S3BaseEndpoint:               config.S3BaseEndpoint,
		PhotoBucket:                  config.PhotoBucket,
		AvatarBucket:                 config.AvatarBucket,
		PublicURLBase:                config.PublicURLBase,
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PhotoBucket = c.PhotoBucket
	config.AvatarBucket = c.AvatarBucket
	config.PublicURLBase = c.PublicURLBase
}
