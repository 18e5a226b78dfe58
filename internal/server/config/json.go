package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lifememo/navi/internal/flagx"
	"github.com/lifememo/navi/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "168h" style strings or integer nanoseconds. Keys missing from the file
// keep their previous value.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	EncryptionKey               string         `json:"encryption_key"`
	StrictCiphertext            bool           `json:"strict_ciphertext"`
	TrialPeriod                 timex.Duration `json:"trial_period"`
	AdminKey                    string         `json:"admin_key"`
	AllowedOrigins              []string       `json:"allowed_origins"`
	MaxUploadBytes              int64          `json:"max_upload_bytes"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	LogLevel                    string         `json:"log_level"`
	StorageBackend              string         `json:"storage_backend"`
	UploadDir                   string         `json:"upload_dir"`
	PublicUploadPrefix          string         `json:"public_upload_prefix"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3PublicBaseURL             string         `json:"s3_public_base_url"`
	GeminiAPIKey                string         `json:"gemini_api_key"`
	GeminiModel                 string         `json:"gemini_model"`
	FontPath                    string         `json:"font_path"`
}

func toJSON(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:                    c.HTTPAddr,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		EncryptionKey:               c.EncryptionKey,
		StrictCiphertext:            c.StrictCiphertext,
		TrialPeriod:                 timex.Duration{Duration: c.TrialPeriod},
		AdminKey:                    c.AdminKey,
		AllowedOrigins:              c.AllowedOrigins,
		MaxUploadBytes:              c.MaxUploadBytes,
		ShutdownTimeout:             timex.Duration{Duration: c.ShutdownTimeout},
		LogLevel:                    c.LogLevel,
		StorageBackend:              c.StorageBackend,
		UploadDir:                   c.UploadDir,
		PublicUploadPrefix:          c.PublicUploadPrefix,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		S3PublicBaseURL:             c.S3PublicBaseURL,
		GeminiAPIKey:                c.GeminiAPIKey,
		GeminiModel:                 c.GeminiModel,
		FontPath:                    c.FontPath,
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.HTTPAddr = j.HTTPAddr
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.AccessTokenValidityDuration = j.AccessTokenValidityDuration.Duration
	c.EncryptionKey = j.EncryptionKey
	c.StrictCiphertext = j.StrictCiphertext
	c.TrialPeriod = j.TrialPeriod.Duration
	c.AdminKey = j.AdminKey
	c.AllowedOrigins = j.AllowedOrigins
	c.MaxUploadBytes = j.MaxUploadBytes
	c.ShutdownTimeout = j.ShutdownTimeout.Duration
	c.LogLevel = j.LogLevel
	c.StorageBackend = j.StorageBackend
	c.UploadDir = j.UploadDir
	c.PublicUploadPrefix = j.PublicUploadPrefix
	c.S3RootUser = j.S3RootUser
	c.S3RootPassword = j.S3RootPassword
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.S3PublicBaseURL = j.S3PublicBaseURL
	c.GeminiAPIKey = j.GeminiAPIKey
	c.GeminiModel = j.GeminiModel
	c.FontPath = j.FontPath
}

// parseJSON overlays the file named by -c/-config, if any.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	j := toJSON(config)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	j.apply(config)
	return nil
}
