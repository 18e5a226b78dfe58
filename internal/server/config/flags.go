package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lifememo/navi/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-t", "-k", "-strict-tokens", "-trial", "-admin-key", "-origins",
	"-max-upload", "-log-level", "-storage", "-upload-dir", "-upload-prefix",
	"-u", "-p", "-b", "-g", "-e", "-s3-public-url", "-gemini-key", "-gemini-model", "-font",
}

// parseFlags overlays command-line flags. Only the names in knownFlags are
// looked at, so -c/-config and foreign flags pass through untouched.
//
//	-a string      HTTP bind address (":3001")
//	-d string      PostgreSQL DSN
//	-s string      token signing secret
//	-t duration    access token lifetime
//	-k string      64-hex encryption key
//	-u/-p/-b/-g/-e S3 user, password, bucket, region, endpoint
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "encryption key (64 hex characters)")
	fs.BoolVar(&config.StrictCiphertext, "strict-tokens", config.StrictCiphertext, "reject malformed ciphertext instead of passing it through")
	fs.DurationVar(&config.TrialPeriod, "trial", config.TrialPeriod, "trial period for new accounts")
	fs.StringVar(&config.AdminKey, "admin-key", config.AdminKey, "operator key for admin endpoints")
	origins := fs.String("origins", strings.Join(config.AllowedOrigins, ","), "comma-separated CORS origins")
	fs.Int64Var(&config.MaxUploadBytes, "max-upload", config.MaxUploadBytes, "maximum photo size in bytes")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "debug|info|warn|error")
	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "photo storage backend: local|s3")
	fs.StringVar(&config.UploadDir, "upload-dir", config.UploadDir, "local photo directory")
	fs.StringVar(&config.PublicUploadPrefix, "upload-prefix", config.PublicUploadPrefix, "URL prefix for local photos")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "s3-public-url", config.S3PublicBaseURL, "public base URL of stored objects")
	fs.StringVar(&config.GeminiAPIKey, "gemini-key", config.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&config.GeminiModel, "gemini-model", config.GeminiModel, "Gemini model name")
	fs.StringVar(&config.FontPath, "font", config.FontPath, "TTF font for PDF output")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	config.AllowedOrigins = splitList(*origins)
	return nil
}
