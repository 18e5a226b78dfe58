package config

import (
	"fmt"
	"strconv"
	"strings"
)

// parseEnv overlays environment variables. Names follow the deployment
// conventions of the hosted service (DATABASE_URL, JWT_SECRET, ...).
func parseEnv(c *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		c.HTTPAddr = ":" + v
	}
	str("HTTP_ADDR", &c.HTTPAddr)
	str("DATABASE_URL", &c.DatabaseDSN)
	str("JWT_SECRET", &c.SecretKey)
	str("ENCRYPTION_KEY", &c.EncryptionKey)
	str("ADMIN_SECRET_KEY", &c.AdminKey)
	str("LOG_LEVEL", &c.LogLevel)
	str("STORAGE_BACKEND", &c.StorageBackend)
	str("UPLOAD_DIR", &c.UploadDir)
	str("S3_ACCESS_KEY", &c.S3RootUser)
	str("S3_SECRET_KEY", &c.S3RootPassword)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_ENDPOINT", &c.S3BaseEndpoint)
	str("S3_PUBLIC_URL", &c.S3PublicBaseURL)
	str("GEMINI_API_KEY", &c.GeminiAPIKey)
	str("GEMINI_MODEL", &c.GeminiModel)
	str("PDF_FONT_PATH", &c.FontPath)

	if v, ok := lookup("FRONTEND_URL"); ok && v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("STRICT_CIPHERTEXT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_CIPHERTEXT: %w", err)
		}
		c.StrictCiphertext = b
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
