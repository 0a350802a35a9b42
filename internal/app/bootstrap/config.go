// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	backendCloudinary = "cloudinary"
	backendS3         = "s3"
)

// appConfigKeys defines the configuration keys for the doubts panel.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: DOUBTSPANEL_MONGO_URI, DOUBTSPANEL_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "doubts_panel", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "doubtspanel-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public URL of this service (OAuth callback is derived from it)"},
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Front end URL browsers return to after sign-in and sign-out"},
	{Name: "cors_origins", Default: "http://localhost:3000", Desc: "Comma-separated origins allowed to call the API"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	{Name: "allowed_email_suffix", Default: "@srmist.edu.in", Desc: "Email suffix an account must carry to be admitted"},

	// Attachment storage
	{Name: "attachments_backend", Default: backendCloudinary, Desc: "Attachment backend: 'cloudinary' or 's3'"},
	{Name: "cloudinary_endpoint", Default: "", Desc: "Cloudinary upload API base (blank uses the public API)"},
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary cloud name"},
	{Name: "cloudinary_upload_preset", Default: "", Desc: "Cloudinary unsigned upload preset"},
	{Name: "s3_endpoint", Default: "", Desc: "S3-compatible endpoint (host[:port])"},
	{Name: "s3_access_key", Default: "", Desc: "S3 access key"},
	{Name: "s3_secret_key", Default: "", Desc: "S3 secret key"},
	{Name: "s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "s3_use_ssl", Default: true, Desc: "Use TLS for the S3 endpoint"},
	{Name: "s3_public_url", Default: "", Desc: "Base URL uploaded objects are served from"},

	{Name: "search_debounce", Default: "300ms", Desc: "Quiet period before a search keystroke fetches"},

	// Handler timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Budget for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Budget for listings and search fetches"},
	{Name: "timeout_long", Default: "30s", Desc: "Budget for fan-out reads and cascading deletes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// DOUBTSPANEL_* environment variables and command-line flags, merged with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DOUBTSPANEL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		BaseURL:     strings.TrimRight(appValues.String("base_url"), "/"),
		FrontendURL: strings.TrimRight(appValues.String("frontend_url"), "/"),
		CORSOrigins: splitList(appValues.String("cors_origins")),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		AllowedEmailSuffix: appValues.String("allowed_email_suffix"),

		// Attachments
		AttachmentsBackend:     strings.ToLower(strings.TrimSpace(appValues.String("attachments_backend"))),
		CloudinaryEndpoint:     appValues.String("cloudinary_endpoint"),
		CloudinaryCloudName:    appValues.String("cloudinary_cloud_name"),
		CloudinaryUploadPreset: appValues.String("cloudinary_upload_preset"),
		S3Endpoint:             appValues.String("s3_endpoint"),
		S3AccessKey:            appValues.String("s3_access_key"),
		S3SecretKey:            appValues.String("s3_secret_key"),
		S3Bucket:               appValues.String("s3_bucket"),
		S3UseSSL:               appValues.Bool("s3_use_ssl"),
		S3PublicURL:            appValues.String("s3_public_url"),

		SearchDebounce: appValues.Duration("search_debounce", 300*time.Millisecond),

		Timeouts: timeouts.Defaults().Merge(timeouts.Timeouts{
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		}),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here so configuration errors surface
// before a connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(appCfg.AllowedEmailSuffix), "@") {
		return fmt.Errorf("allowed_email_suffix must start with '@' (got %q)", appCfg.AllowedEmailSuffix)
	}

	switch appCfg.AttachmentsBackend {
	case backendCloudinary:
		if appCfg.CloudinaryCloudName == "" || appCfg.CloudinaryUploadPreset == "" {
			return fmt.Errorf("cloudinary backend requires cloudinary_cloud_name and cloudinary_upload_preset")
		}
	case backendS3:
		if appCfg.S3Endpoint == "" || appCfg.S3Bucket == "" {
			return fmt.Errorf("s3 backend requires s3_endpoint and s3_bucket")
		}
	default:
		return fmt.Errorf("attachments_backend must be %q or %q (got %q)", backendCloudinary, backendS3, appCfg.AttachmentsBackend)
	}

	if appCfg.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce must not be negative")
	}

	return nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
