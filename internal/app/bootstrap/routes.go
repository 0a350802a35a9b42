// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	authgooglefeature "github.com/dalemusser/doubtspanel/internal/app/features/authgoogle"
	doubtsfeature "github.com/dalemusser/doubtspanel/internal/app/features/doubts"
	errorsfeature "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	healthfeature "github.com/dalemusser/doubtspanel/internal/app/features/health"
	homefeature "github.com/dalemusser/doubtspanel/internal/app/features/home"
	logoutfeature "github.com/dalemusser/doubtspanel/internal/app/features/logout"
	repliesfeature "github.com/dalemusser/doubtspanel/internal/app/features/replies"
	searchfeature "github.com/dalemusser/doubtspanel/internal/app/features/search"
	solvedfeature "github.com/dalemusser/doubtspanel/internal/app/features/solved"
	userinfofeature "github.com/dalemusser/doubtspanel/internal/app/features/userinfo"
	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	loginstore "github.com/dalemusser/doubtspanel/internal/app/store/logins"
	"github.com/dalemusser/doubtspanel/internal/app/store/oauthstate"
	replystore "github.com/dalemusser/doubtspanel/internal/app/store/replies"
	"github.com/dalemusser/doubtspanel/internal/app/system/allowlist"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/identity"
	"github.com/dalemusser/doubtspanel/internal/app/system/inflight"
	"github.com/dalemusser/doubtspanel/internal/app/system/metrics"
	"github.com/dalemusser/doubtspanel/internal/app/system/ratelimit"
	"github.com/dalemusser/doubtspanel/internal/app/system/solved"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Every component gets its collaborators
// through its constructor; nothing is reached through package globals.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	allow := allowlist.New(appCfg.AllowedEmailSuffix)

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, allow, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	m := metrics.New()

	uploader, err := buildUploader(appCfg, m)
	if err != nil {
		logger.Error("attachment uploader init failed", zap.Error(err))
		return nil, err
	}

	gateway := identity.NewGateway(identity.NewGoogle(identity.GoogleConfig{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		RedirectURL:  appCfg.BaseURL + "/auth/google/callback",
		HostedDomain: strings.TrimPrefix(allow.Suffix(), "@"),
	}), allow, logger)

	doubts := doubtstore.New(deps.MongoDatabase)
	replies := replystore.New(deps.MongoDatabase)

	errLog := errorsfeature.NewErrorLogger(logger)
	t := appCfg.Timeouts

	// One create/edit/delete at a time per account and action.
	writeGuard := inflight.New().Middleware(inflight.AccountAction, func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.WriteError(w, http.StatusConflict, inflight.MsgBusy)
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(appCfg.CORSOrigins))
	r.Use(m.Middleware)

	// Global auth middleware: restores the account from the session cookie.
	// The access guard on protected routers reads what this stores.
	r.Use(sessionMgr.LoadSessionUser)

	// Public endpoints
	r.Mount("/", homefeature.Routes(homefeature.NewHandler(logger)))

	healthHandler := healthfeature.NewHandler(deps.MongoClient, t, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Identity gateway
	googleHandler := authgooglefeature.NewHandler(gateway, sessionMgr,
		oauthstate.New(deps.MongoDatabase), loginstore.New(deps.MongoDatabase),
		t, appCfg.FrontendURL, logger)
	throttle := deps.SignIns.Middleware(func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.WriteError(w, http.StatusTooManyRequests, ratelimit.MsgTooManySignIns)
	})
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler, throttle))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	logoutHandler := logoutfeature.NewHandler(sessionMgr, gateway, deps.Search, t, appCfg.FrontendURL, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Board
	doubtsHandler := doubtsfeature.NewHandler(doubts, replies, uploader, errLog, t, logger)
	r.Mount("/doubts", doubtsfeature.Routes(doubtsHandler, sessionMgr, writeGuard))

	repliesHandler := repliesfeature.NewHandler(replies, doubts, uploader, errLog, t, logger)
	r.Mount("/doubts/{id}/replies", repliesfeature.Routes(repliesHandler, sessionMgr, writeGuard))

	solvedHandler := solvedfeature.NewHandler(solved.New(doubts, replies, 0), errLog, t, logger)
	r.Mount("/solved-doubts", solvedfeature.Routes(solvedHandler, sessionMgr))

	searchHandler := searchfeature.NewHandler(deps.Search, errLog, t, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler, sessionMgr))

	return r, nil
}

// buildUploader selects the attachment backend and wraps it with upload
// metrics.
func buildUploader(appCfg AppConfig, m *metrics.Metrics) (attachments.Uploader, error) {
	var next attachments.Uploader
	switch appCfg.AttachmentsBackend {
	case backendCloudinary:
		next = attachments.NewCloudinary(appCfg.CloudinaryEndpoint, appCfg.CloudinaryCloudName, appCfg.CloudinaryUploadPreset, nil)
	case backendS3:
		store, err := attachments.NewObjectStore(attachments.ObjectStoreConfig{
			Endpoint:  appCfg.S3Endpoint,
			AccessKey: appCfg.S3AccessKey,
			SecretKey: appCfg.S3SecretKey,
			Bucket:    appCfg.S3Bucket,
			UseSSL:    appCfg.S3UseSSL,
			Prefix:    "attachments/",
			PublicURL: appCfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		next = store
	default:
		return nil, fmt.Errorf("unknown attachments backend %q", appCfg.AttachmentsBackend)
	}
	return attachments.Instrumented{Backend: appCfg.AttachmentsBackend, Next: next, Obs: m}, nil
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "HX-Request"},
		ExposedHeaders:   []string{"Location", searchfeature.StaleHeader, "HX-Redirect"},
		AllowCredentials: true,
	}).Handler
}
