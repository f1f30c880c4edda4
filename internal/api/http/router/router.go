// Package router wires handlers and middleware into the HTTP route table.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appctx "github.com/blacknode/vault-server/internal/api/http/context"
	"github.com/blacknode/vault-server/internal/api/http/cookie"
	"github.com/blacknode/vault-server/internal/api/http/handler"
	"github.com/blacknode/vault-server/internal/api/http/middleware"
	"github.com/blacknode/vault-server/internal/logger"
)

// Router assembles the HTTP API from its services and middleware.
type Router struct {
	authService    handler.AuthService
	vaultService   handler.VaultService
	sessionService middleware.SessionService
	cookies        *cookie.Writer
	contextManager *appctx.Manager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	vaultService handler.VaultService,
	sessionService middleware.SessionService,
	cookies *cookie.Writer,
	contextManager *appctx.Manager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		vaultService:   vaultService,
		sessionService: sessionService,
		cookies:        cookies,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the route table. Auth routes are public except the 2FA
// enrollment pair, which needs a live session; everything under /api/vault
// sits behind the session middleware.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.sessionService, r.cookies, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.cookies, r.contextManager, r.logger)
	vaultHandler := handler.NewVault(r.vaultService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handler)

	mux.Route("/api/auth", func(mux chi.Router) {
		mux.Post("/register", authHandler.Register)
		mux.Post("/login", authHandler.Login)
		mux.Post("/2fa/verify", authHandler.VerifyTwoFactor)
		mux.Post("/logout", authHandler.Logout)

		mux.Group(func(mux chi.Router) {
			mux.Use(authenticate.Handler)
			mux.Post("/2fa/setup", authHandler.SetupTwoFactor)
			mux.Post("/2fa/enable", authHandler.EnableTwoFactor)
		})
	})

	mux.Route("/api/vault", func(mux chi.Router) {
		mux.Use(authenticate.Handler)
		mux.Post("/folders", vaultHandler.CreateFolder)
		mux.Get("/folders", vaultHandler.ListFolders)
		mux.Get("/files", vaultHandler.ListFiles)
		mux.Post("/upload", vaultHandler.Upload)
		mux.Patch("/files/move", vaultHandler.MoveFile)
		mux.Delete("/files/{fileID}", vaultHandler.DeleteFile)
		mux.Post("/sign-upload", vaultHandler.SignUpload)
		mux.Post("/sign-download", vaultHandler.SignDownload)
	})

	return mux
}
