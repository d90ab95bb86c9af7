package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"

	_ "github.com/aussiebroadwan/inkwell/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store                store.Store
	SessionService       *service.SessionService
	AccountService       *service.AccountService
	PasswordResetService *service.PasswordResetService
	VerificationService  *service.EmailVerificationService

	// ThrottleBackend is checked by /readyz when login failures are kept
	// outside the database. Nil otherwise.
	ThrottleBackend Pinger

	// TrustedProxies may set X-Forwarded-For. Empty means the connection
	// peer is the client.
	TrustedProxies []netip.Prefix
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// Every per-IP limit and recorded IP below reads the resolved address
	r.middlewares = append([]httpx.Middleware{httpx.ClientIPMiddleware(r.TrustedProxies)}, r.middlewares...)

	r.registerSession()
	r.registerAccount()
	r.registerPasswordReset()
	r.registerVerification()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Inkwell Authentication Service API
//	@version		0.1.0
//	@description	Account and session service for the Inkwell journaling backend.
//	@description
//	@description				Access tokens are HS256 signed and short lived; refresh tokens are opaque and single use.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/inkwell
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService}

	// POST /auth/signup - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit by IP + login field to slow guessing
	// before the per-identifier throttle kicks in
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "login"),
		),
	)

	// POST /auth/refresh - moderate rate limit by IP
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/logout - authenticated, moderate rate limit by user
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{Accounts: r.AccountService}

	secured := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /auth/me", secured(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("PUT /auth/user", secured(h.HandleUpdate, httpx.ModerateLimit))
	// Strict: the current password is guessable through this endpoint
	r.Mux.Handle("POST /auth/change-password", secured(h.HandleChangePassword, httpx.StrictLimit))
	r.Mux.Handle("DELETE /auth/account", secured(h.HandleDelete, httpx.StrictLimit))
}

func (r *Router) registerPasswordReset() {
	h := &PasswordResetHandler{Resets: r.PasswordResetService}

	// Both sides of the reset flow send or accept secrets: strict by IP
	r.Mux.Handle("POST /auth/reset-password-request",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerVerification() {
	h := &VerificationHandler{Verifications: r.VerificationService}

	// Sending mail is also limited per email and per IP by the service
	r.Mux.Handle("POST /auth/send-verification-code",
		httpx.Chain(http.HandlerFunc(h.HandleSendCode),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	// Six digit codes are guessable: strict by IP
	r.Mux.Handle("POST /auth/verify-email-code",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyCode),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/validate-email-token",
		httpx.Chain(http.HandlerFunc(h.HandleValidateToken),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.ThrottleBackend, r.verifier != nil),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
