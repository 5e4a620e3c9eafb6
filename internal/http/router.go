package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/liftlog/accounts/internal/domain"
	"github.com/liftlog/accounts/internal/service"
	"github.com/liftlog/accounts/internal/store"
	"github.com/liftlog/accounts/pkg/httpx"
	"github.com/liftlog/accounts/pkg/jwtx"
	"github.com/liftlog/accounts/pkg/passpolicy"
	"github.com/liftlog/accounts/pkg/slogx"

	_ "github.com/liftlog/accounts/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	policy       passpolicy.Policy
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	UserService  *service.UserService
	TokenService *service.TokenService
	ResetService *service.ResetService
}

func NewRouter(
	verifier jwtx.Verifier,
	policy passpolicy.Policy,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		policy:       policy,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswordReset()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			LiftLog Accounts API
//	@version		0.1.0
//	@description	Credential and access-control service for the LiftLog workout tracker. Issues
//	@description	HS256-signed JWT access tokens and manages accounts, password policy and
//	@description	single-use password reset tokens.
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP (public account creation)
	registerHandler := &RegisterHandler{UserService: r.UserService}
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /password-policy - public, cheap
	r.Mux.Handle("GET /api/auth/password-policy",
		httpx.Chain(PasswordPolicyHandler(r.policy),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// PUT /change-password - authenticated, moderate limit by user
	changeHandler := &ChangePasswordHandler{UserService: r.UserService}
	r.Mux.Handle("PUT /api/auth/change-password",
		httpx.Chain(changeHandler,
			httpx.Authn(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /me - authenticated
	meHandler := &MeHandler{UserService: r.UserService}
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(meHandler,
			httpx.Authn(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	// POST /forgot-password - strict limit keyed on IP + submitted email so
	// one address cannot be hammered from a single host
	forgotHandler := &ForgotPasswordHandler{ResetService: r.ResetService}
	r.Mux.Handle("POST /api/auth/forgot-password",
		httpx.Chain(forgotHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /reset-password - moderate limit by IP
	resetHandler := &ResetPasswordHandler{ResetService: r.ResetService}
	r.Mux.Handle("POST /api/auth/reset-password",
		httpx.Chain(resetHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminUsersHandler{UserService: r.UserService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.Authn(r.verifier),
			httpx.RequireRole(string(domain.RoleAdmin)),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /api/admin/users", secured(h.HandleList))
	r.Mux.Handle("POST /api/admin/users", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/admin/users/{id}", secured(h.HandleGet))
	r.Mux.Handle("PUT /api/admin/users/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/admin/users/{id}", secured(h.HandleDelete))
	r.Mux.Handle("POST /api/admin/users/{id}/reset-password", secured(h.HandleResetPassword))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
