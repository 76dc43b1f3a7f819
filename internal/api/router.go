package api

import (
	"net/http"
	"time"

	"spidyleet/internal/api/handler"
	"spidyleet/internal/app/service"
	"spidyleet/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth       *service.AuthService
	Problems   *service.ProblemService
	Authoring  *service.AuthoringService
	Workspaces *service.WorkspaceService
}

func NewRouter(allowedOrigins []string, issuer *security.TokenIssuer, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	// judging calls can take a while on the backend
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Token from "Authorization: Bearer T" or the jwt cookie set on login.
	r.Use(jwtauth.Verify(issuer.Auth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(svc.Auth, issuer.Expiry())
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(svc.Problems, svc.Authoring)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		workspaceHandler := handler.NewWorkspaceHandler(svc.Workspaces)
		v1.Route("/workspaces", workspaceHandler.RegisterRoutes)
	})

	return r
}
