package rest

import (
	"academyhub/docs"
	"academyhub/internal/config"
	"academyhub/internal/logger"
	"academyhub/internal/service"
	"academyhub/internal/transport/rest/handler"
	"academyhub/internal/transport/rest/middleware"
	"academyhub/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	Config            *config.Config
	Logger            *logger.Logger
	AuthService       *service.AuthService
	CatalogService    *service.CatalogService
	DiagnosticService *service.DiagnosticService
	LeadService       *service.LeadService
	StatsService      *service.StatsService
	RateLimiter       *middleware.RateLimiter
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	log := c.Logger

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, log)
	diagnosticHandler := handler.NewDiagnosticHandler(c.DiagnosticService, log)
	memberHandler := handler.NewMemberHandler(c.DiagnosticService, log)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService, log)
	leadHandler := handler.NewLeadHandler(c.LeadService, c.DiagnosticService, c.StatsService, log)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Config.AllowedOrigins, log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config.AllowedOrigins))
	r.Use(middleware.RequestLogger(log))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := docs.Read()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/admin/leads", wsHandler.AdminWS).Methods("GET")

	// Public routes (rate limited)
	public := v1.NewRoute().Subrouter()
	public.Use(c.RateLimiter.Middleware)

	public.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	public.HandleFunc("/accounts/login", authHandler.MemberLogin).Methods("POST", "OPTIONS")
	public.HandleFunc("/diagnostics/sessions", diagnosticHandler.Start).Methods("POST", "OPTIONS")

	// Wizard routes (require the session token issued at start)
	sessionRoutes := public.PathPrefix("/diagnostics/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", diagnosticHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("", diagnosticHandler.Abandon).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/lead", diagnosticHandler.SubmitLead).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/answers/{questionId}", diagnosticHandler.Answer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/back", diagnosticHandler.Back).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/complete", diagnosticHandler.Complete).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/signup", diagnosticHandler.Signup).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/login", diagnosticHandler.Login).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/results", diagnosticHandler.Results).Methods("GET", "OPTIONS")

	// Member routes (require account auth)
	memberRoutes := v1.PathPrefix("/me").Subrouter()
	memberRoutes.Use(authMW.RequireAccount)

	memberRoutes.HandleFunc("/diagnostics", memberHandler.List).Methods("GET", "OPTIONS")
	memberRoutes.HandleFunc("/diagnostics/compare", memberHandler.Compare).Methods("GET", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questions", catalogHandler.ListQuestions).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions", catalogHandler.CreateQuestion).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", catalogHandler.UpdateQuestion).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", catalogHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/rules", catalogHandler.ListRules).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/rules", catalogHandler.CreateRule).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/rules/{id}", catalogHandler.UpdateRule).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/rules/{id}", catalogHandler.DeleteRule).Methods("DELETE", "OPTIONS")

	adminRoutes.HandleFunc("/leads/queue", leadHandler.Queue).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/leads/queue/{id}", leadHandler.Dismiss).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/leads", leadHandler.List).Methods("GET", "OPTIONS")
	// stats before {id} so the literal path wins
	adminRoutes.HandleFunc("/diagnostics/stats", leadHandler.Stats).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/diagnostics/stats/rebuild", leadHandler.RebuildStats).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/diagnostics/{id}", leadHandler.Diagnostic).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
