package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"pmhscreen/internal/catalog"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/service"
	"pmhscreen/internal/transport/rest/handler"
	"pmhscreen/internal/transport/rest/middleware"
	"pmhscreen/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	ScreeningService *service.ScreeningService
	ProfileService   *service.ProfileService
	AnalyticsService *service.AnalyticsService
	Catalog          *catalog.Catalog
	WSHub            *ws.Hub
	Metrics          *service.Metrics
	MetricsHandler   http.Handler // nil disables /metrics
	CORSOrigins      string       // comma separated, "*" allows all
	Logger           *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	cors := newCORS(c.CORSOrigins)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	catalogHandler := handler.NewCatalogHandler(c.Catalog)
	screeningHandler := handler.NewScreeningHandler(c.ScreeningService)
	profileHandler := handler.NewProfileHandler(c.ProfileService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)
	wsHandler := ws.NewHandler(c.WSHub, c.AnalyticsService, cors.allowsRequest, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(middleware.RequestLogger(c.Logger, c.Metrics))
	r.Use(cors.middleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.MetricsHandler != nil {
		r.Handle("/metrics", c.MetricsHandler).Methods("GET")
	}

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions", catalogHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/resources", catalogHandler.Resources).Methods("GET", "OPTIONS")
	v1.HandleFunc("/care-settings", catalogHandler.CareSettings).Methods("GET", "OPTIONS")
	v1.HandleFunc("/analytics", analyticsHandler.Snapshot).Methods("GET", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/analytics", wsHandler.AnalyticsWS).Methods("GET")

	// User routes (require user auth)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/screenings", screeningHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/screenings", screeningHandler.History).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/screenings/latest", screeningHandler.Latest).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/profile", profileHandler.Get).Methods("GET", "OPTIONS")

	return r
}

type corsPolicy struct {
	any     bool
	origins map[string]bool
}

func newCORS(origins string) *corsPolicy {
	p := &corsPolicy{origins: make(map[string]bool)}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[o] = true
		}
	}
	if len(p.origins) == 0 {
		p.any = true
	}
	return p
}

// allowsRequest checks websocket upgrade origins
func (p *corsPolicy) allowsRequest(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return p.any || origin == "" || p.origins[origin]
}

func (p *corsPolicy) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case p.any:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case p.origins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
