package api

import (
	"database/sql"
	"net/http"

	"github.com/rs/cors"

	"github.com/erazemk/assetinv/internal/metrics"
	"github.com/erazemk/assetinv/internal/service"
)

// Services bundles the operations the router exposes.
type Services struct {
	Auth      *service.AuthService
	Accounts  *service.AccountService
	Inventory *service.InventoryService
}

// Options configures cross-cutting router behavior.
type Options struct {
	JWTSecret string
	// CORSOrigins lists the origins allowed to make credentialed requests.
	// Empty disables CORS handling.
	CORSOrigins []string
	Development bool
	Metrics     metrics.HTTP
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, svc Services, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Service: svc.Auth}
	accountsHandler := &AccountsHandler{Service: svc.Accounts}
	inventoryHandler := &InventoryHandler{Service: svc.Inventory, Development: opts.Development}

	authMW := AuthMiddleware(opts.JWTSecret)

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("GET /healthz", healthHandler(db))

	// Accounts.
	mux.Handle("GET /api/accounts", authMW(http.HandlerFunc(accountsHandler.List)))
	mux.Handle("POST /api/accounts", authMW(http.HandlerFunc(accountsHandler.Create)))
	mux.Handle("GET /api/accounts/{id}", authMW(http.HandlerFunc(accountsHandler.Get)))
	mux.Handle("PUT /api/accounts/{id}", authMW(http.HandlerFunc(accountsHandler.Update)))
	mux.Handle("DELETE /api/accounts/{id}", authMW(http.HandlerFunc(accountsHandler.Delete)))

	// Inventory.
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /api/inventory", authMW(http.HandlerFunc(inventoryHandler.Create)))
	mux.Handle("PUT /api/inventory", authMW(http.HandlerFunc(inventoryHandler.UpdateMissingID)))
	mux.Handle("GET /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Get)))
	mux.Handle("PUT /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Update)))
	mux.Handle("DELETE /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Delete)))
	mux.Handle("GET /api/inventory/validate/model-no/{modelNo}", authMW(http.HandlerFunc(inventoryHandler.ModelNoExists)))
	mux.Handle("GET /api/inventory/validate/serial-no/{serialNo}", authMW(http.HandlerFunc(inventoryHandler.SerialNoExists)))

	var handler http.Handler = mux
	if opts.Metrics != nil {
		handler = MetricsMiddleware(opts.Metrics)(handler)
	}
	if len(opts.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
		}).Handler(handler)
	}
	return LoggingMiddleware(handler)
}

// healthHandler reports whether the database answers a ping.
func healthHandler(db *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
