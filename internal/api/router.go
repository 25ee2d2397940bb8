package api

import (
	"net/http"
	"time"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/workflow"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *workflow.Service, jwtSecret string, tokenTTL time.Duration) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Svc: svc, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
	requestsHandler := &RequestsHandler{Svc: svc}
	ordersHandler := &OrdersHandler{Svc: svc}
	inventoryHandler := &InventoryHandler{Svc: svc}

	authMW := AuthMiddleware(jwtSecret)
	supplier := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleSupplier)(h))
	}
	vendor := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleVendor)(h))
	}
	driver := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireRole(model.RoleDriver)(h))
	}

	// Public.
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Any authenticated user.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/orders/{id}", authMW(http.HandlerFunc(ordersHandler.Get)))

	// Vendors.
	mux.Handle("POST /api/requests", vendor(requestsHandler.Create))
	mux.Handle("GET /api/requests/mine", vendor(requestsHandler.ListMine))
	mux.Handle("GET /api/requests/batches/{ref}", authMW(RequireRole(model.RoleVendor, model.RoleSupplier)(
		http.HandlerFunc(requestsHandler.GetBatch))))

	// Suppliers.
	mux.Handle("GET /api/requests", supplier(requestsHandler.List))
	mux.Handle("POST /api/requests/{id}/confirm", supplier(requestsHandler.Confirm))
	mux.Handle("POST /api/requests/{id}/reject", supplier(requestsHandler.Reject))
	mux.Handle("POST /api/requests/{id}/complete", supplier(requestsHandler.Complete))
	mux.Handle("GET /api/inventory", supplier(inventoryHandler.List))
	mux.Handle("POST /api/inventory", supplier(inventoryHandler.Add))
	mux.Handle("GET /api/users", supplier(authHandler.ListUsers))

	// Drivers.
	mux.Handle("GET /api/orders/available", driver(ordersHandler.ListAvailable))
	mux.Handle("GET /api/orders/accepted", driver(ordersHandler.ListAccepted))
	mux.Handle("POST /api/orders/{id}/accept", driver(ordersHandler.Accept))
	mux.Handle("POST /api/orders/{id}/advance", driver(ordersHandler.Advance))

	return mux
}
