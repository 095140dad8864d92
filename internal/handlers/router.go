package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/middleware"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// Router bundles the handlers and middleware served by the portal.
type Router struct {
	Auth         *AuthHandler
	Vehicles     *VehicleHandler
	Appointments *AppointmentHandler
	Catalog      *CatalogHandler
	Finance      *FinanceHandler
	History      *HistoryHandler

	AuthMiddleware *middleware.AuthMiddleware
	RequestLogger  *middleware.RequestLogger
	RateLimiter    *middleware.RateLimitMiddleware
	// LoginRateLimit is the number of login attempts per minute and client.
	// Zero disables the limit.
	LoginRateLimit int
}

// Handler registers every route on a gorilla/mux router.
func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()
	if rt.RequestLogger != nil {
		r.Use(rt.RequestLogger.Logger)
		r.Use(rt.RequestLogger.Recover)
	}
	r.Use(rt.AuthMiddleware.Authenticate)

	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	var login http.Handler = http.HandlerFunc(rt.Auth.Login)
	if rt.RateLimiter != nil && rt.LoginRateLimit > 0 {
		login = rt.RateLimiter.RateLimit(rt.LoginRateLimit, 60)(login)
	}
	api.Handle("/auth/login", login).Methods(http.MethodPost)

	api.HandleFunc("/account", rt.Auth.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/account", rt.Auth.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/account/password", rt.Auth.ChangePassword).Methods(http.MethodPost)

	api.HandleFunc("/vehicles", rt.Vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", rt.Vehicles.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/documents", rt.Vehicles.AddDocument).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}/documents/{docID}", rt.Vehicles.RemoveDocument).Methods(http.MethodDelete)
	api.HandleFunc("/documents/expiring", rt.Vehicles.Expiring).Methods(http.MethodGet)

	api.HandleFunc("/services", rt.Catalog.Services).Methods(http.MethodGet)
	api.HandleFunc("/centers", rt.Catalog.Centers).Methods(http.MethodGet)
	api.HandleFunc("/quotes", rt.Catalog.Quotes).Methods(http.MethodGet)
	api.HandleFunc("/quotes", rt.Catalog.RequestQuote).Methods(http.MethodPost)

	api.HandleFunc("/appointments", rt.Appointments.List).Methods(http.MethodGet)
	api.HandleFunc("/appointments", rt.Appointments.Book).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/cancel", rt.Appointments.Cancel).Methods(http.MethodPost)
	api.Handle("/appointments/{id}/status",
		rt.AuthMiddleware.RequirePermission("update_appointment_status")(http.HandlerFunc(rt.Appointments.UpdateStatus)),
	).Methods(http.MethodPut)

	api.HandleFunc("/invoices", rt.Finance.Invoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id}/pay", rt.Finance.Pay).Methods(http.MethodPost)
	api.HandleFunc("/finance/summary", rt.Finance.Summary).Methods(http.MethodGet)

	api.Handle("/history",
		rt.AuthMiddleware.RequireRole(models.RoleCustomer)(http.HandlerFunc(rt.History.Get)),
	).Methods(http.MethodGet)

	return r
}
