package main

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/identity"
	"storefront/pkg/logger"
	"storefront/pkg/order"
	"storefront/pkg/store"
)

type server struct {
	log       *logger.Logger
	store     *store.Store
	identity  *identity.Service
	orders    *order.Ledger
	staticDir string
}

func (s *server) routes(tracer trace.Tracer) http.Handler {
	r := mux.NewRouter()
	r.Use(traceMiddleware(tracer))
	r.Use(s.logMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, "ok", nil)
	}).Methods(http.MethodGet)

	r.HandleFunc("/menu", s.menuHandler).Methods(http.MethodGet)
	r.HandleFunc("/banners", s.bannersHandler).Methods(http.MethodGet)
	r.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/register", s.registerHandler).Methods(http.MethodPost)
	r.HandleFunc("/forgot-password", s.forgotPasswordHandler).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", s.resetPasswordHandler).Methods(http.MethodPost)

	r.Handle("/orders/history", s.authMiddleware(http.HandlerFunc(s.orderHistoryHandler))).Methods(http.MethodGet)
	r.Handle("/users/{id}", s.authMiddleware(http.HandlerFunc(s.changePasswordHandler))).Methods(http.MethodPatch)
	r.Handle("/logout", s.authMiddleware(http.HandlerFunc(s.logoutHandler))).Methods(http.MethodPost)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// mux only runs r.Use middleware on matched routes.
	unmatched := func(h http.Handler) http.Handler {
		return traceMiddleware(tracer)(s.logMiddleware(h))
	}
	r.NotFoundHandler = unmatched(s.fallbackHandler(http.StatusNotFound))
	r.MethodNotAllowedHandler = unmatched(s.fallbackHandler(http.StatusMethodNotAllowed))

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return handlers.RecoveryHandler()(cors(r))
}
