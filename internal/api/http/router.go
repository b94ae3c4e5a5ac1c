// Package http serves the quote and notification services as a JSON API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quote-negotiation-backend/internal/security"
	"quote-negotiation-backend/internal/service"
)

// NewRouter builds the REST API. Route names double as the operation names
// of the role table.
func NewRouter(quoteSvc service.QuoteService, noteSvc service.NotificationService, tm security.TokenManager) *mux.Router {
	quotes := NewQuoteHandler(quoteSvc)
	notes := NewNotificationHandler(noteSvc)

	router := mux.NewRouter()
	router.Use(authMiddleware(tm))

	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet).Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/rentals/{rentalID:[0-9]+}/quotes", quotes.CreateQuote).Methods(http.MethodPost).Name("CreateQuote")
	api.HandleFunc("/rentals/{rentalID:[0-9]+}/quotes", quotes.ListQuotesForRental).Methods(http.MethodGet).Name("ListQuotesForRental")
	api.HandleFunc("/quotes/{quoteID:[0-9]+}", quotes.GetQuote).Methods(http.MethodGet).Name("GetQuote")
	api.HandleFunc("/quotes/{quoteID:[0-9]+}/manager-action", quotes.ManagerAction).Methods(http.MethodPost).Name("ManagerAction")
	api.HandleFunc("/quotes/{quoteID:[0-9]+}/revise", quotes.ReviseQuote).Methods(http.MethodPost).Name("ReviseQuote")
	api.HandleFunc("/quotes/{quoteID:[0-9]+}/customer-action", quotes.CustomerAction).Methods(http.MethodPost).Name("CustomerAction")
	api.HandleFunc("/notifications", notes.GetNotifications).Methods(http.MethodGet).Name("GetNotifications")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notes.MarkNotificationRead).Methods(http.MethodPost).Name("MarkNotificationRead")

	return router
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
