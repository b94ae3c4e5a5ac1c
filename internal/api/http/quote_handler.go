package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/quote"
	"quote-negotiation-backend/internal/service"
)

type QuoteHandler struct {
	quoteSvc service.QuoteService
}

func NewQuoteHandler(quoteSvc service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteSvc: quoteSvc}
}

type createQuoteRequest struct {
	CustomizationFee *decimal.Decimal `json:"customization_fee"`
	StaffDescription string           `json:"staff_description"`
}

type reviewRequest struct {
	Decision        string `json:"decision"`
	Feedback        string `json:"feedback"`
	Reason          string `json:"reason"`
	ExpectedVersion int32  `json:"expected_version"`
}

type reviseRequest struct {
	Fees             map[string]decimal.Decimal `json:"fees"`
	StaffDescription string                     `json:"staff_description"`
	ExpectedVersion  int32                      `json:"expected_version"`
}

type quoteResponse struct {
	*domain.Quote
	TotalDeposit decimal.Decimal `json:"total_deposit"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

func newQuoteResponse(q *domain.Quote) quoteResponse {
	totals := q.Totals()
	return quoteResponse{
		Quote:        q,
		TotalDeposit: totals.TotalDeposit,
		TotalPayment: totals.TotalPayment,
		GrandTotal:   totals.GrandTotal,
	}
}

// pathID reads a numeric route variable. The route patterns only admit digits.
func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Message: "must be a 32-bit integer"}
	}
	return int32(id), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body: "+err.Error(), "")
		return false
	}
	return true
}

func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "rentalID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req createQuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := h.quoteSvc.CreateQuote(r.Context(), rentalID, req.CustomizationFee, req.StaffDescription)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newQuoteResponse(q))
}

func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := h.quoteSvc.GetQuote(r.Context(), quoteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(q))
}

func (h *QuoteHandler) ListQuotesForRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "rentalID")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.quoteSvc.ListQuotesForRental(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *QuoteHandler) ManagerAction(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := h.quoteSvc.ManagerAction(r.Context(), quoteID, service.ReviewDecision(req.Decision), req.Feedback, req.ExpectedVersion)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(q))
}

func (h *QuoteHandler) ReviseQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req reviseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rev := quote.Revision{StaffDescription: req.StaffDescription}
	if len(req.Fees) > 0 {
		rev.Fees = make(map[quote.Field]decimal.Decimal, len(req.Fees))
		for name, v := range req.Fees {
			rev.Fees[quote.Field(name)] = v
		}
	}

	q, err := h.quoteSvc.ReviseQuote(r.Context(), quoteID, rev, req.ExpectedVersion)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(q))
}

func (h *QuoteHandler) CustomerAction(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := h.quoteSvc.CustomerAction(r.Context(), quoteID, service.ReviewDecision(req.Decision), req.Reason, req.ExpectedVersion)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(q))
}
