package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"budgetdash/internal/budget"
	"budgetdash/internal/core"
	"budgetdash/internal/log"
)

type budgetItemJSON struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	// Ward is always 0: the schema carries no ward.
	Ward int `json:"ward"`
	Year int `json:"year"`
}

type budgetResponse struct {
	BudgetData []budgetItemJSON   `json:"budgetData"`
	Summary    core.BudgetSummary `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGetBudget answers POST {department, ward?} with the normalized
// budget items and their summary.
func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBudgetRequest(r)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Invalid budget request",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeValidation)
		writeError(w, http.StatusBadRequest, budget.MsgInvalidBody)
		return
	}

	res, err := s.svc.FetchBudget(r.Context(), req)
	if err != nil {
		writeError(w, budget.StatusCode(err), budget.Message(err))
		return
	}

	year := s.svc.Year()
	items := make([]budgetItemJSON, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, budgetItemJSON{ID: it.ID, Category: it.Category, Amount: it.Amount, Year: year})
	}
	writeJSON(w, http.StatusOK, budgetResponse{BudgetData: items, Summary: res.Summary})
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := s.svc.Departments(r.Context())
	if err != nil {
		writeError(w, budget.StatusCode(err), budget.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"departments": depts})
}

// decodeBudgetRequest reads one JSON object from the body. An empty or
// malformed body is an error; a missing department is left to the service.
func decodeBudgetRequest(r *http.Request) (budget.Request, error) {
	var req budget.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return budget.Request{}, err
	}
	if dec.More() {
		return budget.Request{}, errors.New("unexpected data after request object")
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeRateLimitedJSON(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

// recoverJSON turns a handler panic into a 500 {error} response.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panicked",
					log.FieldError, rec,
					log.FieldErrorType, log.ErrorTypeInternal)
				writeError(w, http.StatusInternalServerError, budget.MsgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
