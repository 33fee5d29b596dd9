package api

import (
	"github.com/maplepay/paycalc/internal/calculation"
	"github.com/maplepay/paycalc/internal/domain"
)

// CalculateRequest is the body of POST /api/v1/calculate.
type CalculateRequest struct {
	Year    int                   `json:"year"`
	Edition domain.Edition        `json:"edition"`
	Input   domain.PayPeriodInput `json:"input"`
	Ytd     domain.YTDTotals      `json:"ytd"`
}

// BatchRequest is the body of POST /api/v1/batch.
type BatchRequest struct {
	Year    int                     `json:"year"`
	Edition domain.Edition          `json:"edition"`
	Items   []calculation.BatchItem `json:"items"`
}

// TablesResponse lists the loaded tax-table editions.
type TablesResponse struct {
	Editions []string `json:"editions"`
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"` // "input", "config" or "internal"
}
