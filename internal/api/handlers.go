package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kaspatech/kaspa-faucet/config"
	"github.com/kaspatech/kaspa-faucet/internal/faucet"
)

// statusResponse is the body of GET /status.
type statusResponse struct {
	Active           bool   `json:"active"`
	FaucetAddress    string `json:"faucetAddress"`
	BalanceKas       string `json:"balanceKas"`
	NextClaimSeconds uint64 `json:"nextClaimSeconds"`
}

// claimRequest is the body of POST /claim.
type claimRequest struct {
	Address string `json:"address"`
}

// claimResponse is the success body of POST /claim.
type claimResponse struct {
	TransactionID    string `json:"transactionId"`
	AmountKas        string `json:"amountKas"`
	NextClaimSeconds uint64 `json:"nextClaimSeconds"`
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

// handleStatus serves GET /status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.faucet.Status(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{
		Active:           st.Active,
		FaucetAddress:    st.Address.String(),
		BalanceKas:       formatKas(st.Balance),
		NextClaimSeconds: uint64(st.NextClaim / time.Second),
	})
}

// handleClaim serves POST /claim.
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req claimRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	identity := s.clientIdentity(r)
	res, err := s.faucet.Claim(r.Context(), identity, req.Address)
	if err != nil {
		s.writeClaimError(w, identity, err)
		return
	}

	writeJSON(w, http.StatusOK, claimResponse{
		TransactionID:    res.TransactionID.String(),
		AmountKas:        formatKas(res.Amount),
		NextClaimSeconds: uint64(res.NextClaim / time.Second),
	})
}

// writeClaimError maps claim engine errors onto HTTP statuses. Client
// mistakes get a specific message; everything else is logged and answered
// with a generic 500 so node and wallet details never reach the client.
func (s *Server) writeClaimError(w http.ResponseWriter, identity string, err error) {
	switch {
	case errors.Is(err, faucet.ErrInvalidAddress):
		s.logger.Debug().Err(err).Str("identity", identity).Msg("Claim rejected")
		writeError(w, http.StatusBadRequest, "invalid address")
	case errors.Is(err, faucet.ErrRateLimited):
		var limited *faucet.RateLimitedError
		if errors.As(err, &limited) {
			// Round up so clients never retry before the window opens.
			secs := int64((limited.RetryAfter + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
		}
		s.logger.Debug().Err(err).Str("identity", identity).Msg("Claim rejected")
		writeError(w, http.StatusTooManyRequests, "claim interval not elapsed")
	default:
		s.logger.Error().Err(err).Str("identity", identity).Msg("Claim failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// formatKas renders a sompi amount as a decimal KAS string.
func formatKas(sompi uint64) string {
	return fmt.Sprintf("%d.%08d", sompi/config.SompiPerKas, sompi%config.SompiPerKas)
}
