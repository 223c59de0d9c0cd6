package httpapi

import (
	"net/http"
)

type purchaseIntentRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
	Tokens int64 `json:"tokens" validate:"required,gt=0"`
}

func (s *Server) handleCreatePurchaseIntent(w http.ResponseWriter, r *http.Request) {
	var req purchaseIntentRequest
	if !readJSON(w, r, &req) {
		return
	}

	intent, err := s.payments.CreatePurchaseIntent(r.Context(), callerIdentity(r).UserID, req.Amount, req.Tokens)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, intent)
}

type confirmPurchaseRequest struct {
	PaymentRef string `json:"payment_ref" validate:"required"`
}

func (s *Server) handleConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	var req confirmPurchaseRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.payments.ConfirmPurchase(r.Context(), callerIdentity(r).UserID, req.PaymentRef); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.payments.Transactions(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

type withdrawalRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}

	var req withdrawalRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.payments.RequestWithdrawal(r.Context(), profile, req.Amount); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
