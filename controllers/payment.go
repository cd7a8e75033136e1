package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"secure-shop/audit"
)

// ActionPaymentGateway tags audit entries from the payment simulation.
const ActionPaymentGateway = "PAYMENT_GATEWAY"

// PaymentController simulates the bank/payment-gateway interaction. Checkout
// itself never contacts a gateway; card payments are assumed authorized here
// first.
type PaymentController struct {
	Recorder *audit.Recorder
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(recorder *audit.Recorder) *PaymentController {
	return &PaymentController{Recorder: recorder}
}

// Pay validates card details and returns a simulated transaction id. Both
// outcomes are written to the audit log.
func (pc *PaymentController) Pay(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	var req struct {
		CardNumber string  `json:"cardNumber"`
		CVV        string  `json:"cvv"`
		Amount     float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.CardNumber) < 10 || req.CVV == "" {
		pc.Recorder.Record(r.Context(), ActionPaymentGateway, actor.Email, audit.StatusFailure,
			"Invalid Card Details", actor.IP)
		http.Error(w, "Payment Declined: Invalid Card", http.StatusBadRequest)
		return
	}

	pc.Recorder.Record(r.Context(), ActionPaymentGateway, actor.Email, audit.StatusSuccess,
		fmt.Sprintf("Simulated charge of $%.2f", req.Amount), actor.IP)

	respondJSON(w, http.StatusOK, map[string]string{
		"message":       "Payment Approved",
		"transactionId": "TXN-" + uuid.NewString(),
	})
}
