package dto

import (
	"time"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

type SessionResponse struct {
	SessionID string `json:"sessionId"`
	Restored  bool   `json:"restored"`
	Balance   int64  `json:"balance"`
}

// ResultResponse espelha wallet.Result; Code vazio em caso de sucesso
type ResultResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Code          string `json:"code,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Balance       int64  `json:"balance"`
}

func FromResult(r wallet.Result, balance int64) ResultResponse {
	return ResultResponse{
		Success:       r.Success,
		Message:       r.Message,
		Code:          r.Code(),
		TransactionID: r.TransactionID,
		Balance:       balance,
	}
}

type SlipResponse struct {
	Entries         []wallet.BetSlipEntry `json:"entries"`
	TotalWager      int64                 `json:"totalWager"`
	PotentialPayout int64                 `json:"potentialPayout"`
}

type Receipt struct {
	TransactionID string    `json:"transactionId"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
	Date          time.Time `json:"date"`
}

type WithdrawResponse struct {
	ResultResponse
	Receipt *Receipt `json:"receipt,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
