package wallet

import "errors"

// Erros de negócio esperados. Nunca são retornados como error pelas operações,
// vão dentro de Result.Err para o chamador apresentar a mensagem.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidWager        = errors.New("invalid wager")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Result é o retorno de toda operação que pode falhar
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
	Err           error  `json:"-"`
}

func ok(msg, txID string) Result {
	return Result{Success: true, Message: msg, TransactionID: txID}
}

func fail(err error, msg string) Result {
	return Result{Success: false, Message: msg, Err: err}
}

// Code devolve um identificador estável do erro para a camada HTTP
func (r Result) Code() string {
	switch {
	case r.Err == nil:
		return ""
	case errors.Is(r.Err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(r.Err, ErrInvalidWager):
		return "INVALID_WAGER"
	case errors.Is(r.Err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	default:
		return "UNKNOWN"
	}
}
