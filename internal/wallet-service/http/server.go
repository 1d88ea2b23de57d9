package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/raphbet-wallet/internal/catalog"
	"github.com/radieske/raphbet-wallet/internal/shared/config"
	"github.com/radieske/raphbet-wallet/internal/wallet"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/dto"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/repo"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/session"
)

// Sessions é implementado por session.Registry
type Sessions interface {
	Open(ctx context.Context, id string) (*wallet.Engine, bool, error)
	Get(id string) (*wallet.Engine, error)
	Close(ctx context.Context, id string) error
}

// Journal é o histórico durável (Postgres); opcional
type Journal interface {
	ListLedger(ctx context.Context, sessionID string, limit int) ([]repo.LedgerEntry, error)
}

// Streamer atende o websocket de eventos de uma sessão
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string)
}

// API expõe a carteira virtual via REST
type API struct {
	Log      *zap.Logger
	Cfg      config.WalletConfig
	Sessions Sessions
	Catalog  *catalog.Catalog
	Journal  Journal  // nil quando não há Postgres
	Stream   Streamer // nil desliga /ws
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/catalog/leagues", func(r chi.Router) {
		r.Get("/", a.listLeagues)
		r.Get("/{id}/matches", a.listMatches)
		r.Get("/{id}/standings", a.listStandings)
	})

	r.Post("/sessions", a.openSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Delete("/", a.closeSession)
		r.Post("/reset", a.withEngine(a.reset))
		r.Get("/wallet", a.withEngine(a.getWallet))
		r.Get("/bets", a.withEngine(a.listBets))
		r.Get("/transactions", a.withEngine(a.listTransactions))
		r.Get("/journal", a.getJournal)

		r.Post("/slip", a.withEngine(a.addSelection))
		r.Delete("/slip", a.withEngine(a.clearSlip))
		r.Put("/slip/{matchId}", a.withEngine(a.updateWager))
		r.Delete("/slip/{matchId}", a.withEngine(a.removeSelection))

		r.Post("/bets", a.withEngine(a.placeBet))
		r.Post("/topup", a.withEngine(a.topUp))
		r.Post("/withdraw", a.withEngine(a.withdraw))
		r.Get("/ws", a.stream)
	})
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// statusFor traduz o erro de negócio para o status HTTP
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrInvalidWager):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrClosed), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type engineHandler func(w http.ResponseWriter, r *http.Request, eng *wallet.Engine)

// withEngine resolve {sid} para a sessão aberta
func (a *API) withEngine(h engineHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := a.Sessions.Get(chi.URLParam(r, "sid"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h(w, r, eng)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}
