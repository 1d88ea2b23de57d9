package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/raphbet-wallet/internal/catalog"
	"github.com/radieske/raphbet-wallet/internal/wallet"
	"github.com/radieske/raphbet-wallet/internal/wallet-service/dto"
)

const verifiedHeader = "X-User-Verified"

func (a *API) listLeagues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Catalog.Leagues())
}

func (a *API) listMatches(w http.ResponseWriter, r *http.Request) {
	ms, err := a.Catalog.Matches(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (a *API) listStandings(w http.ResponseWriter, r *http.Request) {
	st, err := a.Catalog.Standings(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// openSession cria uma sessão nova ou reabre uma existente (snapshot)
func (a *API) openSession(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenSessionRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}
	eng, restored, err := a.Sessions.Open(r.Context(), req.SessionID)
	if err != nil {
		a.Log.Error("open session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusCreated
	if restored {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.SessionResponse{SessionID: eng.SessionID(), Restored: restored, Balance: eng.Balance()})
}

func (a *API) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Close(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) reset(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	eng.Reset()
	writeJSON(w, http.StatusOK, eng.Snapshot())
}

func (a *API) getWallet(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	writeJSON(w, http.StatusOK, eng.Snapshot())
}

// listBets aceita ?status=active|settled; sem filtro devolve todas
func (a *API) listBets(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	switch r.URL.Query().Get("status") {
	case "":
		writeJSON(w, http.StatusOK, eng.PlacedBets())
	case "active":
		writeJSON(w, http.StatusOK, eng.ActiveBets())
	case "settled":
		writeJSON(w, http.StatusOK, eng.SettledBets())
	default:
		writeError(w, http.StatusBadRequest, "status must be active or settled")
	}
}

func (a *API) listTransactions(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	writeJSON(w, http.StatusOK, eng.Transactions())
}

func (a *API) getJournal(w http.ResponseWriter, r *http.Request) {
	if a.Journal == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	rows, err := a.Journal.ListLedger(r.Context(), chi.URLParam(r, "sid"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) slip(w http.ResponseWriter, eng *wallet.Engine) {
	st := eng.Snapshot()
	writeJSON(w, http.StatusOK, dto.SlipResponse{
		Entries:         st.Slip,
		TotalWager:      st.TotalWager,
		PotentialPayout: st.PotentialPayout,
	})
}

// addSelection monta a seleção pelo catálogo; o cliente nunca manda odds
func (a *API) addSelection(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	var req dto.AddSelectionRequest
	if !decode(w, r, &req) {
		return
	}
	sel, err := a.Catalog.SelectionFor(r.Context(), req.MatchID, wallet.Market(req.Market))
	switch {
	case errors.Is(err, catalog.ErrMatchNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	eng.AddSelection(sel)
	a.slip(w, eng)
}

func (a *API) updateWager(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	var req dto.UpdateWagerRequest
	if !decode(w, r, &req) {
		return
	}
	eng.UpdateWager(chi.URLParam(r, "matchId"), req.Wager)
	a.slip(w, eng)
}

func (a *API) removeSelection(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	eng.RemoveSelection(chi.URLParam(r, "matchId"))
	a.slip(w, eng)
}

func (a *API) clearSlip(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	eng.ClearSlip()
	a.slip(w, eng)
}

func (a *API) placeBet(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	if a.Cfg.RequireVerification && !strings.EqualFold(r.Header.Get(verifiedHeader), "true") {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{
			Error: "Please verify your account to place a bet.",
			Code:  "VERIFICATION_REQUIRED",
		})
		return
	}
	res := eng.PlaceBet()
	writeJSON(w, statusFor(res.Err), dto.FromResult(res, eng.Balance()))
}

// topUp aplica os limites da tela de depósito antes do engine
func (a *API) topUp(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	var req dto.TopUpRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Amount > 0 && (req.Amount < a.Cfg.TopUpMin || (a.Cfg.TopUpMax > 0 && req.Amount > a.Cfg.TopUpMax)) {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ResultResponse{
			Message: "Amount must be between " + wallet.FormatAmount(a.Cfg.TopUpMin) + " and " + wallet.FormatAmount(a.Cfg.TopUpMax) + " Tsh",
			Code:    "INVALID_AMOUNT",
			Balance: eng.Balance(),
		})
		return
	}
	res := eng.TopUp(req.Amount, req.Method)
	writeJSON(w, statusFor(res.Err), dto.FromResult(res, eng.Balance()))
}

func (a *API) withdraw(w http.ResponseWriter, r *http.Request, eng *wallet.Engine) {
	var req dto.WithdrawRequest
	if !decode(w, r, &req) {
		return
	}
	method := req.Method
	if req.Phone != "" {
		method += " (" + req.Phone + ")"
	}
	res := eng.Withdraw(req.Amount, method)
	out := dto.WithdrawResponse{ResultResponse: dto.FromResult(res, eng.Balance())}
	if res.Success {
		for _, tx := range eng.Transactions() {
			if tx.ID == res.TransactionID {
				out.Receipt = &dto.Receipt{TransactionID: tx.ID, Amount: req.Amount, Method: method, Date: tx.Date}
				break
			}
		}
	}
	writeJSON(w, statusFor(res.Err), out)
}

func (a *API) stream(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if a.Stream == nil {
		writeError(w, http.StatusNotFound, "stream disabled")
		return
	}
	if _, err := a.Sessions.Get(sid); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	a.Stream.Serve(w, r, sid)
}
