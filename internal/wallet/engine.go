package wallet

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed é devolvido em Result.Err quando o engine já foi encerrado
var ErrClosed = errors.New("wallet closed")

// Config reúne as constantes canônicas de uma carteira
type Config struct {
	InitialBalance int64
	DefaultWager   int64
	Delay          DelayFunc
	Decide         DecideFunc
	Scheduler      Scheduler
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notify = n } }

func WithSessionID(id string) Option { return func(e *Engine) { e.session = id } }

// WithClock troca time.Now (testes)
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// Engine é a carteira virtual de uma sessão: saldo, bet slip, apostas e ledger.
// Toda mutação passa pelos métodos abaixo, cada um segurando o lock inteiro.
type Engine struct {
	mu sync.Mutex

	session string
	initial int64
	balance int64
	slip    *BetSlip
	bets    []PlacedBet // mais recente primeiro
	ledger  Ledger
	seq     uint64
	closed  bool

	sim    *Simulator
	notify Notifier
	now    func() time.Time
	log    *zap.Logger
}

// New cria o engine com o saldo inicial do cfg
func New(cfg Config, opts ...Option) *Engine {
	if cfg.Delay == nil {
		cfg.Delay = FixedDelay(10 * time.Second)
	}
	if cfg.Decide == nil {
		cfg.Decide = FixedOutcome(StatusLost)
	}
	e := &Engine{
		initial: cfg.InitialBalance,
		balance: cfg.InitialBalance,
		slip:    newBetSlip(cfg.DefaultWager),
		sim:     NewSimulator(cfg.Scheduler, cfg.Delay, cfg.Decide),
		notify:  func(Event) {},
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.notify == nil {
		e.notify = func(Event) {}
	}
	e.log = e.log.With(zap.String("session", e.session))
	return e
}

// Restore reconstrói um engine a partir de um snapshot e reagenda as apostas pendentes
func Restore(cfg Config, st State, opts ...Option) (*Engine, error) {
	sum := st.InitialBalance
	fits := true
	// Transactions vem da mais recente para a mais antiga; soma na ordem original
	for i := len(st.Transactions) - 1; i >= 0; i-- {
		if sum, fits = addUnits(sum, st.Transactions[i].Amount); !fits {
			break
		}
	}
	if st.Balance < 0 || !fits || sum != st.Balance {
		return nil, fmt.Errorf("restore %s: balance %d does not match ledger (initial %d, computed %d)",
			st.SessionID, st.Balance, st.InitialBalance, sum)
	}

	cfg.InitialBalance = st.InitialBalance
	e := New(cfg, append([]Option{WithSessionID(st.SessionID)}, opts...)...)
	e.balance = st.Balance
	e.slip.entries = append([]BetSlipEntry(nil), st.Slip...)
	e.bets = append([]PlacedBet(nil), st.Bets...)
	for i := len(st.Transactions) - 1; i >= 0; i-- {
		e.ledger.Append(st.Transactions[i])
	}
	e.seq = uint64(len(st.Bets))
	if _, ok := e.exposure(); !ok {
		return nil, fmt.Errorf("restore %s: pending payouts overflow balance", st.SessionID)
	}

	for _, b := range e.bets {
		if b.Status == StatusPending {
			e.sim.Schedule(b.ID, e.settle)
		}
	}
	return e, nil
}

func (e *Engine) SessionID() string { return e.session }

func (e *Engine) AddSelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.slip.Add(sel)
}

func (e *Engine) RemoveSelection(matchID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.slip.Remove(matchID)
}

// UpdateWager não valida o valor: wagers inválidos só são recusados no PlaceBet
func (e *Engine) UpdateWager(matchID string, wager int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.slip.UpdateWager(matchID, wager)
}

func (e *Engine) ClearSlip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.slip.Clear()
}

// PlaceBet consome o bet slip inteiro como uma unidade: ou todas as seleções
// viram apostas pendentes e o total é debitado, ou nada muda. Entradas com
// wager zero viram apostas de valor zero; só o total precisa ser positivo.
func (e *Engine) PlaceBet() Result {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fail(ErrClosed, "Wallet is closed.")
	}

	if e.slip.hasNegativeWager() {
		e.mu.Unlock()
		return fail(ErrInvalidWager, "Wager must be positive.")
	}
	// sem negativos, overflow só acontece acima de qualquer saldo possível
	total, fits := e.slip.checkedTotal()
	if fits && total <= 0 {
		e.mu.Unlock()
		return fail(ErrInvalidWager, "Wager must be positive.")
	}
	if !fits || total > e.balance {
		e.mu.Unlock()
		return fail(ErrInsufficientBalance, "Insufficient balance.")
	}
	if !e.payoutsFit(total) {
		e.mu.Unlock()
		return fail(ErrInvalidWager, "Potential payout too large.")
	}

	now := e.now()
	entries := e.slip.Entries()
	placed := make([]PlacedBet, 0, len(entries))
	for _, entry := range entries {
		e.seq++
		placed = append(placed, PlacedBet{
			ID:        entry.Selection.MatchID + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + strconv.FormatUint(e.seq, 10),
			Selection: entry.Selection,
			Wager:     entry.Wager,
			PlacedAt:  now,
			Status:    StatusPending,
		})
	}
	e.bets = append(placed, e.bets...)

	e.balance -= total
	tx := e.appendTx(TxWager, -total, fmt.Sprintf("%d bet(s) placed", len(entries)), now)
	e.slip.Clear()

	for i := range placed {
		b := placed[i]
		e.emit(Event{Kind: EventBetPlaced, Bet: &b, At: now})
	}
	e.emit(Event{Kind: EventTransaction, Transaction: &tx, At: now})
	e.log.Info("bets placed", zap.Int("count", len(placed)), zap.Int64("total", total), zap.Int64("balance", e.balance))
	e.mu.Unlock()

	for _, b := range placed {
		e.sim.Schedule(b.ID, e.settle)
	}
	return ok(fmt.Sprintf("Successfully placed %d bet(s)!", len(placed)), tx.ID)
}

// exposure é o saldo somado aos prêmios máximos das apostas pendentes.
// Enquanto couber em int64, nenhuma liquidação estoura o saldo.
func (e *Engine) exposure() (int64, bool) {
	exp := e.balance
	for _, b := range e.bets {
		if b.Status != StatusPending {
			continue
		}
		p, ok := payoutFor(b.Wager, b.Selection.Odds)
		if !ok {
			return 0, false
		}
		if exp, ok = addUnits(exp, p); !ok {
			return 0, false
		}
	}
	return exp, true
}

// payoutsFit confere se debitar total e somar os prêmios do slip mantém a exposição em int64
func (e *Engine) payoutsFit(total int64) bool {
	exp, ok := e.exposure()
	if !ok {
		return false
	}
	exp -= total
	for _, entry := range e.slip.entries {
		p, ok := payoutFor(entry.Wager, entry.Selection.Odds)
		if !ok || p < 0 {
			return false
		}
		if exp, ok = addUnits(exp, p); !ok {
			return false
		}
	}
	return true
}

// settle recebe a mensagem do simulador. Aposta ausente (reset/close) ou já
// liquidada é ignorada sem erro.
func (e *Engine) settle(s Settlement) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		e.log.Debug("settlement dropped: wallet closed", zap.String("bet_id", s.BetID))
		return
	}

	idx := -1
	for i := range e.bets {
		if e.bets[i].ID == s.BetID {
			idx = i
			break
		}
	}
	if idx < 0 || e.bets[idx].Status != StatusPending {
		e.log.Debug("settlement dropped: bet not pending", zap.String("bet_id", s.BetID))
		return
	}

	now := e.now()
	bet := &e.bets[idx]
	var payout int64
	if s.Outcome == StatusWon {
		// já validado no PlaceBet/Restore via exposure
		payout, _ = payoutFor(bet.Wager, bet.Selection.Odds)
	}
	bet.Status = s.Outcome
	bet.Payout = &payout

	settled := *bet
	if s.Outcome == StatusWon {
		e.balance += payout
		tx := e.appendTx(TxPayout, payout,
			fmt.Sprintf("Win: %s on %s", bet.Selection.MarketLabel, bet.Selection.MatchDescription), now)
		e.emit(Event{Kind: EventBetSettled, Bet: &settled, At: now})
		e.emit(Event{Kind: EventTransaction, Transaction: &tx, At: now})
	} else {
		e.emit(Event{Kind: EventBetSettled, Bet: &settled, At: now})
	}
	e.log.Info("bet settled",
		zap.String("bet_id", s.BetID),
		zap.String("status", string(s.Outcome)),
		zap.Int64("payout", payout),
	)
}

// TopUp credita amount sem validação de provedor de pagamento
func (e *Engine) TopUp(amount int64, method string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fail(ErrClosed, "Wallet is closed.")
	}
	if amount <= 0 {
		return fail(ErrInvalidAmount, "Invalid amount")
	}
	exp, fits := e.exposure()
	if fits {
		_, fits = addUnits(exp, amount)
	}
	if !fits {
		return fail(ErrInvalidAmount, "Invalid amount")
	}

	now := e.now()
	e.balance += amount
	tx := e.appendTx(TxTopUp, amount, "Top up via "+method, now)
	e.emit(Event{Kind: EventTransaction, Transaction: &tx, At: now})
	return ok(fmt.Sprintf("Successfully topped up %s Tsh", FormatAmount(amount)), tx.ID)
}

func (e *Engine) Withdraw(amount int64, method string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fail(ErrClosed, "Wallet is closed.")
	}
	if amount <= 0 {
		return fail(ErrInvalidAmount, "Withdrawal amount must be positive.")
	}
	if amount > e.balance {
		return fail(ErrInsufficientBalance, "Insufficient balance for withdrawal.")
	}

	now := e.now()
	e.balance -= amount
	tx := e.appendTx(TxWithdrawal, -amount, "Withdrawal to "+method, now)
	e.emit(Event{Kind: EventTransaction, Transaction: &tx, At: now})
	return ok(fmt.Sprintf("Successfully withdrew %s Tsh!", FormatAmount(amount)), tx.ID)
}

// Reset volta ao saldo inicial e descarta slip, apostas e ledger.
// Liquidações ainda agendadas não encontram mais suas apostas.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.balance = e.initial
	e.slip.Clear()
	e.bets = nil
	e.ledger = Ledger{}
	e.emit(Event{Kind: EventReset, At: e.now()})
	e.log.Info("wallet reset", zap.Int64("balance", e.balance))
}

// Close desliga o engine; liquidações posteriores viram no-op
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) Balance() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

func (e *Engine) Slip() []BetSlipEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slip.Entries()
}

func (e *Engine) PlacedBets() []PlacedBet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PlacedBet(nil), e.bets...)
}

// ActiveBets retorna só as pendentes; SettledBets só as liquidadas
func (e *Engine) ActiveBets() []PlacedBet {
	return filterBets(e.PlacedBets(), func(s BetStatus) bool { return !s.Settled() })
}

func (e *Engine) SettledBets() []PlacedBet {
	return filterBets(e.PlacedBets(), BetStatus.Settled)
}

func filterBets(bets []PlacedBet, keep func(BetStatus) bool) []PlacedBet {
	out := make([]PlacedBet, 0, len(bets))
	for _, b := range bets {
		if keep(b.Status) {
			out = append(out, b)
		}
	}
	return out
}

func (e *Engine) Transactions() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.List()
}

// Snapshot devolve uma visão consistente de todo o estado
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		SessionID:       e.session,
		InitialBalance:  e.initial,
		Balance:         e.balance,
		Slip:            e.slip.Entries(),
		TotalWager:      e.slip.TotalWager(),
		PotentialPayout: e.slip.PotentialPayout(),
		Bets:            append([]PlacedBet(nil), e.bets...),
		Transactions:    e.ledger.List(),
		SavedAt:         e.now(),
	}
}

func (e *Engine) appendTx(typ TransactionType, amount int64, desc string, at time.Time) Transaction {
	tx := Transaction{
		ID:          "txn-" + uuid.NewString(),
		Type:        typ,
		Amount:      amount,
		Description: desc,
		Date:        at,
	}
	e.ledger.Append(tx)
	return tx
}

// emit deve ser chamado com o lock seguro
func (e *Engine) emit(ev Event) {
	ev.SessionID = e.session
	ev.Balance = e.balance
	e.notify(ev)
}
