package wallet

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler guarda os timers e só dispara quando o teste manda
type manualScheduler struct {
	mu      sync.Mutex
	pending []pendingTimer
}

type pendingTimer struct {
	d time.Duration
	f func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, pendingTimer{d: d, f: f})
}

func (m *manualScheduler) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// FireAll dispara na ordem de expiração
func (m *manualScheduler) FireAll() {
	m.mu.Lock()
	timers := m.pending
	m.pending = nil
	m.mu.Unlock()
	sort.SliceStable(timers, func(i, j int) bool { return timers[i].d < timers[j].d })
	for _, t := range timers {
		t.f()
	}
}

func sel(matchID string, odds float64) Selection {
	return Selection{
		MatchID:          matchID,
		MatchDescription: matchID + " home vs " + matchID + " away",
		MarketLabel:      "Home Win",
		Market:           MarketHome,
		Odds:             odds,
	}
}

func newTestEngine(t *testing.T, balance int64, outcome BetStatus) (*Engine, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	e := New(Config{
		InitialBalance: balance,
		DefaultWager:   DefaultWager,
		Delay:          FixedDelay(15 * time.Second),
		Decide:         FixedOutcome(outcome),
		Scheduler:      sched,
	}, WithSessionID("test"))
	return e, sched
}

func assertLedgerInvariant(t *testing.T, e *Engine) {
	t.Helper()
	st := e.Snapshot()
	var sum int64
	for _, tx := range st.Transactions {
		sum += tx.Amount
	}
	assert.Equal(t, st.InitialBalance+sum, st.Balance, "balance must equal initial + ledger sum")
	assert.GreaterOrEqual(t, st.Balance, int64(0))
}

func TestPlaceBet_Success(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusLost)
	e.AddSelection(sel("PLM1", 2.5))
	e.AddSelection(sel("PLM2", 1.9))
	e.UpdateWager("PLM2", 5000)

	res := e.PlaceBet()

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Successfully placed 2 bet(s)!", res.Message)
	assert.NotEmpty(t, res.TransactionID)
	assert.Equal(t, int64(100000-15000), e.Balance())
	assert.Empty(t, e.Slip())

	bets := e.PlacedBets()
	require.Len(t, bets, 2)
	for _, b := range bets {
		assert.Equal(t, StatusPending, b.Status)
		assert.Nil(t, b.Payout)
	}
	assert.NotEqual(t, bets[0].ID, bets[1].ID)

	txs := e.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, TxWager, txs[0].Type)
	assert.Equal(t, int64(-15000), txs[0].Amount)
	assert.Equal(t, "2 bet(s) placed", txs[0].Description)
	assert.Equal(t, 2, sched.Len())
	assertLedgerInvariant(t, e)
}

func TestPlaceBet_EmptySlip(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusWon)

	res := e.PlaceBet()

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrInvalidWager)
	assert.Equal(t, "INVALID_WAGER", res.Code())
	assert.Equal(t, int64(100000), e.Balance())
	assert.Empty(t, e.Transactions())
	assert.Zero(t, sched.Len())
}

func TestPlaceBet_ZeroWagers(t *testing.T) {
	e, _ := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.5))
	e.UpdateWager("PLM1", 0)

	res := e.PlaceBet()

	assert.ErrorIs(t, res.Err, ErrInvalidWager)
	assert.Len(t, e.Slip(), 1)
	assert.Empty(t, e.PlacedBets())
	assert.Equal(t, int64(100000), e.Balance())
}

func TestPlaceBet_ZeroWagerEntryIsPlaced(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.5))
	e.AddSelection(sel("PLM2", 3.0))
	e.UpdateWager("PLM2", 0)

	res := e.PlaceBet()

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Successfully placed 2 bet(s)!", res.Message)
	assert.Equal(t, int64(90000), e.Balance())
	bets := e.PlacedBets()
	require.Len(t, bets, 2)
	wagers := []int64{bets[0].Wager, bets[1].Wager}
	assert.ElementsMatch(t, []int64{10000, 0}, wagers)

	sched.FireAll()
	payouts := map[int64]int64{}
	for _, b := range e.PlacedBets() {
		assert.Equal(t, StatusWon, b.Status)
		require.NotNil(t, b.Payout)
		payouts[b.Wager] = *b.Payout
	}
	assert.Equal(t, map[int64]int64{10000: 25000, 0: 0}, payouts)
	assert.Equal(t, int64(90000+25000), e.Balance())
	assertLedgerInvariant(t, e)
}

// wager negativo quebraria o saldo não negativo num prêmio
func TestPlaceBet_NegativeEntryRejected(t *testing.T) {
	e, _ := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.5))
	e.AddSelection(sel("PLM2", 2.5))
	e.UpdateWager("PLM2", -5000)

	res := e.PlaceBet()

	assert.ErrorIs(t, res.Err, ErrInvalidWager)
	assert.Len(t, e.Slip(), 2)
	assert.Equal(t, int64(100000), e.Balance())
}

func TestPlaceBet_WagerSumOverflow(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("A", 2.0))
	e.AddSelection(sel("B", 2.0))
	e.AddSelection(sel("C", 2.0))
	e.UpdateWager("A", math.MaxInt64)
	e.UpdateWager("B", math.MaxInt64)
	e.UpdateWager("C", 3)

	res := e.PlaceBet()

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrInsufficientBalance)
	assert.Equal(t, int64(100000), e.Balance())
	assert.Len(t, e.Slip(), 3)
	assert.Empty(t, e.PlacedBets())
	assert.Empty(t, e.Transactions())
	assert.Zero(t, sched.Len())
	assert.Equal(t, int64(math.MaxInt64), e.Snapshot().TotalWager)
}

func TestPlaceBet_PayoutOverflow(t *testing.T) {
	const balance = math.MaxInt64 - 3000
	e, _ := newTestEngine(t, balance, StatusWon)
	e.AddSelection(sel("A", 3.0))
	e.UpdateWager("A", math.MaxInt64/2)

	res := e.PlaceBet()

	assert.ErrorIs(t, res.Err, ErrInvalidWager)
	assert.Equal(t, int64(balance), e.Balance())
	assert.Empty(t, e.PlacedBets())

	e.UpdateWager("A", 1000)
	require.True(t, e.PlaceBet().Success)

	// o prêmio pendente de A (3000) também conta contra o espaço restante
	e.AddSelection(sel("B", 3.0))
	e.UpdateWager("B", 1000)
	assert.ErrorIs(t, e.PlaceBet().Err, ErrInvalidWager)
	assert.Equal(t, int64(balance-1000), e.Balance())
}

func TestPlaceBet_InsufficientBalance(t *testing.T) {
	e, sched := newTestEngine(t, 15000, StatusWon)
	e.AddSelection(sel("PLM1", 2.5))
	e.AddSelection(sel("PLM2", 1.9))

	res := e.PlaceBet()

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrInsufficientBalance)
	assert.Equal(t, "Insufficient balance.", res.Message)
	assert.Equal(t, int64(15000), e.Balance())
	assert.Len(t, e.Slip(), 2)
	assert.Empty(t, e.Transactions())
	assert.Zero(t, sched.Len())
}

func TestSettlement_Won(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.5))
	require.True(t, e.PlaceBet().Success)

	sched.FireAll()

	bets := e.PlacedBets()
	require.Len(t, bets, 1)
	assert.Equal(t, StatusWon, bets[0].Status)
	require.NotNil(t, bets[0].Payout)
	assert.Equal(t, int64(25000), *bets[0].Payout)
	assert.Equal(t, int64(100000-10000+25000), e.Balance())

	txs := e.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, TxPayout, txs[0].Type)
	assert.Equal(t, int64(25000), txs[0].Amount)
	assert.Equal(t, "Win: Home Win on PLM1 home vs PLM1 away", txs[0].Description)
	assertLedgerInvariant(t, e)
}

func TestSettlement_Lost(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusLost)
	e.AddSelection(sel("PLM1", 2.5))
	require.True(t, e.PlaceBet().Success)

	sched.FireAll()

	bets := e.PlacedBets()
	assert.Equal(t, StatusLost, bets[0].Status)
	require.NotNil(t, bets[0].Payout)
	assert.Zero(t, *bets[0].Payout)
	assert.Equal(t, int64(90000), e.Balance())
	assert.Len(t, e.Transactions(), 1)
	assertLedgerInvariant(t, e)
}

func TestSettlement_OnlyOnce(t *testing.T) {
	e, _ := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.0))
	require.True(t, e.PlaceBet().Success)
	id := e.PlacedBets()[0].ID

	e.settle(Settlement{BetID: id, Outcome: StatusWon})
	e.settle(Settlement{BetID: id, Outcome: StatusWon})
	e.settle(Settlement{BetID: id, Outcome: StatusLost})

	assert.Equal(t, StatusWon, e.PlacedBets()[0].Status)
	assert.Equal(t, int64(110000), e.Balance())
	assert.Len(t, e.Transactions(), 2)
}

func TestSettlement_DroppedAfterReset(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.0))
	require.True(t, e.PlaceBet().Success)

	e.Reset()
	sched.FireAll()

	assert.Equal(t, int64(100000), e.Balance())
	assert.Empty(t, e.PlacedBets())
	assert.Empty(t, e.Transactions())
}

func TestSettlement_DroppedAfterClose(t *testing.T) {
	e, sched := newTestEngine(t, 100000, StatusWon)
	e.AddSelection(sel("PLM1", 2.0))
	require.True(t, e.PlaceBet().Success)

	e.Close()
	sched.FireAll()

	assert.True(t, e.Closed())
	assert.Equal(t, int64(90000), e.Balance())
	assert.Equal(t, StatusPending, e.PlacedBets()[0].Status)
	assert.ErrorIs(t, e.TopUp(1000, "M-Pesa").Err, ErrClosed)
}

func TestClosedEngine_ResetAndClearAreNoops(t *testing.T) {
	var events []Event
	e := New(Config{InitialBalance: 100000, Scheduler: &manualScheduler{}},
		WithNotifier(func(ev Event) { events = append(events, ev) }))
	e.TopUp(5000, "M-Pesa")
	e.AddSelection(sel("PLM1", 2.0))
	e.Close()
	events = nil

	e.Reset()
	e.ClearSlip()

	assert.Empty(t, events, "closed engine emits nothing")
	assert.Equal(t, int64(105000), e.Balance())
	assert.Len(t, e.Slip(), 1)
	assert.Len(t, e.Transactions(), 1)
}

func TestSettlement_OrderFollowsExpiry(t *testing.T) {
	sched := &manualScheduler{}
	delays := []time.Duration{20 * time.Second, 10 * time.Second}
	var i int
	e := New(Config{
		InitialBalance: 100000,
		Delay: func() time.Duration {
			d := delays[i]
			i++
			return d
		},
		Decide:    FixedOutcome(StatusWon),
		Scheduler: sched,
	})
	e.AddSelection(sel("A", 2.0))
	require.True(t, e.PlaceBet().Success)
	e.AddSelection(sel("B", 3.0))
	require.True(t, e.PlaceBet().Success)

	sched.FireAll()

	txs := e.Transactions()
	require.Len(t, txs, 4)
	// B expira primeiro, então o payout de A é o mais recente
	assert.Equal(t, "Win: Home Win on A home vs A away", txs[0].Description)
	assert.Equal(t, "Win: Home Win on B home vs B away", txs[1].Description)
}

func TestTopUp(t *testing.T) {
	e, _ := newTestEngine(t, 0, StatusLost)

	res := e.TopUp(10000, "M-Pesa")

	require.True(t, res.Success)
	assert.Equal(t, "Successfully topped up 10,000 Tsh", res.Message)
	assert.Equal(t, int64(10000), e.Balance())
	txs := e.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, TxTopUp, txs[0].Type)
	assert.Equal(t, int64(10000), txs[0].Amount)
	assert.Equal(t, "Top up via M-Pesa", txs[0].Description)
	assert.Equal(t, res.TransactionID, txs[0].ID)
}

func TestTopUp_InvalidAmount(t *testing.T) {
	e, _ := newTestEngine(t, 0, StatusLost)

	for _, amount := range []int64{0, -1} {
		res := e.TopUp(amount, "M-Pesa")
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, ErrInvalidAmount)
	}
	assert.Zero(t, e.Balance())
	assert.Empty(t, e.Transactions())
}

func TestTopUp_Overflow(t *testing.T) {
	e, _ := newTestEngine(t, math.MaxInt64-5, StatusLost)

	res := e.TopUp(10, "M-Pesa")

	assert.ErrorIs(t, res.Err, ErrInvalidAmount)
	assert.Equal(t, int64(math.MaxInt64-5), e.Balance())
	assert.True(t, e.TopUp(5, "M-Pesa").Success)
}

func TestWithdraw(t *testing.T) {
	e, _ := newTestEngine(t, 20000, StatusLost)

	res := e.Withdraw(5000, "M-Pesa (0712345678)")

	require.True(t, res.Success)
	assert.Equal(t, "Successfully withdrew 5,000 Tsh!", res.Message)
	assert.Equal(t, int64(15000), e.Balance())
	txs := e.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, TxWithdrawal, txs[0].Type)
	assert.Equal(t, int64(-5000), txs[0].Amount)
	assert.Equal(t, "Withdrawal to M-Pesa (0712345678)", txs[0].Description)
	assertLedgerInvariant(t, e)
}

func TestWithdraw_Failures(t *testing.T) {
	e, _ := newTestEngine(t, 3000, StatusLost)

	res := e.Withdraw(5000, "M-Pesa")
	assert.ErrorIs(t, res.Err, ErrInsufficientBalance)
	assert.Equal(t, "INSUFFICIENT_BALANCE", res.Code())

	res = e.Withdraw(0, "M-Pesa")
	assert.ErrorIs(t, res.Err, ErrInvalidAmount)

	assert.Equal(t, int64(3000), e.Balance())
	assert.Empty(t, e.Transactions())
}

func TestNotifier_ReceivesEventsInOrder(t *testing.T) {
	sched := &manualScheduler{}
	var got []Event
	e := New(Config{
		InitialBalance: 50000,
		Decide:         FixedOutcome(StatusWon),
		Scheduler:      sched,
	}, WithSessionID("s1"), WithNotifier(func(ev Event) { got = append(got, ev) }))

	e.TopUp(1000, "Airtel Money")
	e.AddSelection(sel("PLM1", 2.0))
	e.PlaceBet()
	sched.FireAll()

	kinds := make([]EventKind, 0, len(got))
	for _, ev := range got {
		kinds = append(kinds, ev.Kind)
		assert.Equal(t, "s1", ev.SessionID)
	}
	assert.Equal(t, []EventKind{
		EventTransaction,
		EventBetPlaced,
		EventTransaction,
		EventBetSettled,
		EventTransaction,
	}, kinds)
	assert.Equal(t, int64(51000-10000+20000), got[len(got)-1].Balance)
}

func TestRestore(t *testing.T) {
	e, _ := newTestEngine(t, 100000, StatusWon)
	e.TopUp(5000, "M-Pesa")
	e.AddSelection(sel("PLM1", 2.0))
	require.True(t, e.PlaceBet().Success)
	e.AddSelection(sel("PLM2", 1.5))
	st := e.Snapshot()

	sched := &manualScheduler{}
	restored, err := Restore(Config{
		Decide:    FixedOutcome(StatusWon),
		Scheduler: sched,
	}, st)
	require.NoError(t, err)

	assert.Equal(t, "test", restored.SessionID())
	assert.Equal(t, st.Balance, restored.Balance())
	assert.Equal(t, st.Slip, restored.Slip())
	assert.Equal(t, st.Transactions, restored.Transactions())
	assert.Equal(t, 1, sched.Len(), "pending bet is rescheduled")

	sched.FireAll()
	assert.Equal(t, st.Balance+20000, restored.Balance())
	assertLedgerInvariant(t, restored)
}

func TestRestore_RejectsInconsistentState(t *testing.T) {
	_, err := Restore(Config{}, State{
		SessionID:      "bad",
		InitialBalance: 1000,
		Balance:        5000,
	})
	assert.Error(t, err)
}

func TestLedgerInvariant_RandomWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sched := &manualScheduler{}
	e := New(Config{
		InitialBalance: 100000,
		DefaultWager:   DefaultWager,
		Delay:          UniformDelay(rng, 10*time.Second, 20*time.Second),
		Decide:         WinProbability(rng, 0.5),
		Scheduler:      sched,
	}, WithSessionID("walk"))

	matches := []string{"PLM1", "PLM2", "PLM3", "LLM1", "LLM2"}
	odds := []float64{1.5, 1.9, 2.5, 3.4, 5.5}
	wagers := []int64{0, -1, -5000, 1, 999, 10000, 75000, math.MaxInt64, math.MinInt64, math.MaxInt64 / 2}
	amounts := []int64{0, -1, 1000, 25000, math.MaxInt64}

	sawWon, sawLost, sawReset := false, false, false
	for i := 0; i < 2000; i++ {
		id := matches[rng.Intn(len(matches))]
		switch op := rng.Intn(20); {
		case op < 4:
			s := sel(id, odds[rng.Intn(len(odds))])
			e.AddSelection(s)
		case op < 8:
			w := wagers[rng.Intn(len(wagers))]
			if rng.Intn(2) == 0 {
				w = rng.Int63n(60000)
			}
			e.UpdateWager(id, w)
		case op < 9:
			e.RemoveSelection(id)
		case op < 10:
			e.ClearSlip()
		case op < 13:
			before := e.Balance()
			known := len(e.PlacedBets())
			res := e.PlaceBet()
			if res.Success {
				bets := e.PlacedBets()
				var placed int64
				for _, b := range bets[:len(bets)-known] {
					assert.GreaterOrEqual(t, b.Wager, int64(0))
					assert.Equal(t, StatusPending, b.Status)
					placed += b.Wager
				}
				assert.Equal(t, before-placed, e.Balance(), "debit equals placed wagers")
				assert.Empty(t, e.Slip())
			} else {
				assert.Equal(t, before, e.Balance())
			}
		case op < 15:
			e.TopUp(amounts[rng.Intn(len(amounts))], "M-Pesa")
		case op < 17:
			e.Withdraw(amounts[rng.Intn(len(amounts))], "Tigo Pesa")
		case op < 19:
			sched.FireAll()
		default:
			if rng.Intn(10) == 0 {
				e.Reset()
				sawReset = true
			}
		}

		assertLedgerInvariant(t, e)
		for _, b := range e.PlacedBets() {
			switch b.Status {
			case StatusWon:
				sawWon = true
				require.NotNil(t, b.Payout)
				want := int64(math.Round(float64(b.Wager) * b.Selection.Odds))
				assert.Equal(t, want, *b.Payout)
			case StatusLost:
				sawLost = true
				require.NotNil(t, b.Payout)
				assert.Zero(t, *b.Payout)
			}
		}
	}
	assert.True(t, sawWon && sawLost && sawReset, "walk should cover both outcomes and reset")
}

func TestConcurrentOperations(t *testing.T) {
	e := New(Config{
		InitialBalance: 1_000_000,
		Delay:          FixedDelay(time.Millisecond),
		Decide:         FixedOutcome(StatusWon),
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.TopUp(1000, "M-Pesa")
			e.Withdraw(500, "M-Pesa")
			e.AddSelection(sel("M"+string(rune('A'+i)), 2.0))
			e.PlaceBet()
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(e.ActiveBets()) == 0
	}, 2*time.Second, 5*time.Millisecond)
	assertLedgerInvariant(t, e)
	assert.NotEmpty(t, e.SettledBets())
}
