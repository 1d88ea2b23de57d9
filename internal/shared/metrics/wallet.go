package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// WalletCollector conta os eventos das carteiras. É registrado como sink no dispatcher.
type WalletCollector struct {
	betsPlaced   prometheus.Counter
	stakePlaced  prometheus.Counter
	betsSettled  *prometheus.CounterVec
	payouts      prometheus.Counter
	transactions *prometheus.CounterVec
	resets       prometheus.Counter
	sinkErrors   *prometheus.CounterVec
	dropped      prometheus.Counter
	sessions     prometheus.Gauge
}

// NewWalletCollector cria e registra as métricas em reg
func NewWalletCollector(reg prometheus.Registerer) *WalletCollector {
	c := &WalletCollector{
		betsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_bets_placed_total",
			Help: "Apostas criadas a partir do bet slip",
		}),
		stakePlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_stake_placed_units_total",
			Help: "Soma dos valores apostados",
		}),
		betsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_bets_settled_total",
			Help: "Apostas liquidadas por resultado",
		}, []string{"status"}),
		payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_payout_units_total",
			Help: "Soma dos prêmios pagos",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Linhas do ledger por tipo",
		}, []string{"type"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_resets_total",
			Help: "Carteiras reiniciadas",
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_event_sink_errors_total",
			Help: "Falhas ao entregar eventos por sink",
		}, []string{"sink"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_events_dropped_total",
			Help: "Eventos descartados com o buffer cheio",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_sessions_open",
			Help: "Sessões de carteira abertas",
		}),
	}
	reg.MustRegister(
		c.betsPlaced, c.stakePlaced, c.betsSettled, c.payouts,
		c.transactions, c.resets, c.sinkErrors, c.dropped, c.sessions,
	)
	return c
}

func (c *WalletCollector) Name() string { return "metrics" }

func (c *WalletCollector) Publish(_ context.Context, ev wallet.Event) error {
	switch ev.Kind {
	case wallet.EventBetPlaced:
		c.betsPlaced.Inc()
		c.stakePlaced.Add(float64(ev.Bet.Wager))
	case wallet.EventBetSettled:
		c.betsSettled.WithLabelValues(string(ev.Bet.Status)).Inc()
		if ev.Bet.Payout != nil {
			c.payouts.Add(float64(*ev.Bet.Payout))
		}
	case wallet.EventTransaction:
		c.transactions.WithLabelValues(string(ev.Transaction.Type)).Inc()
	case wallet.EventReset:
		c.resets.Inc()
	}
	return nil
}

// callbacks usados pelo dispatcher e pelo registry de sessões
func (c *WalletCollector) OnSinkError(sink string) { c.sinkErrors.WithLabelValues(sink).Inc() }

func (c *WalletCollector) OnDropped() { c.dropped.Inc() }

func (c *WalletCollector) SetSessions(n int) { c.sessions.Set(float64(n)) }
