package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/raphbet-wallet/internal/shared/kafka"
	"github.com/radieske/raphbet-wallet/internal/wallet"
	"github.com/radieske/raphbet-wallet/pkg/contracts/events"
)

// messageWriter é o subconjunto de *kafka.Writer usado aqui
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica os eventos das carteiras nos tópicos bet_placed,
// bet_settled e wallet_transactions. A chave é o sessionId para manter a
// ordem por sessão dentro da partição.
type KafkaPublisher struct {
	placed       messageWriter
	settled      messageWriter
	transactions messageWriter
}

func NewKafkaPublisher(brokers, topicPlaced, topicSettled, topicTx string) *KafkaPublisher {
	return &KafkaPublisher{
		placed:       skafka.NewWriter(brokers, topicPlaced),
		settled:      skafka.NewWriter(brokers, topicSettled),
		transactions: skafka.NewWriter(brokers, topicTx),
	}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Publish(ctx context.Context, ev wallet.Event) error {
	var (
		w       messageWriter
		payload any
	)
	switch ev.Kind {
	case wallet.EventBetPlaced:
		w, payload = p.placed, ToBetPlaced(ev)
	case wallet.EventBetSettled:
		w, payload = p.settled, ToBetSettled(ev)
	case wallet.EventTransaction:
		w, payload = p.transactions, ToWalletTransaction(ev)
	default:
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Kind, err)
	}
	return skafka.WriteJSON(ctx, w, ev.SessionID, b)
}

func (p *KafkaPublisher) Close() error {
	var first error
	for _, w := range []messageWriter{p.placed, p.settled, p.transactions} {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func ToBetPlaced(ev wallet.Event) events.BetPlaced {
	b := ev.Bet
	return events.BetPlaced{
		SessionID:   ev.SessionID,
		BetID:       b.ID,
		MatchID:     b.Selection.MatchID,
		Description: b.Selection.MatchDescription,
		Market:      string(b.Selection.Market),
		Label:       b.Selection.MarketLabel,
		StakeUnits:  b.Wager,
		OddValue:    b.Selection.Odds,
		Balance:     ev.Balance,
		TsUnixMs:    b.PlacedAt.UnixMilli(),
	}
}

func ToBetSettled(ev wallet.Event) events.BetSettled {
	b := ev.Bet
	var payout int64
	if b.Payout != nil {
		payout = *b.Payout
	}
	return events.BetSettled{
		SessionID:   ev.SessionID,
		BetID:       b.ID,
		MatchID:     b.Selection.MatchID,
		Status:      string(b.Status),
		StakeUnits:  b.Wager,
		PayoutUnits: payout,
		Balance:     ev.Balance,
		Ts:          ev.At,
	}
}

func ToWalletTransaction(ev wallet.Event) events.WalletTransaction {
	tx := ev.Transaction
	return events.WalletTransaction{
		SessionID:     ev.SessionID,
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		AmountUnits:   tx.Amount,
		Description:   tx.Description,
		Balance:       ev.Balance,
		Date:          tx.Date,
	}
}
