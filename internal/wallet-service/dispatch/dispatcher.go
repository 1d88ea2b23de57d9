package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// Sink recebe os eventos das carteiras (Kafka, Postgres, Redis, WebSocket, métricas)
type Sink interface {
	Name() string
	Publish(ctx context.Context, ev wallet.Event) error
}

// Dispatcher desacopla o engine dos sinks: Notify só enfileira, Run entrega
// os eventos na ordem de chegada para todos os sinks
type Dispatcher struct {
	Log   *zap.Logger
	Sinks []Sink

	SinkTimeout time.Duration

	OnError   func(sink string) // métricas
	OnDropped func()            // métricas

	ch chan wallet.Event
}

func New(log *zap.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	return &Dispatcher{
		Log:         log,
		Sinks:       sinks,
		SinkTimeout: 2 * time.Second,
		ch:          make(chan wallet.Event, buffer),
	}
}

// Notify implementa wallet.Notifier. Nunca bloqueia: com o buffer cheio o
// evento é descartado e contado.
func (d *Dispatcher) Notify(ev wallet.Event) {
	select {
	case d.ch <- ev:
	default:
		d.Log.Warn("event buffer full, dropping event",
			zap.String("session", ev.SessionID),
			zap.String("kind", string(ev.Kind)),
		)
		if d.OnDropped != nil {
			d.OnDropped()
		}
	}
}

// Run consome a fila até o contexto ser cancelado; o que ainda estiver no
// buffer é entregue antes de retornar
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case ev := <-d.ch:
			d.deliver(context.Background(), ev)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.ch:
			d.deliver(context.Background(), ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(parent context.Context, ev wallet.Event) {
	for _, s := range d.Sinks {
		ctx, cancel := context.WithTimeout(parent, d.SinkTimeout)
		err := s.Publish(ctx, ev)
		cancel()
		if err != nil {
			d.Log.Warn("sink publish failed",
				zap.String("sink", s.Name()),
				zap.String("session", ev.SessionID),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
			if d.OnError != nil {
				d.OnError(s.Name())
			}
		}
	}
}
