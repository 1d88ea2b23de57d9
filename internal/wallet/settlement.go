package wallet

import (
	"math/rand"
	"sync"
	"time"
)

// Scheduler executa f depois de d. Não há cancelamento.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler usa time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// DelayFunc escolhe quanto tempo uma aposta fica pendente
type DelayFunc func() time.Duration

// DecideFunc escolhe o resultado final (StatusWon ou StatusLost)
type DecideFunc func() BetStatus

// Settlement é a mensagem que o simulador devolve ao engine quando o timer expira
type Settlement struct {
	BetID   string
	Outcome BetStatus
}

// Simulator agenda uma liquidação independente por aposta
type Simulator struct {
	sched  Scheduler
	delay  DelayFunc
	decide DecideFunc
}

func NewSimulator(sched Scheduler, delay DelayFunc, decide DecideFunc) *Simulator {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Simulator{sched: sched, delay: delay, decide: decide}
}

// Schedule decide atraso e resultado no agendamento e entrega a mensagem em post
// quando o atraso expira
func (s *Simulator) Schedule(betID string, post func(Settlement)) {
	d := s.delay()
	outcome := s.decide()
	if outcome != StatusWon {
		outcome = StatusLost
	}
	s.sched.AfterFunc(d, func() {
		post(Settlement{BetID: betID, Outcome: outcome})
	})
}

// UniformDelay sorteia um atraso em [lo, hi]
func UniformDelay(rng *rand.Rand, lo, hi time.Duration) DelayFunc {
	if hi < lo {
		lo, hi = hi, lo
	}
	var mu sync.Mutex
	return func() time.Duration {
		if hi == lo {
			return lo
		}
		mu.Lock()
		defer mu.Unlock()
		return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
	}
}

// WinProbability vence com probabilidade p
func WinProbability(rng *rand.Rand, p float64) DecideFunc {
	var mu sync.Mutex
	return func() BetStatus {
		mu.Lock()
		defer mu.Unlock()
		if rng.Float64() < p {
			return StatusWon
		}
		return StatusLost
	}
}

// FixedDelay e FixedOutcome servem para testes e ambientes determinísticos
func FixedDelay(d time.Duration) DelayFunc { return func() time.Duration { return d } }

func FixedOutcome(s BetStatus) DecideFunc { return func() BetStatus { return s } }
