package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/raphbet-wallet/internal/shared/config"
	"github.com/radieske/raphbet-wallet/internal/wallet"
)

var ErrNotFound = errors.New("session not found")

// SnapshotStore é implementado por cache.SnapshotStore (Redis)
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (wallet.State, bool, error)
	Save(ctx context.Context, st wallet.State) error
	Delete(ctx context.Context, sessionID string) error
}

type entry struct {
	eng      *wallet.Engine
	lastSeen time.Time
}

// Registry mantém um engine por sessão
type Registry struct {
	log    *zap.Logger
	cfg    config.WalletConfig
	notify wallet.Notifier
	store  SnapshotStore
	sched  wallet.Scheduler
	delay  wallet.DelayFunc
	decide wallet.DecideFunc
	now    func() time.Time

	onCount func(n int)

	mu       sync.Mutex
	sessions map[string]*entry
}

type Option func(*Registry)

// WithStore liga a persistência de snapshots; nil desliga
func WithStore(s SnapshotStore) Option { return func(r *Registry) { r.store = s } }

func WithScheduler(s wallet.Scheduler) Option { return func(r *Registry) { r.sched = s } }

func WithOutcome(d wallet.DecideFunc) Option { return func(r *Registry) { r.decide = d } }

func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

// WithCounter recebe o total de sessões abertas a cada mudança (gauge)
func WithCounter(f func(n int)) Option { return func(r *Registry) { r.onCount = f } }

func New(log *zap.Logger, cfg config.WalletConfig, notify wallet.Notifier, opts ...Option) *Registry {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	r := &Registry{
		log:      log,
		cfg:      cfg,
		notify:   notify,
		delay:    wallet.UniformDelay(rng, cfg.SettleMinDelay, cfg.SettleMaxDelay),
		decide:   wallet.WinProbability(rng, cfg.WinProbability),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) walletConfig() wallet.Config {
	return wallet.Config{
		InitialBalance: r.cfg.InitialBalance,
		DefaultWager:   r.cfg.DefaultWager,
		Delay:          r.delay,
		Decide:         r.decide,
		Scheduler:      r.sched,
	}
}

// Open devolve a sessão id, criando-a se preciso. id vazio gera um novo.
// Com store configurado, tenta restaurar o último snapshot antes de criar do zero.
func (r *Registry) Open(ctx context.Context, id string) (*wallet.Engine, bool, error) {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.eng, false, nil
	}
	r.mu.Unlock()

	opts := []wallet.Option{
		wallet.WithSessionID(id),
		wallet.WithLogger(r.log),
		wallet.WithNotifier(r.notify),
	}

	var eng *wallet.Engine
	restored := false
	if r.store != nil {
		st, found, err := r.store.Load(ctx, id)
		if err != nil {
			// snapshot ilegível não impede abrir a sessão
			r.log.Warn("snapshot load failed", zap.String("session", id), zap.Error(err))
		}
		if found {
			eng, err = wallet.Restore(r.walletConfig(), st, opts...)
			if err != nil {
				r.log.Warn("snapshot discarded", zap.String("session", id), zap.Error(err))
				eng = nil
			} else {
				restored = true
			}
		}
	}
	if eng == nil {
		eng = wallet.New(r.walletConfig(), opts...)
	}

	r.mu.Lock()
	if e, ok := r.sessions[id]; ok {
		// outra requisição abriu a mesma sessão enquanto carregávamos
		r.mu.Unlock()
		eng.Close()
		return e.eng, false, nil
	}
	r.sessions[id] = &entry{eng: eng, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	r.count(n)
	r.log.Info("session opened", zap.String("session", id), zap.Bool("restored", restored))
	return eng, restored, nil
}

// Get devolve a sessão aberta e renova o lastSeen
func (r *Registry) Get(id string) (*wallet.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.eng, nil
}

// lookup não conta como atividade
func (r *Registry) lookup(id string) (*wallet.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.eng, true
}

// Close encerra a sessão e apaga o snapshot
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	e.eng.Close()
	r.count(n)
	r.log.Info("session closed", zap.String("session", id))
	if r.store != nil {
		return r.store.Delete(ctx, id)
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep fecha sessões sem atividade há mais de SessionTTL. O snapshot fica
// no cache (expira pelo TTL do Redis) para a sessão poder ser reaberta.
func (r *Registry) Sweep() int {
	if r.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.SessionTTL)

	r.mu.Lock()
	var idle []*entry
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, e := range idle {
		e.eng.Close()
	}
	if len(idle) > 0 {
		r.count(n)
		r.log.Info("idle sessions swept", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// RunSweeper chama Sweep a cada intervalo até o contexto acabar
func (r *Registry) RunSweeper(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep()
		}
	}
}

// Shutdown fecha todas as sessões mantendo os snapshots
func (r *Registry) Shutdown() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range all {
		e.eng.Close()
	}
	r.count(0)
}

func (r *Registry) count(n int) {
	if r.onCount != nil {
		r.onCount(n)
	}
}
