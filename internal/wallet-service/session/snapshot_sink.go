package session

import (
	"context"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// SnapshotSink regrava o snapshot da sessão a cada evento. Registrado no
// dispatcher depois dos demais sinks.
type SnapshotSink struct {
	reg   *Registry
	store SnapshotStore
}

func NewSnapshotSink(reg *Registry, store SnapshotStore) *SnapshotSink {
	return &SnapshotSink{reg: reg, store: store}
}

func (s *SnapshotSink) Name() string { return "redis" }

func (s *SnapshotSink) Publish(ctx context.Context, ev wallet.Event) error {
	eng, ok := s.reg.lookup(ev.SessionID)
	if !ok || eng.Closed() {
		return nil
	}
	return s.store.Save(ctx, eng.Snapshot())
}
