package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// Postgres espelha o ledger e as apostas das carteiras virtuais em banco.
// É um journal de auditoria: o estado da sessão continua só em memória.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const schema = `
CREATE TABLE IF NOT EXISTS wallet_ledger (
	id             TEXT PRIMARY KEY,
	session_id     TEXT        NOT NULL,
	operation_type TEXT        NOT NULL,
	amount_units   BIGINT      NOT NULL,
	description    TEXT        NOT NULL,
	balance_after  BIGINT      NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS wallet_ledger_session_idx ON wallet_ledger (session_id, created_at DESC);

CREATE TABLE IF NOT EXISTS bets (
	id           TEXT PRIMARY KEY,
	session_id   TEXT             NOT NULL,
	match_id     TEXT             NOT NULL,
	market       TEXT             NOT NULL,
	market_label TEXT             NOT NULL,
	stake_units  BIGINT           NOT NULL,
	odd_value    DOUBLE PRECISION NOT NULL,
	status       TEXT             NOT NULL,
	payout_units BIGINT,
	created_at   TIMESTAMPTZ      NOT NULL,
	updated_at   TIMESTAMPTZ      NOT NULL
);

CREATE TABLE IF NOT EXISTS bet_transactions (
	bet_id     TEXT        NOT NULL REFERENCES bets(id),
	old_status TEXT        NOT NULL,
	new_status TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema cria as tabelas se ainda não existirem
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// Publish grava o evento; reentregas são idempotentes por id
func (p *Postgres) Publish(ctx context.Context, ev wallet.Event) error {
	switch ev.Kind {
	case wallet.EventTransaction:
		return p.insertLedger(ctx, ev)
	case wallet.EventBetPlaced:
		return p.insertBet(ctx, ev)
	case wallet.EventBetSettled:
		return p.settleBet(ctx, ev)
	}
	return nil
}

func (p *Postgres) insertLedger(ctx context.Context, ev wallet.Event) error {
	tx := ev.Transaction
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO wallet_ledger (id, session_id, operation_type, amount_units, description, balance_after, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING`,
		tx.ID, ev.SessionID, string(tx.Type), tx.Amount, tx.Description, ev.Balance, tx.Date,
	)
	if err != nil {
		return fmt.Errorf("insert ledger %s: %w", tx.ID, err)
	}
	return nil
}

func (p *Postgres) insertBet(ctx context.Context, ev wallet.Event) error {
	b := ev.Bet
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, session_id, match_id, market, market_label, stake_units, odd_value, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		ON CONFLICT (id) DO NOTHING`,
		b.ID, ev.SessionID, b.Selection.MatchID, string(b.Selection.Market), b.Selection.MarketLabel,
		b.Wager, b.Selection.Odds, string(b.Status), b.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bet %s: %w", b.ID, err)
	}
	return nil
}

// settleBet atualiza o status e registra a transição em bet_transactions.
// Só sai de PENDING uma vez: se nenhuma linha mudou, não há o que registrar.
func (p *Postgres) settleBet(ctx context.Context, ev wallet.Event) error {
	b := ev.Bet
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bets SET status=$1, payout_units=$2, updated_at=$3
		WHERE id=$4 AND status='PENDING'`,
		string(b.Status), b.Payout, ev.At, b.ID,
	)
	if err != nil {
		return fmt.Errorf("settle bet %s: %w", b.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bet_transactions (bet_id, old_status, new_status, created_at)
		VALUES ($1,'PENDING',$2,$3)`, b.ID, string(b.Status), ev.At); err != nil {
		return fmt.Errorf("insert bet transition %s: %w", b.ID, err)
	}

	return tx.Commit()
}

// LedgerEntry é uma linha do journal lida de volta
type LedgerEntry struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	AmountUnits  int64  `json:"amount"`
	Description  string `json:"description"`
	BalanceAfter int64  `json:"balanceAfter"`
	CreatedAt    string `json:"date"`
}

// ListLedger devolve o journal de uma sessão, mais recente primeiro
func (p *Postgres) ListLedger(ctx context.Context, sessionID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, operation_type, amount_units, description, balance_after,
		       to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM wallet_ledger
		WHERE session_id=$1
		ORDER BY created_at DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.AmountUnits, &e.Description, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
