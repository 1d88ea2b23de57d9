package wallet

// Ledger é a lista append-only de transações. Internamente guarda em ordem de
// inserção; List devolve da mais recente para a mais antiga.
type Ledger struct {
	txs []Transaction
}

func (l *Ledger) Append(tx Transaction) { l.txs = append(l.txs, tx) }

func (l *Ledger) Len() int { return len(l.txs) }

// Sum é a soma assinada de todos os valores
func (l *Ledger) Sum() int64 {
	var sum int64
	for _, tx := range l.txs {
		sum += tx.Amount
	}
	return sum
}

func (l *Ledger) List() []Transaction {
	out := make([]Transaction, len(l.txs))
	for i, tx := range l.txs {
		out[len(l.txs)-1-i] = tx
	}
	return out
}
