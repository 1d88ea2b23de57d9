package wallet

// DefaultWager é o valor inicial de uma seleção recém-adicionada (10.000 Tsh)
const DefaultWager int64 = 10000

// BetSlip guarda as seleções ainda não apostadas, no máximo uma por partida.
// Não é seguro para uso concorrente: o Engine serializa o acesso.
type BetSlip struct {
	entries      []BetSlipEntry
	defaultWager int64
}

func newBetSlip(defaultWager int64) *BetSlip {
	if defaultWager <= 0 {
		defaultWager = DefaultWager
	}
	return &BetSlip{defaultWager: defaultWager}
}

func (s *BetSlip) index(matchID string) int {
	for i := range s.entries {
		if s.entries[i].Selection.MatchID == matchID {
			return i
		}
	}
	return -1
}

// Add insere a seleção ou substitui a da mesma partida mantendo o wager existente
func (s *BetSlip) Add(sel Selection) {
	if i := s.index(sel.MatchID); i >= 0 {
		wager := s.entries[i].Wager
		if wager == 0 {
			wager = s.defaultWager
		}
		s.entries[i] = BetSlipEntry{Selection: sel, Wager: wager}
		return
	}
	s.entries = append(s.entries, BetSlipEntry{Selection: sel, Wager: s.defaultWager})
}

func (s *BetSlip) Remove(matchID string) {
	if i := s.index(matchID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
}

// UpdateWager aceita qualquer valor; a validação acontece só no PlaceBet
func (s *BetSlip) UpdateWager(matchID string, wager int64) {
	if i := s.index(matchID); i >= 0 {
		s.entries[i].Wager = wager
	}
}

func (s *BetSlip) Clear() { s.entries = nil }

func (s *BetSlip) Len() int { return len(s.entries) }

// Entries retorna uma cópia na ordem de inserção
func (s *BetSlip) Entries() []BetSlipEntry {
	out := make([]BetSlipEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// TotalWager é informativo e satura em vez de estourar
func (s *BetSlip) TotalWager() int64 {
	var total int64
	for _, e := range s.entries {
		total = saturatingAdd(total, e.Wager)
	}
	return total
}

// checkedTotal é a soma usada na aposta; ok=false em overflow
func (s *BetSlip) checkedTotal() (int64, bool) {
	var total int64
	for _, e := range s.entries {
		var ok bool
		if total, ok = addUnits(total, e.Wager); !ok {
			return 0, false
		}
	}
	return total, true
}

func (s *BetSlip) hasNegativeWager() bool {
	for _, e := range s.entries {
		if e.Wager < 0 {
			return true
		}
	}
	return false
}

func (s *BetSlip) PotentialPayout() int64 {
	var total int64
	for _, e := range s.entries {
		total = saturatingAdd(total, e.PotentialPayout())
	}
	return total
}
