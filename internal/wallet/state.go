package wallet

import (
	"strconv"
	"time"
)

// State é a fotografia serializável de uma carteira. Também é o formato salvo
// no cache de sessão.
type State struct {
	SessionID       string         `json:"sessionId"`
	InitialBalance  int64          `json:"initialBalance"`
	Balance         int64          `json:"balance"`
	Slip            []BetSlipEntry `json:"betSlip"`
	TotalWager      int64          `json:"totalWager"`
	PotentialPayout int64          `json:"potentialPayout"`
	Bets            []PlacedBet    `json:"placedBets"`
	Transactions    []Transaction  `json:"transactions"`
	SavedAt         time.Time      `json:"savedAt"`
}

// FormatAmount formata com separador de milhar: 1234567 -> "1,234,567"
func FormatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := v < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3+1)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
