package wallet

import "math"

// addUnits soma com detecção de overflow
func addUnits(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// saturatingAdd é usado só nos totais informativos do slip
func saturatingAdd(a, b int64) int64 {
	if s, ok := addUnits(a, b); ok {
		return s
	}
	if b > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}

// payoutFor retorna wager × odds arredondado para a unidade; ok=false quando
// o resultado não cabe em int64
func payoutFor(wager int64, odds float64) (int64, bool) {
	p := math.Round(float64(wager) * odds)
	if math.IsNaN(p) || p >= float64(math.MaxInt64) || p < float64(math.MinInt64) {
		return 0, false
	}
	return int64(p), true
}
