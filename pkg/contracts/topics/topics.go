package topics

const (
	// Bets
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// Wallet
	WalletTransactions = "wallet_transactions"
)
