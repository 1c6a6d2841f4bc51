package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Transaction is one normalized ledger entry from the upstream history
// service. Amounts are in dollars; negative means money leaving the account.
type Transaction struct {
	ID           string    `json:"id"`
	Amount       float64   `json:"amount"`
	Counterparty string    `json:"counterparty"`
	Category     string    `json:"category"`
	Timestamp    time.Time `json:"timestamp"`
}

// UserFinancialSnapshot is everything fetched from the banking services for
// a single pipeline run. Immutable once built.
type UserFinancialSnapshot struct {
	Username       string        `json:"username"`
	AccountID      string        `json:"account_id"`
	CurrentBalance float64       `json:"current_balance"`
	Transactions   []Transaction `json:"transactions"`
	IncomeDeposits []Transaction `json:"income_deposits"`
	FetchedAt      time.Time     `json:"fetched_at"`
}

// Fingerprint derives the cache key for a snapshot: username plus a content
// hash, so the cache misses as soon as new transactions appear.
func (s *UserFinancialSnapshot) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%.2f|", s.Username, s.AccountID, s.CurrentBalance)

	// Hash lines sorted so fetch order never changes the fingerprint.
	lines := make([]string, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		lines = append(lines, fmt.Sprintf("%s|%.2f|%s|%d", tx.ID, tx.Amount, tx.Counterparty, tx.Timestamp.Unix()))
	}
	sort.Strings(lines)
	for _, ln := range lines {
		h.Write([]byte(ln))
		h.Write([]byte{'\n'})
	}

	return s.Username + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}
