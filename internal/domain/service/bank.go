package service

import (
	"context"

	"PreApprove/internal/domain/models"
)

// BankDataFetcher reads identity, balance, and transaction history for a
// user and normalizes them into a snapshot. Read-only: implementations must
// never mutate upstream state.
type BankDataFetcher interface {
	Fetch(ctx context.Context, username string, months int) (*models.UserFinancialSnapshot, error)
}
