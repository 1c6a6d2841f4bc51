package bank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"PreApprove/internal/domain/models"
	"PreApprove/pkg/config"
	xhttp "PreApprove/pkg/http"
	"PreApprove/pkg/logger"
)

// Client fetches identity, balance, and transaction history from the
// banking microservices and normalizes them into a snapshot. All calls are
// reads; nothing here ever mutates upstream state.
type Client struct {
	identityURL string
	balanceURL  string
	historyURL  string
	http        *xhttp.Client
	logger      *logger.Logger
}

// NewClient builds an upstream data client from config.
func NewClient(cfg *config.Config, l *logger.Logger) *Client {
	return &Client{
		identityURL: cfg.Upstream.IdentityURL,
		balanceURL:  cfg.Upstream.BalanceURL,
		historyURL:  cfg.Upstream.HistoryURL,
		http:        xhttp.NewClient(xhttp.WithTimeout(cfg.Upstream.Timeout)),
		logger:      l,
	}
}

type identityResponse struct {
	Username  string `json:"username"`
	AccountID string `json:"account_id"`
}

type historyEntry struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Timestamp   string `json:"timestamp"`
}

// Fetch resolves the username to an account, reads balance and history, and
// builds the snapshot. Returns models.ErrUserNotFound when the identity
// lookup yields nothing and models.ErrUpstreamUnavailable when any service
// is unreachable.
func (c *Client) Fetch(ctx context.Context, username string, months int) (*models.UserFinancialSnapshot, error) {
	identity, err := c.lookupIdentity(ctx, username)
	if err != nil {
		return nil, err
	}

	balance, err := c.fetchBalance(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}

	entries, err := c.fetchHistory(ctx, identity.AccountID, months)
	if err != nil {
		return nil, err
	}

	snapshot := c.normalize(identity, balance, entries)
	c.logger.Debug("snapshot fetched",
		logger.String("username", username),
		logger.Int("transactions", len(snapshot.Transactions)),
	)
	return snapshot, nil
}

func (c *Client) lookupIdentity(ctx context.Context, username string) (*identityResponse, error) {
	var identity identityResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/users/%s", c.identityURL, username),
	}, &identity)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("%w: identity lookup: %v", models.ErrUpstreamUnavailable, err)
	}
	if identity.AccountID == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, username)
	}
	if identity.Username == "" {
		identity.Username = username
	}
	return &identity, nil
}

func (c *Client) fetchBalance(ctx context.Context, accountID string) (float64, error) {
	var cents int64
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/balances/%s", c.balanceURL, accountID),
	}, &cents)
	if err != nil {
		return 0, fmt.Errorf("%w: balance read: %v", models.ErrUpstreamUnavailable, err)
	}
	return float64(cents) / 100, nil
}

func (c *Client) fetchHistory(ctx context.Context, accountID string, months int) ([]historyEntry, error) {
	var entries []historyEntry
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/transactions/%s", c.historyURL, accountID),
		QueryParams: map[string][]string{
			"months": {strconv.Itoa(months)},
		},
	}, &entries)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction history: %v", models.ErrUpstreamUnavailable, err)
	}
	return entries, nil
}

// normalize converts raw history entries into signed dollar transactions
// with merchant categories, and extracts the income-deposit subsequence.
func (c *Client) normalize(identity *identityResponse, balance float64, entries []historyEntry) *models.UserFinancialSnapshot {
	txs := make([]models.Transaction, 0, len(entries))
	deposits := make([]models.Transaction, 0)

	for _, e := range entries {
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			ts = time.Time{}
		}
		amount := float64(e.AmountCents) / 100

		var tx models.Transaction
		switch {
		case e.FromAccount == ExternalRoutingAccount:
			tx = models.Transaction{
				ID:           e.ID,
				Amount:       amount,
				Counterparty: "Payroll Deposit",
				Category:     "Income",
				Timestamp:    ts,
			}
			deposits = append(deposits, tx)
		case e.FromAccount == identity.AccountID:
			m := LookupMerchant(e.ToAccount)
			tx = models.Transaction{
				ID:           e.ID,
				Amount:       -amount,
				Counterparty: m.Name,
				Category:     m.Category,
				Timestamp:    ts,
			}
		default:
			tx = models.Transaction{
				ID:           e.ID,
				Amount:       amount,
				Counterparty: e.FromAccount,
				Category:     "Transfers",
				Timestamp:    ts,
			}
		}
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool { return txs[i].Timestamp.Before(txs[j].Timestamp) })
	sort.Slice(deposits, func(i, j int) bool { return deposits[i].Timestamp.Before(deposits[j].Timestamp) })

	return &models.UserFinancialSnapshot{
		Username:       identity.Username,
		AccountID:      identity.AccountID,
		CurrentBalance: balance,
		Transactions:   txs,
		IncomeDeposits: deposits,
		FetchedAt:      time.Now(),
	}
}
