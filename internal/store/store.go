// Package store persists pre-approval leads and affordability request
// records, with SQLite and Postgres backends.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hearthside-group/prequal-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status model.PreApprovalStatus `json:"status,omitempty"`
	Email  string                  `json:"email,omitempty"`
	Limit  int                     `json:"limit,omitempty"`
	Offset int                     `json:"offset,omitempty"`
}

// AffordabilityRecord is the audit-trail row for an unauthenticated
// affordability calculation.
type AffordabilityRecord struct {
	ID              string                     `json:"id"`
	Location        string                     `json:"location"`
	AnnualIncome    float64                    `json:"annual_income"`
	MonthlyDebt     float64                    `json:"monthly_debt"`
	AvailableFunds  float64                    `json:"available_funds"`
	MilitaryService bool                       `json:"military_service"`
	Result          *model.AffordabilityResult `json:"result"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// Store defines the persistence interface for the pre-approval flow.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	UpdateLeadResult(ctx context.Context, leadID string, result *model.PreApprovalResult) error
	GetLead(ctx context.Context, leadID string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// Affordability audit trail
	RecordAffordability(ctx context.Context, rec AffordabilityRecord) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Pool abstracts the subset of pgxpool.Pool the Postgres store uses, so
// tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}
