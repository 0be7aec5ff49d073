package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/hearthside-group/prequal-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS pre_approvals (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT,
	profile    JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS affordability_requests (
	id               UUID PRIMARY KEY,
	location         TEXT,
	annual_income    DOUBLE PRECISION NOT NULL,
	monthly_debt     DOUBLE PRECISION NOT NULL,
	available_funds  DOUBLE PRECISION NOT NULL,
	military_service BOOLEAN NOT NULL DEFAULT false,
	result           JSONB,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_pre_approvals_status ON pre_approvals(status);
CREATE INDEX IF NOT EXISTS idx_pre_approvals_email ON pre_approvals(email);
CREATE INDEX IF NOT EXISTS idx_affordability_created_at ON affordability_requests(created_at);
`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	profileJSON, err := json.Marshal(lead.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal profile")
	}

	status := "pending"
	var resultJSON []byte
	if lead.Result != nil {
		status = string(lead.Result.Status)
		if resultJSON, err = json.Marshal(lead.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: marshal result")
		}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO pre_approvals (id, name, email, phone, profile, status, result, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, lead.Name, lead.Email, lead.Phone, profileJSON, status, resultJSON, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert lead")
	}

	created := lead
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (s *PostgresStore) UpdateLeadResult(ctx context.Context, leadID string, result *model.PreApprovalResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE pre_approvals SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(result.Status), time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead result %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", leadID)
	}
	return nil
}

func (s *PostgresStore) GetLead(ctx context.Context, leadID string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, profile, result, created_at, updated_at FROM pre_approvals WHERE id = $1`,
		leadID,
	)

	l, err := scanPGLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("lead not found: %s", leadID)
		}
		return nil, err
	}
	return l, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT id, name, email, phone, profile, result, created_at, updated_at FROM pre_approvals WHERE 1=1`
	var args []any
	argNum := 1

	if filter.Status != "" {
		query += ` AND status = $1`
		args = append(args, string(filter.Status))
		argNum++
	}
	if filter.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argNum)
		args = append(args, filter.Email)
		argNum++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d", argNum)
	args = append(args, limit)
	argNum++

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanPGLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) RecordAffordability(ctx context.Context, rec AffordabilityRecord) error {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var resultJSON []byte
	if rec.Result != nil {
		b, err := json.Marshal(rec.Result)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal affordability result")
		}
		resultJSON = b
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO affordability_requests (id, location, annual_income, monthly_debt, available_funds, military_service, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, rec.Location, rec.AnnualIncome, rec.MonthlyDebt, rec.AvailableFunds, rec.MilitaryService, resultJSON, createdAt,
	)
	return eris.Wrap(err, "postgres: insert affordability request")
}

func scanPGLead(row pgx.Row) (*model.Lead, error) {
	var l model.Lead
	var phone *string
	var profileJSON []byte
	var resultJSON []byte

	if err := row.Scan(&l.ID, &l.Name, &l.Email, &phone, &profileJSON, &resultJSON, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan lead")
	}

	if phone != nil {
		l.Phone = *phone
	}
	if err := json.Unmarshal(profileJSON, &l.Profile); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	if len(resultJSON) > 0 {
		l.Result = &model.PreApprovalResult{}
		if err := json.Unmarshal(resultJSON, l.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &l, nil
}
