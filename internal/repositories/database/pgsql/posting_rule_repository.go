package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/models"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/mapping"
)

const postingRuleColumns = `event_kind, debit_account_code, credit_account_code, tax_account_code, created_at, created_by, last_updated_at, last_updated_by`

type PgxPostingRuleRepository struct {
	pool *pgxpool.Pool
}

// newPgxPostingRuleRepository creates a new repository for posting rules.
func newPgxPostingRuleRepository(pool *pgxpool.Pool) portsrepo.PostingRuleRepository {
	return &PgxPostingRuleRepository{pool: pool}
}

var _ portsrepo.PostingRuleRepository = (*PgxPostingRuleRepository)(nil)

func scanPostingRule(row pgx.Row) (*models.PostingRule, error) {
	var m models.PostingRule
	var taxCode sql.NullString

	err := row.Scan(
		&m.EventKind,
		&m.DebitAccountCode,
		&m.CreditAccountCode,
		&taxCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if taxCode.Valid {
		m.TaxAccountCode = &taxCode.String
	}
	return &m, nil
}

// FindRuleByEventKind retrieves the posting rule for an event kind.
func (r *PgxPostingRuleRepository) FindRuleByEventKind(ctx context.Context, kind domain.PostingEventKind) (*domain.PostingRule, error) {
	query := `SELECT ` + postingRuleColumns + ` FROM posting_rules WHERE event_kind = $1;`

	m, err := scanPostingRule(r.pool.QueryRow(ctx, query, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find posting rule for event "+string(kind), err)
	}

	d := mapping.ToDomainPostingRule(*m)
	return &d, nil
}

// ListRules retrieves all configured posting rules.
func (r *PgxPostingRuleRepository) ListRules(ctx context.Context) ([]domain.PostingRule, error) {
	query := `SELECT ` + postingRuleColumns + ` FROM posting_rules ORDER BY event_kind;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query posting rules", err)
	}
	defer rows.Close()

	rules := []domain.PostingRule{}
	for rows.Next() {
		m, err := scanPostingRule(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan posting rule row", err)
		}
		rules = append(rules, mapping.ToDomainPostingRule(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating posting rule rows", err)
	}
	return rules, nil
}

// SaveRule upserts a posting rule by event kind. Used by seeding.
func (r *PgxPostingRuleRepository) SaveRule(ctx context.Context, rule *domain.PostingRule) error {
	m := mapping.ToModelPostingRule(*rule)

	query := `
		INSERT INTO posting_rules (` + postingRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_kind) DO UPDATE
		SET debit_account_code = EXCLUDED.debit_account_code,
		    credit_account_code = EXCLUDED.credit_account_code,
		    tax_account_code = EXCLUDED.tax_account_code,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query,
		m.EventKind,
		m.DebitAccountCode,
		m.CreditAccountCode,
		m.TaxAccountCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save posting rule for event "+m.EventKind, err)
	}
	return nil
}
