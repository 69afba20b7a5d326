package repositories

import (
	"context"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

// PostingRuleRepository defines access to the event-to-accounts mapping
// table. Rules are seeded configuration; SaveRule upserts by event kind.
type PostingRuleRepository interface {
	FindRuleByEventKind(ctx context.Context, kind domain.PostingEventKind) (*domain.PostingRule, error)
	ListRules(ctx context.Context) ([]domain.PostingRule, error)
	SaveRule(ctx context.Context, rule *domain.PostingRule) error
}
