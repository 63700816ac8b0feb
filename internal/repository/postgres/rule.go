package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// RuleRepository implements repository.RuleRepository for PostgreSQL. The
// structured payload varies by rule_type, so it is stored as a single
// jsonb column rather than one table per rule type.
type RuleRepository struct {
	db querier
}

func NewRuleRepository(db querier) *RuleRepository { return &RuleRepository{db: db} }

func (r *RuleRepository) Create(ctx context.Context, rule *entity.Rule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	structured, err := json.Marshal(rule.Structured)
	if err != nil {
		return fmt.Errorf("marshal rule structured payload: %w", err)
	}
	query := `
		INSERT INTO rules (id, rule_type, employee_id, priority, active, source_text, structured, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err = r.db.ExecContext(ctx, query,
		rule.ID, string(rule.RuleType), rule.EmployeeID, rule.Priority, rule.Active,
		rule.SourceText, structured, rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

func scanRule(row interface{ Scan(...any) error }) (*entity.Rule, error) {
	var rule entity.Rule
	var ruleType string
	var structured []byte
	err := row.Scan(&rule.ID, &ruleType, &rule.EmployeeID, &rule.Priority, &rule.Active, &rule.SourceText, &structured, &rule.CreatedAt)
	if err != nil {
		return nil, err
	}
	rule.RuleType = entity.RuleType(ruleType)
	if len(structured) > 0 {
		if err := json.Unmarshal(structured, &rule.Structured); err != nil {
			return nil, fmt.Errorf("unmarshal rule structured payload: %w", err)
		}
	}
	return &rule, nil
}

const ruleColumns = `id, rule_type, employee_id, priority, active, source_text, structured, created_at`

func (r *RuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE id = $1`
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Rule", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return rule, nil
}

// GetActive returns active rules scoped to an employee plus all global
// rules (employee_id IS NULL), or every active rule when employeeID is nil.
func (r *RuleRepository) GetActive(ctx context.Context, employeeID *uuid.UUID) ([]*entity.Rule, error) {
	var rows *sql.Rows
	var err error
	if employeeID != nil {
		query := `SELECT ` + ruleColumns + ` FROM rules WHERE active = true AND (employee_id = $1 OR employee_id IS NULL) ORDER BY priority DESC`
		rows, err = r.db.QueryContext(ctx, query, *employeeID)
	} else {
		query := `SELECT ` + ruleColumns + ` FROM rules WHERE active = true ORDER BY priority DESC`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var out []*entity.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *RuleRepository) Update(ctx context.Context, rule *entity.Rule) error {
	structured, err := json.Marshal(rule.Structured)
	if err != nil {
		return fmt.Errorf("marshal rule structured payload: %w", err)
	}
	query := `
		UPDATE rules SET rule_type=$2, employee_id=$3, priority=$4, active=$5, source_text=$6, structured=$7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, rule.ID, string(rule.RuleType), rule.EmployeeID, rule.Priority, rule.Active, rule.SourceText, structured)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Rule", ResourceID: rule.ID.String()}
	}
	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Rule", ResourceID: id.String()}
	}
	return nil
}

func (r *RuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rules`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rules: %w", err)
	}
	return count, nil
}
