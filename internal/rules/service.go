package rules

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// ErrAmbiguous is returned by Create when the parse confidence is too low
// to persist without caller confirmation.
var ErrAmbiguous = fmt.Errorf("rules: parse is ambiguous, confirmation required")

// Service is the C4 component: it parses free text into a structured rule
// and stores confirmed rules through RuleRepository.
type Service struct {
	rules     repository.RuleRepository
	employees repository.EmployeeRepository
}

func NewService(rules repository.RuleRepository, employees repository.EmployeeRepository) *Service {
	return &Service{rules: rules, employees: employees}
}

// ParsePreview parses text against the current active employee directory
// without persisting anything, for POST /api/rules/parse.
func (s *Service) ParsePreview(ctx context.Context, text string) (Result, error) {
	employees, _, err := s.employees.List(ctx, 0, 1000)
	if err != nil {
		return Result{}, fmt.Errorf("load employee directory: %w", err)
	}
	return Parse(text, employees), nil
}

// Create parses text and persists the resulting rule. If the parse is
// ambiguous and confirm is false, it returns ErrAmbiguous along with the
// tentative result so the caller can re-submit with confirm=true.
func (s *Service) Create(ctx context.Context, text string, priority int, confirm bool) (*entity.Rule, Result, error) {
	result, err := s.ParsePreview(ctx, text)
	if err != nil {
		return nil, Result{}, err
	}
	if result.Ambiguous && !confirm {
		return nil, result, ErrAmbiguous
	}

	rule := &entity.Rule{
		ID:         uuid.New(),
		RuleType:   result.RuleType,
		EmployeeID: result.EmployeeID,
		Priority:   priority,
		Active:     true,
		SourceText: text,
		Structured: result.Structured,
		CreatedAt:  entity.Now(),
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, result, fmt.Errorf("create rule: %w", err)
	}
	return rule, result, nil
}

// ActiveFor returns the active rules applicable to an employee: global
// rules plus rules scoped specifically to employeeID.
func (s *Service) ActiveFor(ctx context.Context, employeeID *uuid.UUID) ([]*entity.Rule, error) {
	return s.rules.GetActive(ctx, employeeID)
}
