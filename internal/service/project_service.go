// Package service implements the application operations for both variants:
// dashboards, resource lifecycle, membership management, expense logging and
// balance reads, and item ticking. Services enforce authorization and
// validation; storage enforces uniqueness and cascades.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/divvyapps/divvy/internal/calculator"
	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/storage"
)

// ProjectService implements the splitter variant's operations.
type ProjectService struct {
	store storage.Store
}

// NewProjectService creates a new ProjectService with the given storage
// backend.
func NewProjectService(store storage.Store) *ProjectService {
	return &ProjectService{store: store}
}

// ProjectDetail is the fully materialized view of one project: its subtree
// plus the computed balance figures, keyed by username for display.
// Balances are recomputed on every call and never cached.
type ProjectDetail struct {
	Project   *models.Project
	TotalCost float64
	EvenShare float64
	Spending  map[string]float64
	Balances  map[string]float64
}

// Dashboard returns the projects the user created or participates in.
func (s *ProjectService) Dashboard(ctx context.Context, userID string) ([]*models.Project, error) {
	return s.store.ListProjectsByMember(ctx, userID)
}

// Create makes a new project owned by the caller. The creator membership is
// written in the same transaction as the project.
func (s *ProjectService) Create(ctx context.Context, creatorID, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if err := validateResourceName(name); err != nil {
		return nil, err
	}

	project := models.NewProject(name, creatorID)
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("Project created", "project_id", project.ID, "creator_id", creatorID)
	return project, nil
}

// Detail loads a project and computes its balances. Returns
// models.ErrForbidden if the caller is not a member.
func (s *ProjectService) Detail(ctx context.Context, callerID, projectID string) (*ProjectDetail, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanView(callerID) {
		return nil, models.ErrForbidden
	}

	expenses := make([]calculator.Expense, len(project.Expenses))
	for i, e := range project.Expenses {
		expenses[i] = calculator.Expense{PayerID: e.PayerID, Amount: e.Amount}
	}

	memberIDs := project.MemberIDs()
	balancesByID := calculator.Balances(expenses, memberIDs)

	// Key the display maps by username. Spending keeps entries for removed
	// members via the denormalized payer name on each expense.
	spending := make(map[string]float64)
	for _, e := range project.Expenses {
		spending[e.PayerName] += e.Amount
	}
	balances := make(map[string]float64, len(balancesByID))
	for id, b := range balancesByID {
		balances[project.UsernameByID(id)] = b
	}

	return &ProjectDetail{
		Project:   project,
		TotalCost: calculator.TotalCost(expenses),
		EvenShare: calculator.EvenShare(expenses, len(memberIDs)),
		Spending:  spending,
		Balances:  balances,
	}, nil
}

// AddExpense logs an expense against the project, attributed to payerID.
// The caller must be a member; the payer must be a member too, so expenses
// cannot be pinned on strangers.
func (s *ProjectService) AddExpense(ctx context.Context, callerID, projectID, description string, amount float64, payerID string) (*models.Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &models.ValidationError{Field: "description", Message: "is required"}
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, &models.ValidationError{Field: "amount", Message: "must be a non-negative number"}
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanView(callerID) {
		return nil, models.ErrForbidden
	}
	if !project.CanView(payerID) {
		return nil, &models.ValidationError{Field: "payer", Message: "must be a project member"}
	}

	expense := &models.Expense{
		ProjectID:   projectID,
		Description: description,
		Amount:      amount,
		PayerID:     payerID,
	}
	if err := s.store.AddExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense added",
		"project_id", projectID,
		"expense_id", expense.ID,
		"amount", amount,
		"payer_id", payerID,
	)
	return expense, nil
}

// Share grants the named user participant access. Only the creator may
// share. Returns models.ErrNotFound for an unknown username and
// models.ErrAlreadyMember for a duplicate.
func (s *ProjectService) Share(ctx context.Context, callerID, projectID, username string) (*models.User, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanManage(callerID) {
		return nil, models.ErrForbidden
	}

	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}

	if err := s.store.AddProjectMember(ctx, projectID, user.ID); err != nil {
		return nil, err
	}

	slog.Info("Project shared", "project_id", projectID, "with_user_id", user.ID)
	return user, nil
}

// RemoveParticipant revokes a member's access. Only the creator may remove,
// and the creator can never be removed, not even by themselves. Historical
// expenses by the removed member remain.
func (s *ProjectService) RemoveParticipant(ctx context.Context, callerID, projectID, targetUserID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanManage(callerID) {
		return models.ErrForbidden
	}
	if targetUserID == project.CreatorID {
		return models.ErrCannotRemoveCreator
	}

	if err := s.store.RemoveProjectMember(ctx, projectID, targetUserID); err != nil {
		return err
	}

	slog.Info("Participant removed", "project_id", projectID, "user_id", targetUserID)
	return nil
}

// Delete removes the project and cascades to its expenses and memberships.
// Only the creator may delete.
func (s *ProjectService) Delete(ctx context.Context, callerID, projectID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanManage(callerID) {
		return models.ErrForbidden
	}

	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	slog.Info("Project deleted", "project_id", projectID)
	return nil
}

// DeleteExpense removes one expense. Allowed for the project creator or the
// expense's payer only. Returns the owning project ID so web handlers can
// redirect back to the detail page.
func (s *ProjectService) DeleteExpense(ctx context.Context, callerID, expenseID string) (string, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return "", err
	}

	project, err := s.store.GetProject(ctx, expense.ProjectID)
	if err != nil {
		return "", err
	}
	if !project.CanDeleteExpense(callerID, *expense) {
		return expense.ProjectID, models.ErrForbidden
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return expense.ProjectID, err
	}

	slog.Info("Expense deleted", "project_id", expense.ProjectID, "expense_id", expenseID)
	return expense.ProjectID, nil
}

func validateResourceName(name string) error {
	if name == "" {
		return &models.ValidationError{Field: "name", Message: "is required"}
	}
	if len(name) > 100 {
		return &models.ValidationError{Field: "name", Message: "must be at most 100 characters"}
	}
	return nil
}
