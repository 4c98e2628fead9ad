package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyapps/divvy/internal/models"
)

// CreateProject persists the project and its creator membership in one
// transaction.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt == 0 {
		project.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO projects (id, name, creator_id, created_at) VALUES (?, ?, ?, ?)",
		project.ID, project.Name, project.CreatorID, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)",
		project.ID, project.CreatorID, string(models.RoleCreator),
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetProject retrieves a project with its full membership set and expenses
// in insertion order.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project := &models.Project{}
	err := s.db.QueryRowContext(ctx,
		`SELECT p.id, p.name, p.creator_id, u.username, p.created_at
		 FROM projects p JOIN users u ON u.id = p.creator_id
		 WHERE p.id = ?`,
		id,
	).Scan(&project.ID, &project.Name, &project.CreatorID, &project.CreatorName, &project.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project.Memberships, err = s.resourceMembers(ctx, "project_members", "project_id", id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.project_id, e.description, e.amount, e.payer_id, u.username, e.created_at
		 FROM expenses e JOIN users u ON u.id = e.payer_id
		 WHERE e.project_id = ? ORDER BY e.rowid`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Description, &e.Amount,
			&e.PayerID, &e.PayerName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		project.Expenses = append(project.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return project, nil
}

// resourceMembers loads the membership set for a project or list.
func (s *SQLiteStore) resourceMembers(ctx context.Context, table, fk, id string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.`+fk+`, m.user_id, u.username, m.role
		 FROM `+table+` m JOIN users u ON u.id = m.user_id
		 WHERE m.`+fk+` = ? ORDER BY m.role, u.username`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		var role string
		if err := rows.Scan(&m.ResourceID, &m.UserID, &m.Username, &role); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListProjectsByMember returns projects the user created or participates in,
// without expenses or membership sets.
func (s *SQLiteStore) ListProjectsByMember(ctx context.Context, userID string) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.creator_id, u.username, p.created_at
		 FROM projects p
		 JOIN project_members m ON m.project_id = p.id
		 JOIN users u ON u.id = p.creator_id
		 WHERE m.user_id = ?
		 ORDER BY p.created_at, p.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p := &models.Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatorID, &p.CreatorName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// DeleteProject removes a project; expenses and memberships cascade.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddProjectMember inserts a participant membership. The composite primary
// key turns a racing duplicate insert into models.ErrAlreadyMember.
func (s *SQLiteStore) AddProjectMember(ctx context.Context, projectID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)",
		projectID, userID, string(models.RoleParticipant),
	)
	if isUniqueViolation(err) {
		return models.ErrAlreadyMember
	}
	if err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

// RemoveProjectMember deletes a membership record only; the member's
// historical expenses remain.
func (s *SQLiteStore) RemoveProjectMember(ctx context.Context, projectID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM project_members WHERE project_id = ? AND user_id = ?",
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check remove result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("membership %s/%s: %w", projectID, userID, models.ErrNotFound)
	}
	return nil
}

// AddExpense persists a new expense.
func (s *SQLiteStore) AddExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, project_id, description, amount, payer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.ProjectID, expense.Description, expense.Amount,
		expense.PayerID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	e := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT e.id, e.project_id, e.description, e.amount, e.payer_id, u.username, e.created_at
		 FROM expenses e JOIN users u ON u.id = e.payer_id
		 WHERE e.id = ?`,
		id,
	).Scan(&e.ID, &e.ProjectID, &e.Description, &e.Amount, &e.PayerID, &e.PayerName, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", id, models.ErrNotFound)
	}
	return nil
}
