package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyapps/divvy/internal/models"
)

// CreateList persists the list and its creator membership in one
// transaction.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO lists (id, name, creator_id, created_at) VALUES (?, ?, ?, ?)",
		list.ID, list.Name, list.CreatorID, list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO list_members (list_id, user_id, role) VALUES (?, ?, ?)",
		list.ID, list.CreatorID, string(models.RoleCreator),
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetList retrieves a list with its full membership set and items in
// insertion order.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.List, error) {
	list := &models.List{}
	err := s.db.QueryRowContext(ctx,
		`SELECT l.id, l.name, l.creator_id, u.username, l.created_at
		 FROM lists l JOIN users u ON u.id = l.creator_id
		 WHERE l.id = ?`,
		id,
	).Scan(&list.ID, &list.Name, &list.CreatorID, &list.CreatorName, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("list %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	list.Memberships, err = s.resourceMembers(ctx, "list_members", "list_id", id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.list_id, i.name, i.added_by, au.username, i.added_at,
		        i.ticked, i.ticked_by, tu.username, i.ticked_at
		 FROM items i
		 JOIN users au ON au.id = i.added_by
		 LEFT JOIN users tu ON tu.id = i.ticked_by
		 WHERE i.list_id = ? ORDER BY i.rowid`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return list, nil
}

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	item := &models.Item{}
	var ticked int
	var tickedBy, tickedByName sql.NullString
	var tickedAt sql.NullInt64

	err := row.Scan(&item.ID, &item.ListID, &item.Name, &item.AddedByID,
		&item.AddedByName, &item.AddedAt, &ticked, &tickedBy, &tickedByName, &tickedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item.Ticked = ticked != 0
	if tickedBy.Valid {
		item.TickedByID = tickedBy.String
	}
	if tickedByName.Valid {
		item.TickedByName = tickedByName.String
	}
	if tickedAt.Valid {
		item.TickedAt = tickedAt.Int64
	}
	return item, nil
}

// ListListsByMember returns lists the user created or participates in,
// without items or membership sets.
func (s *SQLiteStore) ListListsByMember(ctx context.Context, userID string) ([]*models.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.name, l.creator_id, u.username, l.created_at
		 FROM lists l
		 JOIN list_members m ON m.list_id = l.id
		 JOIN users u ON u.id = l.creator_id
		 WHERE m.user_id = ?
		 ORDER BY l.created_at, l.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		l := &models.List{}
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatorID, &l.CreatorName, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}

	return lists, nil
}

// DeleteList removes a list; items and memberships cascade.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddListMember inserts a participant membership. The composite primary key
// turns a racing duplicate insert into models.ErrAlreadyMember.
func (s *SQLiteStore) AddListMember(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO list_members (list_id, user_id, role) VALUES (?, ?, ?)",
		listID, userID, string(models.RoleParticipant),
	)
	if isUniqueViolation(err) {
		return models.ErrAlreadyMember
	}
	if err != nil {
		return fmt.Errorf("failed to add list member: %w", err)
	}
	return nil
}

// RemoveListMember deletes a membership record only; items the member added
// or ticked remain.
func (s *SQLiteStore) RemoveListMember(ctx context.Context, listID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM list_members WHERE list_id = ? AND user_id = ?",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove list member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check remove result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("membership %s/%s: %w", listID, userID, models.ErrNotFound)
	}
	return nil
}

// AddItem persists a new checklist item.
func (s *SQLiteStore) AddItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AddedAt == 0 {
		item.AddedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, list_id, name, added_by, added_at, ticked, ticked_by, ticked_at)
		 VALUES (?, ?, ?, ?, ?, 0, NULL, NULL)`,
		item.ID, item.ListID, item.Name, item.AddedByID, item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT i.id, i.list_id, i.name, i.added_by, au.username, i.added_at,
		        i.ticked, i.ticked_by, tu.username, i.ticked_at
		 FROM items i
		 JOIN users au ON au.id = i.added_by
		 LEFT JOIN users tu ON tu.id = i.ticked_by
		 WHERE i.id = ?`,
		id,
	)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemTick persists the item's tick state, attribution, and timestamp.
func (s *SQLiteStore) UpdateItemTick(ctx context.Context, item *models.Item) error {
	var tickedBy, tickedAt any
	if item.Ticked {
		tickedBy = item.TickedByID
		tickedAt = item.TickedAt
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET ticked = ?, ticked_by = ?, ticked_at = ? WHERE id = ?",
		boolToInt(item.Ticked), tickedBy, tickedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item tick state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", item.ID, models.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
