package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Order is a patient order or record, either entered manually or created
// from an extraction result.
type Order struct {
	ID          int64      `json:"id"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	DateOfBirth *string    `json:"date_of_birth"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// DeletedOrder is a snapshot taken just before an order row is removed,
// kept so the UI can show recently deleted orders.
type DeletedOrder struct {
	ID              int64     `json:"id"`
	OriginalOrderID int64     `json:"original_order_id"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	DateOfBirth     *string   `json:"date_of_birth"`
	Description     *string   `json:"description"`
	DeletedAt       time.Time `json:"deleted_at"`
}

// OrderParams carries the writable order fields; every field is optional.
type OrderParams struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Description *string `json:"description"`
}

func (s *Store) CreateOrder(ctx context.Context, p OrderParams) (*Order, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (first_name, last_name, date_of_birth, description, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.FirstName, p.LastName, p.DateOfBirth, p.Description, now)
	if err != nil {
		s.logger.Error("create order failed", "error", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		// pgx does not support LastInsertId; fall back to a lookup.
		return s.latestOrder(ctx)
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) latestOrder(ctx context.Context) (*Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, date_of_birth, description, created_at, updated_at
		 FROM orders ORDER BY id DESC LIMIT 1`)
	return scanOrder(row)
}

func (s *Store) ListOrders(ctx context.Context, skip, limit int) ([]*Order, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, date_of_birth, description, created_at, updated_at
		 FROM orders ORDER BY id LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		s.logger.Error("list orders failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, date_of_birth, description, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (s *Store) UpdateOrder(ctx context.Context, id int64, p OrderParams) (*Order, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET first_name = $1, last_name = $2, date_of_birth = $3, description = $4, updated_at = $5
		 WHERE id = $6`,
		p.FirstName, p.LastName, p.DateOfBirth, p.Description, now, id)
	if err != nil {
		s.logger.Error("update order failed", "id", id, "error", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes an order, first snapshotting its fields into
// deleted_orders inside the same transaction.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, date_of_birth, description, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO deleted_orders (original_order_id, first_name, last_name, date_of_birth, description, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.FirstName, o.LastName, o.DateOfBirth, o.Description, time.Now().UTC()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("order deleted", "id", id)
	return nil
}

func (s *Store) ListDeletedOrders(ctx context.Context, limit int) ([]*DeletedOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original_order_id, first_name, last_name, date_of_birth, description, deleted_at
		 FROM deleted_orders ORDER BY deleted_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		s.logger.Error("list deleted orders failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*DeletedOrder, 0)
	for rows.Next() {
		var d DeletedOrder
		if err := rows.Scan(&d.ID, &d.OriginalOrderID, &d.FirstName, &d.LastName,
			&d.DateOfBirth, &d.Description, &d.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(r rowScanner) (*Order, error) {
	var o Order
	if err := r.Scan(&o.ID, &o.FirstName, &o.LastName, &o.DateOfBirth,
		&o.Description, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
