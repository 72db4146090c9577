package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"binapp/internal/domain"
	"binapp/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Insert writes the order and its items in one transaction. The total is
// computed here, at write time, and never recomputed on read.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order domain.Order) (string, error) {
	id := uuid.New().String()
	total := order.ComputeTotal()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO Orders (id, customerId, orderDate, status, totalPrice)
		VALUES (?, ?, ?, ?, ?)
	`, id, order.CustomerID, order.OrderDate.Format("2006-01-02"), order.Status, total)
	if err != nil {
		return "", fmt.Errorf("inserting order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO OrderItems (orderId, category, subCategory, weightKg, pricePerKg)
			VALUES (?, ?, ?, ?, ?)
		`, id, item.Category, item.SubCategory, item.WeightKg, item.PricePerKg)
		if err != nil {
			return "", fmt.Errorf("inserting order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing order insert: %w", err)
	}

	return id, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, customerId, orderDate, status, totalPrice, createdAt, updatedAt
		FROM Orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.OrderDate, &order.Status,
		&order.TotalPrice, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *MySQLOrderRepository) findItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, orderId, category, subCategory, weightKg, pricePerKg
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.Category, &item.SubCategory,
			&item.WeightKg, &item.PricePerKg)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customerId, orderDate, status, totalPrice, createdAt, updatedAt
		FROM Orders
		ORDER BY orderDate DESC
	`)
}

func (r *MySQLOrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customerId, orderDate, status, totalPrice, createdAt, updatedAt
		FROM Orders
		WHERE customerId = ?
		ORDER BY orderDate DESC
	`, customerID)
}

// FindRecentByCustomerID returns the customer's most recent orders by date
// descending, capped at limit. Items are not loaded.
func (r *MySQLOrderRepository) FindRecentByCustomerID(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customerId, orderDate, status, totalPrice, createdAt, updatedAt
		FROM Orders
		WHERE customerId = ?
		ORDER BY orderDate DESC
		LIMIT ?
	`, customerID, limit)
}

// FindLatestOrderDate returns the customer's most recent order date, or nil
// when the customer has no orders.
func (r *MySQLOrderRepository) FindLatestOrderDate(ctx context.Context, customerID string) (*time.Time, error) {
	var latest sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(orderDate) FROM Orders WHERE customerId = ?
	`, customerID).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("querying latest order date: %w", err)
	}

	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status,
			&o.TotalPrice, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// UpdatePayment mutates payment and status only; the edit flow never touches
// items or dates.
func (r *MySQLOrderRepository) UpdatePayment(ctx context.Context, id string, totalPrice float64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE Orders SET totalPrice = ?, status = ? WHERE id = ?`,
		totalPrice, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating order payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
	}

	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}
