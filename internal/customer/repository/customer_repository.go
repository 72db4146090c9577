package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"binapp/internal/domain"
	"binapp/internal/errors"
)

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

func (r *MySQLCustomerRepository) Insert(ctx context.Context, customer domain.Customer) (string, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO Customers (id, firstName, lastName, phone, email, address, frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		id, customer.FirstName, customer.LastName, customer.Phone,
		customer.Email, customer.Address, customer.Frequency,
	)
	if err != nil {
		return "", fmt.Errorf("inserting customer: %w", err)
	}

	return id, nil
}

func (r *MySQLCustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, firstName, lastName, phone, email, address, frequency, createdAt, updatedAt
		FROM Customers
		WHERE id = ?
	`

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID, &customer.FirstName, &customer.LastName, &customer.Phone,
		&customer.Email, &customer.Address, &customer.Frequency,
		&customer.CreatedAt, &customer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by id: %w", err)
	}

	return &customer, nil
}

func (r *MySQLCustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT id, firstName, lastName, phone, email, address, frequency, createdAt, updatedAt
		FROM Customers
		ORDER BY lastName, firstName
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Phone,
			&c.Email, &c.Address, &c.Frequency,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}

func (r *MySQLCustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	query := `
		UPDATE Customers
		SET firstName = ?, lastName = ?, phone = ?, email = ?, address = ?, frequency = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone,
		customer.Email, customer.Address, customer.Frequency,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Updating a row to identical values also reports zero rows in MySQL,
		// so confirm absence before reporting not-found.
		if _, findErr := r.FindByID(ctx, customer.ID); findErr != nil {
			return findErr
		}
	}

	return nil
}

// UpdateFrequency overwrites only the frequency field. Used by the frequency
// estimator; last write wins against concurrent manual edits.
func (r *MySQLCustomerRepository) UpdateFrequency(ctx context.Context, id string, frequency string) error {
	query := `UPDATE Customers SET frequency = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, frequency, id)
	if err != nil {
		return fmt.Errorf("updating customer frequency: %w", err)
	}

	return nil
}

// Delete removes the customer only. Orders referencing the customer are kept;
// the synchronizer skips orphaned order history.
func (r *MySQLCustomerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM Customers WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer with id %s not found", id))
	}

	return nil
}
