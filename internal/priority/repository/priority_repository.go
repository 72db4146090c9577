package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"binapp/internal/domain"
)

// MySQLPriorityRepository persists the derived priority collection. Rows are
// keyed unique on customerId; only the synchronizer writes here.
type MySQLPriorityRepository struct {
	db *sql.DB
}

func NewMySQLPriorityRepository(db *sql.DB) *MySQLPriorityRepository {
	return &MySQLPriorityRepository{db: db}
}

// Upsert writes the entry with merge semantics: an existing row for the
// customer has its derived fields overwritten and any other columns kept.
func (r *MySQLPriorityRepository) Upsert(ctx context.Context, entry domain.PriorityEntry) error {
	query := `
		INSERT INTO PriorityEntries (customerId, daysSinceLastOrder, frequencyDays, priorityClass, lastOrderDate)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			daysSinceLastOrder = VALUES(daysSinceLastOrder),
			frequencyDays = VALUES(frequencyDays),
			priorityClass = VALUES(priorityClass),
			lastOrderDate = VALUES(lastOrderDate)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.CustomerID, entry.DaysSinceLastOrder, entry.FrequencyDays,
		string(entry.PriorityClass), entry.LastOrderDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("upserting priority entry: %w", err)
	}

	return nil
}

func (r *MySQLPriorityRepository) FindAll(ctx context.Context) ([]domain.PriorityEntry, error) {
	query := `
		SELECT customerId, daysSinceLastOrder, frequencyDays, priorityClass, lastOrderDate, updatedAt
		FROM PriorityEntries
		ORDER BY daysSinceLastOrder - frequencyDays DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying priority entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.PriorityEntry
	for rows.Next() {
		var e domain.PriorityEntry
		var class string
		err := rows.Scan(&e.CustomerID, &e.DaysSinceLastOrder, &e.FrequencyDays,
			&class, &e.LastOrderDate, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning priority entry row: %w", err)
		}
		e.PriorityClass = domain.PriorityClass(class)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating priority entry rows: %w", err)
	}

	return entries, nil
}

// DeleteByCustomerIDs evicts stale entries. A no-op on an empty id set.
func (r *MySQLPriorityRepository) DeleteByCustomerIDs(ctx context.Context, customerIDs []string) error {
	if len(customerIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(customerIDs))
	args := make([]interface{}, len(customerIDs))
	for i, id := range customerIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`DELETE FROM PriorityEntries WHERE customerId IN (%s)`,
		strings.Join(placeholders, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting priority entries: %w", err)
	}

	return nil
}

func (r *MySQLPriorityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM PriorityEntries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting priority entries: %w", err)
	}
	return count, nil
}
