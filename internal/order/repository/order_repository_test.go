package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binapp/internal/domain"
	"binapp/internal/errors"
	"binapp/internal/testutil"
)

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseOrderDate(s)
	require.NoError(t, err)
	return d
}

func TestOrderRepository_InsertComputesTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	id, err := repo.Insert(context.Background(), domain.Order{
		CustomerID: "c1",
		OrderDate:  mustDate(t, "2024-01-15"),
		Status:     domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{Category: "Copper", SubCategory: "Bright", WeightKg: 12.5, PricePerKg: 8.0},
			{Category: "Aluminium", WeightKg: 40, PricePerKg: 1.5},
		},
	})
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "c1", order.CustomerID)
	assert.Equal(t, "2024-01-15", order.OrderDate.Format("2006-01-02"))
	assert.Equal(t, 160.0, order.TotalPrice)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Copper", order.Items[0].Category)
	assert.Equal(t, "Bright", order.Items[0].SubCategory)
}

func TestOrderRepository_FindRecentByCustomerID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	dates := []string{"2024-01-01", "2024-01-10", "2024-01-25", "2024-02-05", "2024-02-20", "2024-03-01"}
	for _, d := range dates {
		_, err := repo.Insert(context.Background(), domain.Order{
			CustomerID: "c1",
			OrderDate:  mustDate(t, d),
			Status:     domain.OrderStatusCompleted,
			Items:      []domain.OrderItem{{Category: "Steel", WeightKg: 10, PricePerKg: 0.5}},
		})
		require.NoError(t, err)
	}

	recent, err := repo.FindRecentByCustomerID(context.Background(), "c1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	// Most recent first; the oldest order falls outside the window.
	assert.Equal(t, "2024-03-01", recent[0].OrderDate.Format("2006-01-02"))
	assert.Equal(t, "2024-01-10", recent[4].OrderDate.Format("2006-01-02"))
}

func TestOrderRepository_FindLatestOrderDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	latest, err := repo.FindLatestOrderDate(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, latest)

	for _, d := range []string{"2024-01-01", "2024-02-05", "2024-01-20"} {
		_, err := repo.Insert(context.Background(), domain.Order{
			CustomerID: "c1",
			OrderDate:  mustDate(t, d),
			Status:     domain.OrderStatusCompleted,
			Items:      []domain.OrderItem{{Category: "Steel", WeightKg: 1, PricePerKg: 1}},
		})
		require.NoError(t, err)
	}

	latest, err = repo.FindLatestOrderDate(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2024-02-05", latest.Format("2006-01-02"))
}

func TestOrderRepository_UpdatePayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	id, err := repo.Insert(context.Background(), domain.Order{
		CustomerID: "c1",
		OrderDate:  mustDate(t, "2024-01-15"),
		Status:     domain.OrderStatusPending,
		Items:      []domain.OrderItem{{Category: "Steel", WeightKg: 10, PricePerKg: 0.5}},
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePayment(context.Background(), id, 7.5, domain.OrderStatusCompleted))

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7.5, order.TotalPrice)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
}

func TestOrderRepository_DeleteCascadesItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	id, err := repo.Insert(context.Background(), domain.Order{
		CustomerID: "c1",
		OrderDate:  mustDate(t, "2024-01-15"),
		Status:     domain.OrderStatusPending,
		Items:      []domain.OrderItem{{Category: "Steel", WeightKg: 10, PricePerKg: 0.5}},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), id))

	_, err = repo.FindByID(context.Background(), id)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)

	var itemCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM OrderItems WHERE orderId = ?", id).Scan(&itemCount))
	assert.Zero(t, itemCount)
}
