package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the local test database, skipping the test when it is
// not reachable. Expects a MySQL instance at localhost:3306 with a database
// named 'binapp_test'.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/binapp_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"PriorityEntries", "OrderItems", "Orders", "Customers"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

func SetupTestTables(t *testing.T, db *sql.DB) {
	createCustomersTable := `
	CREATE TABLE IF NOT EXISTS Customers (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		firstName VARCHAR(100) NOT NULL,
		lastName VARCHAR(100) NOT NULL DEFAULT '',
		phone VARCHAR(30) NOT NULL,
		email VARCHAR(150),
		address VARCHAR(255),
		frequency VARCHAR(50) NOT NULL DEFAULT '',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		customerId VARCHAR(36) NOT NULL,
		orderDate DATE NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Pending',
		totalPrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_customer_date (customerId, orderDate)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId VARCHAR(36) NOT NULL,
		category VARCHAR(100) NOT NULL,
		subCategory VARCHAR(100) NOT NULL DEFAULT '',
		weightKg DECIMAL(10,3) NOT NULL,
		pricePerKg DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	createPriorityEntriesTable := `
	CREATE TABLE IF NOT EXISTS PriorityEntries (
		customerId VARCHAR(36) NOT NULL PRIMARY KEY,
		daysSinceLastOrder INT NOT NULL,
		frequencyDays INT NOT NULL,
		priorityClass VARCHAR(10) NOT NULL,
		lastOrderDate DATE NOT NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Customers", createCustomersTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"PriorityEntries", createPriorityEntriesTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
