package persistence

import (
	"testing"
	"time"

	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/erp/billing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupBillingTestDB opens an in-memory SQLite database with every billing table.
// One connection keeps all queries on the same in-memory database.
func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true, TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.InventoryItemModel{},
		&models.CustomerModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderItemModel{},
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
		&models.DocumentSequenceModel{},
	)
	require.NoError(t, err)
	return db
}

func testLine(t *testing.T, qty, price int64, rate string) trade.LineItem {
	t.Helper()
	line, err := trade.NewLineItem(uuid.New(), qty, valueobject.MustMoney(price), valueobject.MustTaxRate(rate), "9983")
	require.NoError(t, err)
	return line
}

func testSalesOrder(t *testing.T, number int64, customerID uuid.UUID) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewSalesOrder(number, customerID, []trade.LineItem{
		testLine(t, 2, 10000, "18"),
		testLine(t, 1, 999, "12.5"),
	}, trade.DocumentMeta{PlaceOfSupply: "Karnataka", Notes: "rush"})
	require.NoError(t, err)
	return order
}

func testInvoice(t *testing.T, number int64, customerID uuid.UUID, issue, due time.Time) *trade.Invoice {
	t.Helper()
	inv, err := trade.NewInvoice(number, customerID, []trade.LineItem{testLine(t, 3, 2500, "5")},
		trade.InvoiceDates{IssueDate: issue, DueDate: due}, trade.DocumentMeta{Notes: "net 30"})
	require.NoError(t, err)
	return inv
}
