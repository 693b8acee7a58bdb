package billing

import (
	"context"
	"testing"
	"time"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/infrastructure/persistence"
	"github.com/adboard/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newLedgerService runs the collection service on sqlite-backed repositories
func newLedgerService(t *testing.T, now time.Time, contracts ...contract.Contract) *CollectionService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	for _, c := range contracts {
		require.NoError(t, db.Create(models.ContractModelFromDomain(c)).Error)
	}

	payments := persistence.NewGormPaymentRepository(db)
	return NewCollectionService(
		persistence.NewGormContractRepository(db),
		payments,
		payments,
		collection.NewReconciler(collection.WithLocation(tripoli)),
		contract.NewClassifier(tripoli, 30),
		WithCollectionClock(fixedClock(now)),
	)
}

func TestCollectionService_RecordedPaymentsReachFleetView(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, tripoli)
	ended := contract.Contract{
		ContractNumber: "C-1",
		CustomerID:     "CU-1",
		BillboardIDs:   []string{"B-1"},
		Total:          dec("1000"),
		EndDate:        date(2024, time.January, 31),
	}

	t.Run("partial payment lowers the outstanding balance", func(t *testing.T) {
		svc := newLedgerService(t, now, ended)
		ctx := context.Background()

		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{ContractNumber: "C-1", Amount: dec("400")})
		require.NoError(t, err)

		rows, err := svc.FleetTopOverdue(ctx, 5)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, dec("600").Equal(rows[0].Outstanding), "outstanding = %s", rows[0].Outstanding)
	})

	t.Run("full payment clears the contract", func(t *testing.T) {
		svc := newLedgerService(t, now, ended)
		ctx := context.Background()

		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{ContractNumber: "C-1", Amount: dec("1000")})
		require.NoError(t, err)

		rows, err := svc.FleetTopOverdue(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, rows)

		statement, err := svc.ContractStatement(ctx, "C-1")
		require.NoError(t, err)
		assert.True(t, dec("1000").Equal(statement.TotalPaid))
	})
}
