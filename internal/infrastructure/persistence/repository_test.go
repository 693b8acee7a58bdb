package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/persistence/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedBillboards(t *testing.T, db *gorm.DB) {
	t.Helper()
	billboards := []contract.Billboard{
		{ID: "B-001", Name: "Airport Road North", Size: "12x4", Level: "A", MonthlyPrice: dec("3000"), Municipality: "Tripoli", ContractNumber: "C-100", EndDate: day(2025, 3, 31)},
		{ID: "B-002", Name: "Corniche East", Size: "10x4", Level: "A", MonthlyPrice: dec("2500.50"), Municipality: "Tripoli"},
		{ID: "B-003", Name: "Port Gate", Size: "12x4", Level: "S", MonthlyPrice: dec("4000"), Municipality: "Misrata", MaintenanceStatus: "maintenance"},
	}
	for _, b := range billboards {
		require.NoError(t, db.Create(models.BillboardModelFromDomain(b)).Error)
	}
}

func TestGormBillboardRepository_Find(t *testing.T) {
	db := setupTestDB(t)
	seedBillboards(t, db)
	repo := NewGormBillboardRepository(db)
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		b, err := repo.FindByID(ctx, "B-001")
		require.NoError(t, err)
		assert.Equal(t, "Airport Road North", b.Name)
		assert.True(t, dec("3000").Equal(b.MonthlyPrice))
		assert.Equal(t, "C-100", b.ContractNumber)
		require.NotNil(t, b.EndDate)
		assert.True(t, day(2025, 3, 31).Equal(*b.EndDate))
		assert.Nil(t, b.StartDate)
	})

	t.Run("missing id maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "B-404")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("by ids ignores unknown", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []string{"B-003", "B-404", "B-002"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "B-002", got[0].ID)
		assert.True(t, dec("2500.50").Equal(got[0].MonthlyPrice))
		assert.Equal(t, "B-003", got[1].ID)
	})

	t.Run("by empty ids", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("all", func(t *testing.T) {
		got, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestGormBillboardRepository_List(t *testing.T) {
	db := setupTestDB(t)
	seedBillboards(t, db)
	repo := NewGormBillboardRepository(db)
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    shared.Filter
		wantIDs   []string
		wantTotal int64
	}{
		{
			name:      "default page sorted by id",
			filter:    shared.Filter{OrderBy: "id", OrderDir: "asc"},
			wantIDs:   []string{"B-001", "B-002", "B-003"},
			wantTotal: 3,
		},
		{
			name:      "search by municipality",
			filter:    shared.Filter{Search: "tripoli", OrderBy: "id", OrderDir: "asc"},
			wantIDs:   []string{"B-001", "B-002"},
			wantTotal: 2,
		},
		{
			name:      "filter by size sorted by price desc",
			filter:    shared.Filter{Filters: map[string]interface{}{"size": "12x4"}, OrderBy: "monthly_price", OrderDir: "desc"},
			wantIDs:   []string{"B-003", "B-001"},
			wantTotal: 2,
		},
		{
			name:      "second page",
			filter:    shared.Filter{Page: 2, PageSize: 2, OrderBy: "id", OrderDir: "asc"},
			wantIDs:   []string{"B-003"},
			wantTotal: 3,
		},
		{
			name:      "unknown sort field falls back to id",
			filter:    shared.Filter{OrderBy: "secret", OrderDir: "asc"},
			wantIDs:   []string{"B-001", "B-002", "B-003"},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			ids := make([]string, len(got))
			for i, b := range got {
				ids[i] = b.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGormContractRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	schedule := []byte(`[{"amount":500,"dueDate":"2025-01-01"},{"amount":"1000","dueDate":"2025-02-01"}]`)
	contracts := []contract.Contract{
		{
			ContractNumber:       "C-200",
			CustomerID:           "cust-1",
			CustomerName:         "Sahara Media",
			BillboardIDs:         []string{"B-001", "B-002"},
			PricingMode:          pricing.ModeMonths,
			DurationMonths:       3,
			PricingCategory:      pricing.CategoryRegular,
			RentCost:             dec("16500"),
			DiscountType:         contract.DiscountTypePercent,
			DiscountValue:        dec("10"),
			InstallationCost:     dec("750"),
			InstallationEnabled:  true,
			OperatingFeeRate:     dec("3"),
			InstallmentsSchedule: schedule,
			Total:                dec("15600"),
			TotalPaid:            dec("2000"),
			StartDate:            day(2025, 1, 1),
			EndDate:              day(2025, 3, 31),
		},
		{ContractNumber: "C-100", CustomerID: "cust-1", CustomerName: "Sahara Media"},
		{ContractNumber: "C-300", CustomerID: "cust-2", CustomerName: "Oasis Telecom", PricingMode: pricing.ModeDays, DurationDays: 10},
	}
	for _, c := range contracts {
		require.NoError(t, db.Create(models.ContractModelFromDomain(c)).Error)
	}

	t.Run("round trip by number", func(t *testing.T) {
		got, err := repo.FindByNumber(ctx, "C-200")
		require.NoError(t, err)

		assert.Equal(t, []string{"B-001", "B-002"}, got.BillboardIDs)
		assert.Equal(t, pricing.ModeMonths, got.PricingMode)
		assert.Equal(t, contract.DiscountTypePercent, got.DiscountType)
		assert.True(t, dec("15600").Equal(got.Total))
		assert.True(t, dec("13600").Equal(got.Outstanding()))
		assert.True(t, got.InstallationEnabled)
		assert.JSONEq(t, string(schedule), string(got.InstallmentsSchedule))

		parsed, err := collection.ParseSchedule(got.InstallmentsSchedule, time.UTC)
		require.NoError(t, err)
		assert.Len(t, parsed, 2)
	})

	t.Run("defaults for sparse rows", func(t *testing.T) {
		got, err := repo.FindByNumber(ctx, "C-100")
		require.NoError(t, err)
		assert.Equal(t, pricing.ModeMonths, got.Mode())
		assert.Equal(t, contract.DiscountTypeFixed, got.DiscountType)
		assert.NotNil(t, got.BillboardIDs)
		assert.Nil(t, got.EndDate)
	})

	t.Run("missing number maps to not found", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, "C-404")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("by customer", func(t *testing.T) {
		got, err := repo.FindByCustomer(ctx, "cust-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "C-100", got[0].ContractNumber)
		assert.Equal(t, "C-200", got[1].ContractNumber)
	})

	t.Run("all", func(t *testing.T) {
		got, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, pricing.ModeDays, got[2].PricingMode)
	})
}

func TestGormContractRepository_PostgresDialect(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormContractRepository(db.DB)

	t.Run("decodes jsonb and numeric columns", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"contract_number", "customer_id", "customer_name", "billboard_ids", "pricing_mode", "total", "total_paid", "installments_schedule"}).
			AddRow("C-500", "cust-9", "Desert Ads", `["B-010"]`, "days", "1200.00", "200.00", []byte(`[{"amount":600,"dueDate":"2025-05-01"}]`))

		mock.ExpectQuery(`SELECT \* FROM "contracts" WHERE contract_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("C-500", 1).
			WillReturnRows(rows)

		got, err := repo.FindByNumber(context.Background(), "C-500")
		require.NoError(t, err)
		assert.Equal(t, []string{"B-010"}, got.BillboardIDs)
		assert.Equal(t, pricing.ModeDays, got.PricingMode)
		assert.True(t, dec("1000").Equal(got.Outstanding()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "contracts" WHERE contract_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("C-404", 1).
			WillReturnRows(sqlmock.NewRows([]string{"contract_number"}))

		_, err := repo.FindByNumber(context.Background(), "C-404")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	contracts := NewGormContractRepository(db)
	ctx := context.Background()

	for _, c := range []contract.Contract{
		{ContractNumber: "C-200", CustomerID: "cust-1", Total: dec("5000"), TotalPaid: dec("500")},
		{ContractNumber: "C-300", CustomerID: "cust-2", Total: dec("900")},
		{ContractNumber: "C-400", CustomerID: "cust-3", Total: dec("100")},
	} {
		require.NoError(t, db.Create(models.ContractModelFromDomain(c)).Error)
	}

	payments := []collection.Payment{
		{ContractNumber: "C-200", Amount: dec("1000"), PaidAt: time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)},
		{ContractNumber: "C-200", Amount: dec("1000"), PaidAt: time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)},
		{ContractNumber: "C-300", Amount: dec("250.75"), PaidAt: time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)},
		{ID: "not-a-uuid", ContractNumber: "C-400", Amount: dec("10"), PaidAt: time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)},
	}
	for _, p := range payments {
		require.NoError(t, repo.Create(ctx, p))
	}

	t.Run("raises the contract paid total", func(t *testing.T) {
		tests := []struct {
			number string
			want   string
		}{
			{"C-200", "2500"},
			{"C-300", "250.75"},
			{"C-400", "10"},
		}
		for _, tt := range tests {
			c, err := contracts.FindByNumber(ctx, tt.number)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(c.TotalPaid), "%s total_paid = %s", tt.number, c.TotalPaid)
		}
	})

	t.Run("unknown contract writes nothing", func(t *testing.T) {
		err := repo.Create(ctx, collection.Payment{ContractNumber: "C-404", Amount: dec("5"), PaidAt: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var count int64
		require.NoError(t, db.Model(&models.PaymentModel{}).Where("contract_number = ?", "C-404").Count(&count).Error)
		assert.Zero(t, count)
	})

	got, err := repo.FindByContractNumbers(ctx, []string{"C-200", "C-300"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "C-200", got[0].ContractNumber, "oldest first")
	assert.True(t, time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC).Equal(got[0].PaidAt))
	assert.NotEmpty(t, got[0].ID)

	grouped := collection.GroupPaymentsByContract(got)
	assert.True(t, dec("2000").Equal(collection.SumPayments(grouped["C-200"])))
	assert.True(t, dec("250.75").Equal(collection.SumPayments(grouped["C-300"])))

	empty, err := repo.FindByContractNumbers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormPricingRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPricingRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertMonthly(ctx, pricing.Entry{Size: " 12x4 ", Level: "A", Category: "regular", Duration: 3, Price: dec("9000")}))
	require.NoError(t, repo.UpsertMonthly(ctx, pricing.Entry{Size: "12x4", Level: "A", Category: "regular", Duration: 3, Price: dec("8800")}))
	require.NoError(t, repo.UpsertMonthly(ctx, pricing.Entry{Size: "10x4", Level: "B", Category: "marketer", Duration: 6, Price: dec("12000")}))
	require.NoError(t, repo.UpsertDaily(ctx, pricing.Entry{Size: "12x4", Level: "A", Category: "regular", Price: dec("125")}))

	monthly, err := repo.ListMonthly(ctx)
	require.NoError(t, err)
	require.Len(t, monthly, 2, "upsert replaces the price of an existing key")

	table := pricing.NewTable(monthly)
	price, ok := table.Lookup(pricing.NewKey("12x4", "A", "regular", 3))
	require.True(t, ok)
	assert.True(t, dec("8800").Equal(price))

	daily, err := repo.ListDaily(ctx)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, pricing.DailyKeyDuration, daily[0].Duration)
	assert.True(t, dec("125").Equal(daily[0].Price))
}
