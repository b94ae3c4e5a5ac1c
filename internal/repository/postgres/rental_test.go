package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/repository/postgres"
)

func TestRentalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	rental := &domain.Rental{
		PackageTier: "Standard",
		EventStart:  start,
		EventEnd:    start.Add(140 * time.Minute),
		City:        "Hồ Chí Minh",
		StaffID:     2,
		ManagerID:   3,
		CustomerID:  4,
	}

	mock.ExpectQuery("INSERT INTO rentals").
		WithArgs("Standard", rental.EventStart, rental.EventEnd, "Hồ Chí Minh", int32(2), int32(3), int32(4), "", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	err = repo.Create(context.Background(), rental)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), rental.ID)
	assert.False(t, rental.CreatedOn.IsZero())
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()
	columns := []string{"id", "package_tier", "event_start", "event_end", "city", "staff_id", "manager_id", "customer_id", "customer_name", "customer_email", "created_on"}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow(42, "Premium", time.Now(), time.Now().Add(3*time.Hour), "Đà Nẵng", 2, 3, 4, "Lan", "lan@example.com", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(42)).
			WillReturnRows(rows)

		rental, err := repo.GetByID(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, "Premium", rental.PackageTier)
		assert.Equal(t, "lan@example.com", rental.CustomerEmail)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}
