package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (package_tier, event_start, event_end, city, staff_id, manager_id, customer_id, customer_name, customer_email, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if rt.CreatedOn.IsZero() {
		rt.CreatedOn = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "rentals", "packageTier", rt.PackageTier, "city", rt.City)
	err := r.db.QueryRowContext(ctx, query, rt.PackageTier, rt.EventStart, rt.EventEnd, rt.City,
		rt.StaffID, rt.ManagerID, rt.CustomerID, rt.CustomerName, rt.CustomerEmail, rt.CreatedOn).Scan(&rt.ID)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT id, package_tier, event_start, event_end, city, staff_id, manager_id, customer_id, customer_name, customer_email, created_on FROM rentals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rt.ID, &rt.PackageTier, &rt.EventStart, &rt.EventEnd, &rt.City,
		&rt.StaffID, &rt.ManagerID, &rt.CustomerID, &rt.CustomerName, &rt.CustomerEmail, &rt.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}
