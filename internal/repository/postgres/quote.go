package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/quote"
	"quote-negotiation-backend/internal/repository"
)

const quoteColumns = `id, rental_id, quote_number, status, rental_fee, staff_fee, damage_deposit, delivery_fee, customization_fee,
	package_tier, billable_hours, delivery_distance_km, staff_description, manager_feedback, customer_reason, version, created_at, updated_at`

// postgres unique_violation
const uniqueViolation = "23505"

type quoteRepository struct {
	db *sql.DB
}

func NewQuoteRepository(db *sql.DB) repository.QuoteRepository {
	return &quoteRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner, q *domain.Quote) error {
	return row.Scan(&q.ID, &q.RentalID, &q.QuoteNumber, &q.Status,
		&q.RentalFee, &q.StaffFee, &q.DamageDeposit, &q.DeliveryFee, &q.CustomizationFee,
		&q.PackageTier, &q.BillableHours, &q.DeliveryDistanceKm,
		&q.StaffDescription, &q.ManagerFeedback, &q.CustomerReason,
		&q.Version, &q.CreatedAt, &q.UpdatedAt)
}

// sqlConn is what the quote queries need from either *sql.DB or *sql.Tx.
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// lockRental takes the row lock that serialises cap and activation checks
// for one rental.
func lockRental(ctx context.Context, tx *sql.Tx, rentalID int32) error {
	var locked int32
	logger.DatabaseCall("SELECT FOR UPDATE", "rentals", "rentalID", rentalID)
	err := tx.QueryRowContext(ctx, `SELECT id FROM rentals WHERE id = $1 FOR UPDATE`, rentalID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRentalNotFound
	}
	return err
}

// listRentalStatuses reads the id, number and status of every quote of the rental.
func listRentalStatuses(ctx context.Context, conn sqlConn, rentalID int32) ([]domain.Quote, error) {
	rows, err := conn.QueryContext(ctx, `SELECT id, quote_number, status FROM quotes WHERE rental_id = $1 ORDER BY quote_number`, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var e domain.Quote
		if err := rows.Scan(&e.ID, &e.QuoteNumber, &e.Status); err != nil {
			return nil, err
		}
		quotes = append(quotes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(quotes)), nil, "rentalID", rentalID)
	return quotes, nil
}

func (r *quoteRepository) CreateWithinCap(ctx context.Context, q *domain.Quote) error {
	logger.EnterMethod("quoteRepository.CreateWithinCap", "rentalID", q.RentalID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("quoteRepository.CreateWithinCap", err, "reason", "begin")
		return err
	}
	defer tx.Rollback()

	if err := lockRental(ctx, tx, q.RentalID); err != nil {
		logger.ExitMethodWithError("quoteRepository.CreateWithinCap", err, "rentalID", q.RentalID)
		return err
	}

	existing, err := listRentalStatuses(ctx, tx, q.RentalID)
	if err != nil {
		return err
	}

	if err := quote.CheckCreate(q.RentalID, existing); err != nil {
		logger.ExitMethodWithError("quoteRepository.CreateWithinCap", err, "rentalID", q.RentalID, "count", len(existing))
		return err
	}
	q.QuoteNumber = quote.NextQuoteNumber(existing)

	insert := `INSERT INTO quotes (rental_id, quote_number, status, rental_fee, staff_fee, damage_deposit, delivery_fee, customization_fee,
	           package_tier, billable_hours, delivery_distance_km, staff_description, manager_feedback, customer_reason, version, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17) RETURNING id`
	logger.DatabaseCall("INSERT", "quotes", "rentalID", q.RentalID, "quoteNumber", q.QuoteNumber)
	err = tx.QueryRowContext(ctx, insert, q.RentalID, q.QuoteNumber, q.Status,
		q.RentalFee, q.StaffFee, q.DamageDeposit, q.DeliveryFee, q.CustomizationFee,
		q.PackageTier, q.BillableHours, q.DeliveryDistanceKm,
		q.StaffDescription, q.ManagerFeedback, q.CustomerReason,
		q.Version, q.CreatedAt, q.UpdatedAt).Scan(&q.ID)
	logger.DatabaseResult("INSERT", 1, err, "quoteID", q.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("quote number %d of rental %d already taken: %w", q.QuoteNumber, q.RentalID, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("quoteRepository.CreateWithinCap", err, "reason", "commit")
		return err
	}
	logger.ExitMethod("quoteRepository.CreateWithinCap", "quoteID", q.ID, "quoteNumber", q.QuoteNumber)
	return nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id int32) (*domain.Quote, error) {
	q := &domain.Quote{}
	err := scanQuote(r.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id), q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *quoteRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE rental_id = $1 ORDER BY quote_number`, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (r *quoteRepository) CompareAndSwap(ctx context.Context, q *domain.Quote, expectedStatus domain.QuoteStatus, expectedVersion int32) error {
	if !quote.EntersCustomerReview(expectedStatus, q.Status) {
		return swapQuote(ctx, r.db, q, expectedStatus, expectedVersion)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockRental(ctx, tx, q.RentalID); err != nil {
		return err
	}
	siblings, err := listRentalStatuses(ctx, tx, q.RentalID)
	if err != nil {
		return err
	}
	if err := quote.CheckActivate(q, siblings); err != nil {
		return err
	}
	if err := swapQuote(ctx, tx, q, expectedStatus, expectedVersion); err != nil {
		return err
	}
	return tx.Commit()
}

func swapQuote(ctx context.Context, conn sqlConn, q *domain.Quote, expectedStatus domain.QuoteStatus, expectedVersion int32) error {
	query := `UPDATE quotes SET status=$1, delivery_fee=$2, customization_fee=$3, staff_description=$4, manager_feedback=$5,
	          customer_reason=$6, version=$7, updated_at=$8
	          WHERE id=$9 AND status=$10 AND version=$11`
	logger.DatabaseCall("UPDATE", "quotes", "quoteID", q.ID, "from", expectedStatus, "to", q.Status)
	result, err := conn.ExecContext(ctx, query, q.Status, q.DeliveryFee, q.CustomizationFee, q.StaffDescription,
		q.ManagerFeedback, q.CustomerReason, q.Version, q.UpdatedAt, q.ID, expectedStatus, expectedVersion)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "quoteID", q.ID)
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", n, nil, "quoteID", q.ID)
	if n == 1 {
		return nil
	}

	var actualStatus domain.QuoteStatus
	var actualVersion int32
	err = conn.QueryRowContext(ctx, `SELECT status, version FROM quotes WHERE id = $1`, q.ID).Scan(&actualStatus, &actualVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrQuoteNotFound
	}
	if err != nil {
		return err
	}
	return &domain.StaleStateError{
		QuoteID:         q.ID,
		ExpectedStatus:  expectedStatus,
		ActualStatus:    actualStatus,
		ExpectedVersion: expectedVersion,
		ActualVersion:   actualVersion,
	}
}

func (r *quoteRepository) ListRentalsPendingExpiry(ctx context.Context, limit int32) ([]int32, error) {
	query := `SELECT rental_id FROM quotes
	          GROUP BY rental_id
	          HAVING count(*) >= $1
	             AND count(*) FILTER (WHERE status IN ($2, $3, $4, $5)) = 0
	             AND count(*) FILTER (WHERE status = $6) > 0
	          ORDER BY rental_id LIMIT $7`
	rows, err := r.db.QueryContext(ctx, query, domain.MaxQuotesPerRental,
		domain.QuoteStatusPendingManager, domain.QuoteStatusRejectedManager, domain.QuoteStatusPendingCustomer, domain.QuoteStatusApproved,
		domain.QuoteStatusRejectedCustomer, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
