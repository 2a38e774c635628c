package circulation

import (
	"fmt"
	"time"

	"library/internal/repository"
	custom_error "library/pkg/errors"
	"library/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// CheckoutRepository is the Postgres checkout ledger. The checkouts table
// carries a unique constraint on asset_id as defense in depth under the
// asset row lock.
type CheckoutRepository struct {
	repository *repository.Repository
}

func NewCheckoutRepository(r *repository.Repository) *CheckoutRepository {
	return &CheckoutRepository{
		repository: r,
	}
}

func (r *CheckoutRepository) Open(tx *goqu.TxDatabase, assetID int, cardID int, since time.Time, until time.Time) error {
	query := tx.Insert("checkouts").
		Rows(goqu.Record{
			"asset_id":        assetID,
			"library_card_id": cardID,
			"since":           since,
			"until":           until,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Active checkout already exists for asset", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert checkout record: %w", err)
	}

	historyQuery := tx.Insert("checkout_histories").
		Rows(goqu.Record{
			"asset_id":        assetID,
			"library_card_id": cardID,
			"checked_out":     since,
		})

	if _, err := historyQuery.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to open checkout history record: %w", err)
	}

	return nil
}

func (r *CheckoutRepository) Close(tx *goqu.TxDatabase, assetID int, when time.Time) error {
	deleteQuery := tx.Delete("checkouts").
		Where(goqu.Ex{"asset_id": assetID})

	if _, err := deleteQuery.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to remove checkout record: %w", err)
	}

	historyQuery := tx.Update("checkout_histories").
		Set(goqu.Record{"checked_in": when}).
		Where(goqu.Ex{
			"asset_id":   assetID,
			"checked_in": nil,
		})

	if _, err := historyQuery.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to close checkout history record: %w", err)
	}

	return nil
}

func (r *CheckoutRepository) HasActiveCheckout(tx *goqu.TxDatabase, assetID int) (bool, error) {
	var count int
	query := tx.From("checkouts").
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{"asset_id": assetID})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check active checkout: %w", err)
	}

	return count > 0, nil
}

func (r *CheckoutRepository) GetCurrentCheckout(assetID int) (*models.Checkout, error) {
	var checkout models.Checkout

	query := r.checkoutQuery().
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("since").Desc()).
		Limit(1)

	found, err := query.Executor().ScanStruct(&checkout)
	if err != nil {
		return nil, fmt.Errorf("failed to select current checkout: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &checkout, nil
}

func (r *CheckoutRepository) GetCheckoutHistory(assetID int) ([]models.CheckoutHistory, error) {
	var entries []models.CheckoutHistory

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("id").As("history_id"),
			goqu.C("asset_id"),
			goqu.C("library_card_id"),
			goqu.C("checked_out"),
			goqu.C("checked_in"),
		).
		From("checkout_histories").
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("checked_out").Asc())

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("failed to select checkout history: %w", err)
	}

	return entries, nil
}

func (r *CheckoutRepository) IsCheckedOut(assetID int) (bool, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		From("checkouts").
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{"asset_id": assetID})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check checkout state: %w", err)
	}

	return count > 0, nil
}

func (r *CheckoutRepository) checkoutQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("id").As("checkout_id"),
			goqu.C("asset_id"),
			goqu.C("library_card_id"),
			goqu.C("since"),
			goqu.C("until"),
		).
		From("checkouts")
}
