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

// HoldRepository is the Postgres hold queue. Ordering is by hold_placed
// ascending with the row id as tie-break for holds placed in the same
// instant.
type HoldRepository struct {
	repository *repository.Repository
}

func NewHoldRepository(r *repository.Repository) *HoldRepository {
	return &HoldRepository{
		repository: r,
	}
}

func (r *HoldRepository) Enqueue(tx *goqu.TxDatabase, assetID int, cardID int, placed time.Time) error {
	query := tx.Insert("holds").
		Rows(goqu.Record{
			"asset_id":        assetID,
			"library_card_id": cardID,
			"hold_placed":     placed,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Failed to queue hold", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert hold record: %w", err)
	}

	return nil
}

func (r *HoldRepository) PeekEarliest(tx *goqu.TxDatabase, assetID int) (*models.Hold, error) {
	return r.peekHold(tx, goqu.Ex{"asset_id": assetID})
}

func (r *HoldRepository) PeekEarliestForCard(tx *goqu.TxDatabase, assetID int, cardID int) (*models.Hold, error) {
	return r.peekHold(tx, goqu.Ex{
		"asset_id":        assetID,
		"library_card_id": cardID,
	})
}

func (r *HoldRepository) Dequeue(tx *goqu.TxDatabase, holdID int) error {
	query := tx.Delete("holds").
		Where(goqu.Ex{"id": holdID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to remove hold %d: %w", holdID, err)
	}

	return nil
}

func (r *HoldRepository) GetHold(holdID int) (*models.Hold, error) {
	var hold models.Hold

	query := r.repository.GoquDBWrapper.
		Select(holdColumns()...).
		From("holds").
		Where(goqu.Ex{"id": holdID})

	found, err := query.Executor().ScanStruct(&hold)
	if err != nil {
		return nil, fmt.Errorf("failed to select hold %d: %w", holdID, err)
	}
	if !found {
		return nil, nil
	}

	return &hold, nil
}

func (r *HoldRepository) ListHolds(assetID int) ([]models.Hold, error) {
	var holds []models.Hold

	query := r.repository.GoquDBWrapper.
		Select(holdColumns()...).
		From("holds").
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("hold_placed").Asc(), goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&holds); err != nil {
		return nil, fmt.Errorf("failed to select holds: %w", err)
	}

	return holds, nil
}

func (r *HoldRepository) peekHold(tx *goqu.TxDatabase, conditions goqu.Ex) (*models.Hold, error) {
	var hold models.Hold

	query := tx.
		Select(holdColumns()...).
		From("holds").
		Where(conditions).
		Order(goqu.I("hold_placed").Asc(), goqu.I("id").Asc()).
		Limit(1)

	found, err := query.Executor().ScanStruct(&hold)
	if err != nil {
		return nil, fmt.Errorf("failed to select earliest hold: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &hold, nil
}

func holdColumns() []interface{} {
	return []interface{}{
		goqu.I("id").As("hold_id"),
		goqu.C("asset_id"),
		goqu.C("library_card_id"),
		goqu.C("hold_placed"),
	}
}
