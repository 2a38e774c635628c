package patrons

import (
	"fmt"
	"strings"

	"library/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type PatronRepository struct {
	repository *repository.Repository
}

func NewPatronRepository(r *repository.Repository) *PatronRepository {
	return &PatronRepository{
		repository: r,
	}
}

func (r *PatronRepository) CardExists(tx *goqu.TxDatabase, cardID int) (bool, error) {
	var count int
	query := tx.From("library_cards").
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{"id": cardID})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check library card %d: %w", cardID, err)
	}

	return count > 0, nil
}

// ResolveNameByCardID returns the full name of the patron owning the card, or
// "" when no patron matches. A missing patron is not an error.
func (r *PatronRepository) ResolveNameByCardID(cardID int) (string, error) {
	var name struct {
		FirstName string `db:"first_name"`
		LastName  string `db:"last_name"`
	}

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.C("first_name"),
			goqu.C("last_name"),
		).
		From("patrons").
		Where(goqu.Ex{"library_card_id": cardID})

	found, err := query.Executor().ScanStruct(&name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve patron for card %d: %w", cardID, err)
	}
	if !found {
		return "", nil
	}

	return strings.TrimSpace(name.FirstName + " " + name.LastName), nil
}
