package circulation

import (
	"fmt"
	"time"

	"library/pkg/metadata"
	"library/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// Loan period for every checkout, in days.
const loanPeriodDays = 30

// CheckoutLedger tracks the single active checkout per asset and the
// append-only checkout history. Open and Close mutate both rows atomically
// within the passed transaction.
type CheckoutLedger interface {
	Open(tx *goqu.TxDatabase, assetID int, cardID int, since time.Time, until time.Time) error
	Close(tx *goqu.TxDatabase, assetID int, when time.Time) error
	HasActiveCheckout(tx *goqu.TxDatabase, assetID int) (bool, error)
	GetCurrentCheckout(assetID int) (*models.Checkout, error)
	GetCheckoutHistory(assetID int) ([]models.CheckoutHistory, error)
	IsCheckedOut(assetID int) (bool, error)
}

// HoldQueue owns per-asset hold ordering. Removal is by hold id, so a
// peek+dequeue pair inside one transaction cannot consume a hold twice.
type HoldQueue interface {
	Enqueue(tx *goqu.TxDatabase, assetID int, cardID int, placed time.Time) error
	PeekEarliest(tx *goqu.TxDatabase, assetID int) (*models.Hold, error)
	PeekEarliestForCard(tx *goqu.TxDatabase, assetID int, cardID int) (*models.Hold, error)
	Dequeue(tx *goqu.TxDatabase, holdID int) error
	GetHold(holdID int) (*models.Hold, error)
	ListHolds(assetID int) ([]models.Hold, error)
}

// AssetDirectory resolves assets and updates their status. LockAsset must
// take a row lock for the duration of the transaction so concurrent lifecycle
// operations on the same asset serialize.
type AssetDirectory interface {
	LockAsset(tx *goqu.TxDatabase, assetID int) (*models.Asset, error)
	UpdateAssetStatus(tx *goqu.TxDatabase, assetID int, status metadata.Status) error
}

// CardDirectory resolves library cards and patron names. ResolveNameByCardID
// returns "" for an unknown patron, never an error.
type CardDirectory interface {
	CardExists(tx *goqu.TxDatabase, cardID int) (bool, error)
	ResolveNameByCardID(cardID int) (string, error)
}

// UnitOfWork runs a function inside one storage transaction.
type UnitOfWork interface {
	WithinTransaction(fn func(tx *goqu.TxDatabase) error) error
}

// Service is the asset lifecycle controller. Every mutating operation runs in
// a single transaction that first locks the asset row, so at most one active
// checkout per asset can ever be observed.
type Service struct {
	uow    UnitOfWork
	ledger CheckoutLedger
	holds  HoldQueue
	assets AssetDirectory
	cards  CardDirectory
	clock  Clock
	log    *zap.Logger
}

func NewService(uow UnitOfWork, ledger CheckoutLedger, holds HoldQueue, assets AssetDirectory, cards CardDirectory, clock Clock, log *zap.Logger) *Service {
	return &Service{
		uow:    uow,
		ledger: ledger,
		holds:  holds,
		assets: assets,
		cards:  cards,
		clock:  clock,
		log:    log,
	}
}

// CheckOut lends the asset to the given card. Reports AlreadyCheckedOut
// without mutating anything when an active checkout exists.
func (s *Service) CheckOut(assetID, cardID int) (Outcome, error) {
	outcome := OutcomeApplied

	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.LockAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			outcome = OutcomeInvalidReference
			return nil
		}

		applied, err := s.openCheckout(tx, assetID, cardID)
		if err != nil {
			return err
		}
		if !applied {
			outcome = OutcomeAlreadyCheckedOut
		}
		return nil
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to check out asset %d: %w", assetID, err)
	}

	return outcome, nil
}

// CheckIn closes the active checkout and either hands the asset to the
// earliest pending hold or returns it to the shelf. The hold hand-off happens
// in the same transaction, so the asset is never observable as available
// while a hold is pending.
func (s *Service) CheckIn(assetID int) (Outcome, error) {
	outcome := OutcomeApplied

	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.LockAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			outcome = OutcomeInvalidReference
			return nil
		}

		now := s.clock.Now()
		if err := s.ledger.Close(tx, assetID, now); err != nil {
			return err
		}

		next, err := s.holds.PeekEarliest(tx, assetID)
		if err != nil {
			return err
		}
		if next != nil {
			if err := s.holds.Dequeue(tx, next.ID); err != nil {
				return err
			}
			// Hand-off depth is bounded by one: the fulfillment
			// checkout never pops further holds.
			if _, err := s.openCheckout(tx, assetID, next.LibraryCardID); err != nil {
				return err
			}
			s.log.Info("fulfilled hold on check-in",
				zap.Int("asset_id", assetID),
				zap.Int("hold_id", next.ID),
				zap.Int("library_card_id", next.LibraryCardID),
			)
			return nil
		}

		return s.assets.UpdateAssetStatus(tx, assetID, metadata.StatusAvailable)
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to check in asset %d: %w", assetID, err)
	}

	return outcome, nil
}

// CheckOutToFirstReserve lends the asset to an operator-specified card and
// consumes that card's earliest hold for the asset, if one exists. Unlike
// CheckIn it never serves the globally earliest hold.
func (s *Service) CheckOutToFirstReserve(assetID, cardID int) (Outcome, error) {
	outcome := OutcomeApplied

	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.LockAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			outcome = OutcomeInvalidReference
			return nil
		}

		applied, err := s.openCheckout(tx, assetID, cardID)
		if err != nil {
			return err
		}
		if !applied {
			outcome = OutcomeAlreadyCheckedOut
			return nil
		}

		hold, err := s.holds.PeekEarliestForCard(tx, assetID, cardID)
		if err != nil {
			return err
		}
		if hold == nil {
			// The checkout stands even without a matching hold.
			return nil
		}
		return s.holds.Dequeue(tx, hold.ID)
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to release asset %d to reserve: %w", assetID, err)
	}

	return outcome, nil
}

// PlaceHold queues a hold for the card. Holds accumulate regardless of the
// asset's current status; only a hold against an available asset flips the
// status to on_hold.
func (s *Service) PlaceHold(assetID, cardID int) (Outcome, error) {
	outcome := OutcomeApplied

	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.LockAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			outcome = OutcomeInvalidReference
			return nil
		}

		exists, err := s.cards.CardExists(tx, cardID)
		if err != nil {
			return err
		}
		if !exists {
			outcome = OutcomeInvalidReference
			return nil
		}

		if asset.Status == metadata.StatusAvailable {
			if err := s.assets.UpdateAssetStatus(tx, assetID, metadata.StatusOnHold); err != nil {
				return err
			}
		}

		return s.holds.Enqueue(tx, assetID, cardID, s.clock.Now())
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to place hold on asset %d: %w", assetID, err)
	}

	return outcome, nil
}

// MarkLost transitions the asset to lost. Any active checkout is closed in
// the same transaction: a lost asset keeps neither a live loan nor an open
// history entry.
func (s *Service) MarkLost(assetID int) (Outcome, error) {
	outcome := OutcomeApplied

	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.LockAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			outcome = OutcomeInvalidReference
			return nil
		}

		if err := s.ledger.Close(tx, assetID, s.clock.Now()); err != nil {
			return err
		}
		return s.assets.UpdateAssetStatus(tx, assetID, metadata.StatusLost)
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to mark asset %d lost: %w", assetID, err)
	}

	return outcome, nil
}

// MarkFound returns the asset to the shelf, closing any loan that was still
// open when it went missing. The hold queue is deliberately not consulted;
// pending holds are served on the next checkout cycle.
func (s *Service) MarkFound(assetID int) (Outcome, error) {
	outcome := OutcomeApplied

	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.LockAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			outcome = OutcomeInvalidReference
			return nil
		}

		if err := s.ledger.Close(tx, assetID, s.clock.Now()); err != nil {
			return err
		}
		return s.assets.UpdateAssetStatus(tx, assetID, metadata.StatusAvailable)
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to mark asset %d found: %w", assetID, err)
	}

	return outcome, nil
}

// openCheckout performs the checkout steps against an already locked asset
// row. Returns false without mutating anything when an active checkout
// exists.
func (s *Service) openCheckout(tx *goqu.TxDatabase, assetID, cardID int) (bool, error) {
	active, err := s.ledger.HasActiveCheckout(tx, assetID)
	if err != nil {
		return false, err
	}
	if active {
		return false, nil
	}

	if err := s.assets.UpdateAssetStatus(tx, assetID, metadata.StatusCheckedOut); err != nil {
		return false, err
	}

	now := s.clock.Now()
	if err := s.ledger.Open(tx, assetID, cardID, now, now.AddDate(0, 0, loanPeriodDays)); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Service) GetCurrentCheckout(assetID int) (*models.Checkout, error) {
	return s.ledger.GetCurrentCheckout(assetID)
}

func (s *Service) GetCheckoutHistory(assetID int) ([]models.CheckoutHistory, error) {
	return s.ledger.GetCheckoutHistory(assetID)
}

func (s *Service) GetCurrentHolds(assetID int) ([]models.Hold, error) {
	return s.holds.ListHolds(assetID)
}

func (s *Service) GetEarliestHold(assetID int) (*models.Hold, error) {
	var hold *models.Hold
	err := s.uow.WithinTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		hold, err = s.holds.PeekEarliest(tx, assetID)
		return err
	})
	return hold, err
}

func (s *Service) IsCheckedOut(assetID int) (bool, error) {
	return s.ledger.IsCheckedOut(assetID)
}

// GetCurrentCheckoutPatron resolves the name of the patron currently holding
// the asset. Returns "" when the asset is not checked out or the patron is
// unknown.
func (s *Service) GetCurrentCheckoutPatron(assetID int) (string, error) {
	checkout, err := s.ledger.GetCurrentCheckout(assetID)
	if err != nil {
		return "", err
	}
	if checkout == nil {
		return "", nil
	}
	return s.cards.ResolveNameByCardID(checkout.LibraryCardID)
}

// GetHoldPatronName resolves the name of the patron behind a hold. Returns ""
// when the hold or patron does not exist.
func (s *Service) GetHoldPatronName(holdID int) (string, error) {
	hold, err := s.holds.GetHold(holdID)
	if err != nil {
		return "", err
	}
	if hold == nil {
		return "", nil
	}
	return s.cards.ResolveNameByCardID(hold.LibraryCardID)
}

// GetHoldPlaced returns the placement time of a hold, or the zero time when
// the hold does not exist.
func (s *Service) GetHoldPlaced(holdID int) (time.Time, error) {
	hold, err := s.holds.GetHold(holdID)
	if err != nil {
		return time.Time{}, err
	}
	if hold == nil {
		return time.Time{}, nil
	}
	return hold.HoldPlaced, nil
}
