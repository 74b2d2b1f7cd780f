package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
	"surfboard-checkout-backend/internal/tz"
)

// DamageInput is the optional damage payload supplied with a return.
type DamageInput struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// CheckoutService is the checkout lifecycle engine. It is the only writer
// of Board.status and Checkout.status; every operation runs its precondition
// re-check and its state writes inside one transaction, with conditional
// status updates arbitrating races the re-check cannot see.
type CheckoutService struct {
	store        *store.Store
	reservations *ReservationService
	notifier     Notifier
	events       Broadcaster
	now          func() time.Time
}

func NewCheckoutService(st *store.Store, rs *ReservationService, n Notifier, b Broadcaster) *CheckoutService {
	if n == nil {
		n = NopNotifier{}
	}
	if b == nil {
		b = NopBroadcaster{}
	}
	return &CheckoutService{
		store:        st,
		reservations: rs,
		notifier:     n,
		events:       b,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Checkout loans the board to the user and computes its return deadline from
// the location's calendar rules.
func (s *CheckoutService) Checkout(ctx context.Context, userID, boardID, locationID, ip string) (*model.Checkout, error) {
	var checkout *model.Checkout

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		board, err := tx.FindBoard(ctx, boardID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrBoardNotFound
			}
			return err
		}
		if board.LocationID != locationID {
			return ErrBoardNotAtLocation
		}
		if !board.IsAvailable() {
			return ErrBoardNotAvailable
		}
		active, err := tx.FindActiveCheckoutByBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrBoardAlreadyCheckedOut
		}

		location, err := tx.FindLocation(ctx, locationID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrLocationNotFound
			}
			return err
		}

		checkoutTime := s.now()
		expectedReturn, isWeekend := tz.ReturnWindow(checkoutTime, tz.Resolve(location.Timezone))

		// The conditional write is the final arbiter: if another worker won
		// the race after our re-check, zero rows flip and we report conflict.
		swapped, err := tx.UpdateBoardStatusIf(ctx, boardID, model.BoardStatusAvailable, model.BoardStatusCheckedOut)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrBoardAlreadyCheckedOut
		}

		checkout = &model.Checkout{
			ID:                 uuid.NewString(),
			UserID:             userID,
			BoardID:            boardID,
			CheckoutTime:       checkoutTime,
			ExpectedReturnTime: expectedReturn,
			Status:             model.CheckoutStatusActive,
		}
		if err := tx.CreateCheckout(ctx, checkout); err != nil {
			return err
		}

		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			BoardID:    boardID,
			LocationID: locationID,
			ActionType: model.ActionCheckout,
			Details: model.DetailsJSON(model.CheckoutCreatedDetails{
				CheckoutID:         checkout.ID,
				ExpectedReturnTime: expectedReturn,
				IsWeekend:          isWeekend,
			}),
			Timestamp: checkoutTime,
			IPAddress: ip,
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.CheckoutCreated(locationID, checkout.ID, boardID, userID)
	s.events.BoardStatusChanged(locationID, boardID, model.BoardStatusCheckedOut)
	log.Printf("board %s checked out by user %s, due %s", boardID, userID, checkout.ExpectedReturnTime)
	return checkout, nil
}

// Return closes an active checkout. A clean return frees the board and
// promotes the head of its reservation queue; a damaged return raises a
// damage report and redirects the board to the damage workflow instead.
func (s *CheckoutService) Return(ctx context.Context, checkoutID, userID string, damage *DamageInput, ip string) (*model.Checkout, error) {
	var (
		checkout     *model.Checkout
		board        *model.Board
		damageReport *model.DamageReport
		promoted     *model.Reservation
	)

	returnTime := s.now()
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		checkout, err = tx.FindCheckout(ctx, checkoutID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrCheckoutNotFound
			}
			return err
		}
		if checkout.UserID != userID {
			return ErrCheckoutNotOwned
		}
		if !checkout.IsActive() {
			return ErrCheckoutNotActive
		}

		closed, err := tx.CloseCheckout(ctx, checkoutID, model.CheckoutStatusReturned, &returnTime)
		if err != nil {
			return err
		}
		if !closed {
			return ErrCheckoutNotActive
		}
		checkout.Status = model.CheckoutStatusReturned
		checkout.ActualReturnTime = &returnTime

		board, err = tx.FindBoard(ctx, checkout.BoardID)
		if err != nil {
			return err
		}

		if damage != nil {
			severity := damage.Severity
			if severity == "" {
				severity = model.DamageSeverityModerate
			}
			damageReport = &model.DamageReport{
				ID:          uuid.NewString(),
				CheckoutID:  checkoutID,
				BoardID:     board.ID,
				ReportedBy:  userID,
				Description: damage.Description,
				Severity:    severity,
				Status:      model.DamageStatusNew,
			}
			if err := tx.CreateDamageReport(ctx, damageReport); err != nil {
				return err
			}
			if err := tx.UpdateBoardStatus(ctx, board.ID, model.BoardStatusDamaged); err != nil {
				return err
			}
			if err := tx.AppendActivity(ctx, &model.ActivityLog{
				ID:         uuid.NewString(),
				UserID:     userID,
				BoardID:    board.ID,
				LocationID: board.LocationID,
				ActionType: model.ActionDamageReport,
				Details: model.DetailsJSON(model.DamageReportedDetails{
					CheckoutID:     checkoutID,
					DamageReportID: damageReport.ID,
					Severity:       severity,
				}),
				Timestamp: returnTime,
				IPAddress: ip,
			}); err != nil {
				return err
			}
		} else {
			if err := tx.UpdateBoardStatus(ctx, board.ID, model.BoardStatusAvailable); err != nil {
				return err
			}
			promoted, err = s.reservations.promoteHead(ctx, tx, board.ID, returnTime)
			if err != nil {
				return err
			}
		}

		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			BoardID:    board.ID,
			LocationID: board.LocationID,
			ActionType: model.ActionReturn,
			Details: model.DetailsJSON(model.ReturnDetails{
				CheckoutID: checkoutID,
				ReturnTime: returnTime,
				HasDamage:  damage != nil,
			}),
			Timestamp: returnTime,
			IPAddress: ip,
		})
	})
	if err != nil {
		return nil, err
	}

	if damageReport != nil {
		s.notifier.DamageReported(ctx, damageReport.ID)
		s.events.BoardStatusChanged(board.LocationID, board.ID, model.BoardStatusDamaged)
	} else {
		if promoted != nil {
			s.notifier.ReservationAvailable(ctx, promoted.ID)
		}
		s.events.BoardStatusChanged(board.LocationID, board.ID, model.BoardStatusAvailable)
	}
	s.events.CheckoutReturned(board.LocationID, checkoutID, board.ID)
	log.Printf("board %s returned by user %s (damage=%v)", board.ID, userID, damage != nil)
	return checkout, nil
}

// Cancel voids an active checkout and frees the board. Cancellation does
// not wake the reservation queue; waiters are promoted on return or by the
// notification poller once their unlock time elapses.
func (s *CheckoutService) Cancel(ctx context.Context, checkoutID, userID, ip string) (*model.Checkout, error) {
	var (
		checkout *model.Checkout
		board    *model.Board
	)

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		checkout, err = tx.FindCheckout(ctx, checkoutID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrCheckoutNotFound
			}
			return err
		}
		if checkout.UserID != userID {
			return ErrCheckoutNotOwned
		}
		if !checkout.IsActive() {
			return ErrCheckoutNotActive
		}

		closed, err := tx.CloseCheckout(ctx, checkoutID, model.CheckoutStatusCancelled, nil)
		if err != nil {
			return err
		}
		if !closed {
			return ErrCheckoutNotActive
		}
		checkout.Status = model.CheckoutStatusCancelled

		board, err = tx.FindBoard(ctx, checkout.BoardID)
		if err != nil {
			return err
		}
		if err := tx.UpdateBoardStatus(ctx, board.ID, model.BoardStatusAvailable); err != nil {
			return err
		}

		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			BoardID:    board.ID,
			LocationID: board.LocationID,
			ActionType: model.ActionCancelCheckout,
			Details:    model.DetailsJSON(model.CancelCheckoutDetails{CheckoutID: checkoutID}),
			Timestamp:  s.now(),
			IPAddress:  ip,
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.BoardStatusChanged(board.LocationID, board.ID, model.BoardStatusAvailable)
	log.Printf("checkout %s cancelled by user %s", checkoutID, userID)
	return checkout, nil
}
