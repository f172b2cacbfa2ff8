package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/drinkshop/drinkshop-backend/pkg/db"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"github.com/drinkshop/drinkshop-backend/pkg/enums"
	pkgerrors "github.com/drinkshop/drinkshop-backend/pkg/errors"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/drinkshop/drinkshop-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	opInsert      = "insert"
	opCheckInCart = "check_in_cart"
	opUpdate      = "update"
	opDelete      = "delete"
	opDeleteAll   = "delete_all"
	opAddToCart   = "add_to_cart"
	opSummary     = "summary"
	opRefresh     = "refresh"
	opObserveAll  = "observe_all"

	announceTimeout = 2 * time.Second
)

// Service is the cart store plus the conveniences the HTTP layer and relay need.
type Service interface {
	Store
	AddToCart(ctx context.Context, drink models.Drink) (*models.Drink, error)
	Summary(ctx context.Context) (Summary, error)
	Refresh(ctx context.Context) error
	HandleRemoteChange(ctx context.Context, payload string)
	Close()
}

// Summary aggregates the cart for the badge and checkout views.
type Summary struct {
	Items []models.Drink  `json:"items"`
	Lines int             `json:"lines"`
	Units int             `json:"units"`
	Total decimal.Decimal `json:"total"`
}

// ServiceParams wires the cart service. Repo, Tx and Logger are required.
type ServiceParams struct {
	Repo     DrinkRepository
	Tx       txRunner
	Logger   *logger.Logger
	Metrics  *metrics.CartMetrics
	Notifier ChangeNotifier
	Channel  string
	Origin   string
}

type service struct {
	repo     DrinkRepository
	tx       txRunner
	hub      *Hub
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
	notifier ChangeNotifier
	channel  string
	origin   string

	// writeMu orders mutation, re-query and publish so emissions follow commit order.
	writeMu sync.Mutex
}

// NewService builds the cart store backed by the provided stack.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("drink repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.Notifier != nil && p.Channel == "" {
		return nil, fmt.Errorf("relay channel required when a notifier is set")
	}
	origin := p.Origin
	if origin == "" {
		origin = uuid.NewString()
	}
	return &service{
		repo:     p.Repo,
		tx:       p.Tx,
		hub:      NewHub(p.Metrics),
		logg:     p.Logger,
		metrics:  p.Metrics,
		notifier: p.Notifier,
		channel:  p.Channel,
		origin:   origin,
	}, nil
}

// Insert adds a new line. A duplicate id fails with CONFLICT.
func (s *service) Insert(ctx context.Context, drink *models.Drink) error {
	if err := validateDrink(drink); err != nil {
		return s.finish(ctx, opInsert, time.Now(), err)
	}
	return s.mutate(ctx, opInsert, func(ctx context.Context) error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.insertLocked(ctx, s.repo.WithTx(tx), drink)
		})
	})
}

func (s *service) insertLocked(ctx context.Context, repo DrinkRepository, drink *models.Drink) error {
	seq, err := repo.NextSeq(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate drink sequence")
	}
	// The caller's drink only takes the seq and timestamps once the row is written.
	row := *drink
	row.Seq = seq
	if err := repo.Insert(ctx, &row); err != nil {
		if db.IsUniqueViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "drink already in cart").
				WithDetails(map[string]any{"id": drink.ID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert drink")
	}
	*drink = row
	return nil
}

// CheckInCart returns the line with the given id, or an empty slice.
func (s *service) CheckInCart(ctx context.Context, id int64) ([]models.Drink, error) {
	start := time.Now()
	drink, err := s.repo.FindByID(ctx, id)
	switch {
	case db.IsNotFound(err):
		s.metrics.ObserveOperation(opCheckInCart, nil, time.Since(start))
		return []models.Drink{}, nil
	case err != nil:
		return nil, s.finish(ctx, opCheckInCart, start, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load drink"))
	}
	s.metrics.ObserveOperation(opCheckInCart, nil, time.Since(start))
	return []models.Drink{*drink}, nil
}

// Update replaces the stored line with the same id. An absent id fails with NOT_FOUND.
func (s *service) Update(ctx context.Context, drink *models.Drink) error {
	if err := validateDrink(drink); err != nil {
		return s.finish(ctx, opUpdate, time.Now(), err)
	}
	return s.mutate(ctx, opUpdate, func(ctx context.Context) error {
		affected, err := s.repo.Update(ctx, drink)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update drink")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "drink not in cart").
				WithDetails(map[string]any{"id": drink.ID})
		}
		return nil
	})
}

// Delete removes the line with drink's id. Deleting an absent id is a no-op.
func (s *service) Delete(ctx context.Context, drink *models.Drink) error {
	if drink == nil {
		return s.finish(ctx, opDelete, time.Now(), pkgerrors.New(pkgerrors.CodeValidation, "drink is required"))
	}
	return s.mutate(ctx, opDelete, func(ctx context.Context) error {
		if _, err := s.repo.Delete(ctx, drink.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete drink")
		}
		return nil
	})
}

// DeleteAll empties the cart.
func (s *service) DeleteAll(ctx context.Context) error {
	return s.mutate(ctx, opDeleteAll, func(ctx context.Context) error {
		if _, err := s.repo.DeleteAll(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
}

// AddToCart inserts drink when its id is absent, otherwise adds its quantity to the
// stored line. A zero quantity counts as one.
func (s *service) AddToCart(ctx context.Context, drink models.Drink) (*models.Drink, error) {
	if drink.Quantity == 0 {
		drink.Quantity = 1
	}
	if err := validateDrink(&drink); err != nil {
		return nil, s.finish(ctx, opAddToCart, time.Now(), err)
	}

	var result models.Drink
	err := s.mutate(ctx, opAddToCart, func(ctx context.Context) error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			existing, err := repo.FindByID(ctx, drink.ID)
			switch {
			case db.IsNotFound(err):
				if err := s.insertLocked(ctx, repo, &drink); err != nil {
					return err
				}
				result = drink
				return nil
			case err != nil:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load drink")
			}

			if existing.Quantity > maxQuantity-drink.Quantity {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid drink").
					WithDetails(map[string]string{"quantity": fmt.Sprintf("line would exceed %d", maxQuantity)})
			}
			existing.Quantity += drink.Quantity
			if _, err := repo.Update(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update drink quantity")
			}
			result = *existing
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Summary returns the cart contents with line, unit and price totals.
func (s *service) Summary(ctx context.Context) (Summary, error) {
	start := time.Now()
	rows, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, s.finish(ctx, opSummary, start, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drinks"))
	}
	s.metrics.ObserveOperation(opSummary, nil, time.Since(start))
	return summarize(rows), nil
}

func summarize(rows []models.Drink) Summary {
	sum := Summary{Items: rows, Lines: len(rows), Total: decimal.Zero}
	for _, row := range rows {
		sum.Units += row.Quantity
		sum.Total = sum.Total.Add(row.LineTotal())
	}
	return sum
}

// ObserveAll subscribes to cart snapshots. The current contents arrive first, then a
// new snapshot after every committed mutation, until ctx is done.
func (s *service) ObserveAll(ctx context.Context) (<-chan []models.Drink, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.hub.Primed() {
		rows, err := s.repo.List(ctx)
		if err != nil {
			return nil, s.finish(ctx, opObserveAll, time.Now(), pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drinks"))
		}
		s.hub.Publish(rows)
	}

	ch, err := s.hub.Subscribe(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart stream unavailable")
	}
	return ch, nil
}

// Refresh re-reads the table and publishes it, picking up writes made elsewhere.
func (s *service) Refresh(ctx context.Context) error {
	start := time.Now()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rows, err := s.repo.List(ctx)
	if err != nil {
		return s.finish(ctx, opRefresh, start, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drinks"))
	}
	s.hub.Publish(rows)
	s.metrics.ObserveOperation(opRefresh, nil, time.Since(start))
	return nil
}

// HandleRemoteChange refreshes subscribers when another instance announces a change.
func (s *service) HandleRemoteChange(ctx context.Context, payload string) {
	evt, err := DecodeChangeEvent(payload)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "ignoring malformed cart change event")
		return
	}
	if evt.Origin == s.origin {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"remote_op": evt.Op, "remote_origin": evt.Origin})
	if err := s.Refresh(ctx); err != nil {
		s.logg.Error(ctx, "refresh after remote change failed", err)
	}
}

// Close ends every live subscription.
func (s *service) Close() {
	s.hub.Close()
}

// mutate runs fn, then re-reads and publishes the committed contents while still
// holding the write lock. The re-read ignores caller cancellation: the write is durable.
func (s *service) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()

	s.writeMu.Lock()
	if err := fn(ctx); err != nil {
		s.writeMu.Unlock()
		return s.finish(ctx, op, start, err)
	}

	publishCtx := context.WithoutCancel(ctx)
	rows, err := s.repo.List(publishCtx)
	if err != nil {
		s.logg.Error(s.logg.WithOp(publishCtx, op), "re-reading cart after mutation failed", err)
		// the held snapshot predates this commit; make the next subscriber re-query
		s.hub.Invalidate()
	} else {
		s.hub.Publish(rows)
	}
	s.writeMu.Unlock()

	s.metrics.ObserveOperation(op, nil, time.Since(start))
	s.announce(publishCtx, op)
	return nil
}

// finish records a failed operation and logs it; expected client errors log at warn.
func (s *service) finish(ctx context.Context, op string, start time.Time, err error) error {
	s.metrics.ObserveOperation(op, err, time.Since(start))
	logCtx := s.logg.WithOp(ctx, op)
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeConflict:
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "cart operation rejected")
	default:
		if errors.Is(err, context.Canceled) {
			s.logg.Warn(logCtx, "cart operation cancelled")
			break
		}
		s.logg.Error(s.logg.WithField(logCtx, "error_dump", pkgerrors.Dump(err)), "cart operation failed", err)
	}
	return err
}

func (s *service) announce(ctx context.Context, op string) {
	if s.notifier == nil {
		return
	}
	payload, err := ChangeEvent{Op: enums.CartChangeOp(op), Origin: s.origin, At: time.Now().UTC()}.Encode()
	if err != nil {
		s.logg.Error(s.logg.WithOp(ctx, op), "encoding cart change event failed", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, announceTimeout)
	defer cancel()
	if _, err := s.notifier.Publish(ctx, s.channel, payload); err != nil {
		s.logg.Error(s.logg.WithOp(ctx, op), "publishing cart change event failed", err)
	}
}
