package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"binapp/internal/domain"
)

type CustomerReader interface {
	FindAll(ctx context.Context) ([]domain.Customer, error)
}

type LatestOrderReader interface {
	FindLatestOrderDate(ctx context.Context, customerID string) (*time.Time, error)
}

type PriorityStore interface {
	Upsert(ctx context.Context, entry domain.PriorityEntry) error
	FindAll(ctx context.Context) ([]domain.PriorityEntry, error)
	DeleteByCustomerIDs(ctx context.Context, customerIDs []string) error
}

// SyncService reconciles the derived priority collection against current
// customer and order state. One cycle works from a single snapshot: all
// customers and their latest order dates are read first, then the upsert and
// eviction sets are derived together, so a customer can never be flagged and
// evicted by the same pass racing against itself.
//
// Runs must not overlap; the scheduler serializes them. A multi-instance
// deployment needs an external lock around RunCycle, which is out of scope
// here.
type SyncService struct {
	customers   CustomerReader
	orders      LatestOrderReader
	store       PriorityStore
	logger      *zap.Logger
	fanout      int
	callTimeout time.Duration
	now         func() time.Time
}

func NewSyncService(customers CustomerReader, orders LatestOrderReader, store PriorityStore, fanout int, callTimeout time.Duration, logger *zap.Logger) *SyncService {
	if fanout <= 0 {
		fanout = 8
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &SyncService{
		customers:   customers,
		orders:      orders,
		store:       store,
		logger:      logger,
		fanout:      fanout,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

func (s *SyncService) readCustomers(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.customers.FindAll(ctx)
}

func (s *SyncService) readEntries(ctx context.Context) ([]domain.PriorityEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.store.FindAll(ctx)
}

func (s *SyncService) upsert(ctx context.Context, entry domain.PriorityEntry) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.store.Upsert(ctx, entry)
}

func (s *SyncService) evict(ctx context.Context, customerIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.store.DeleteByCustomerIDs(ctx, customerIDs)
}

type customerSnapshot struct {
	customer  domain.Customer
	lastOrder *time.Time
}

// RunCycle executes one full synchronization pass. Per-customer read errors
// are logged and that customer skipped; the cycle continues with the rest.
// Store-level write failures are logged and left for the next cycle, so
// convergence is at-least-once rather than strict.
func (s *SyncService) RunCycle(ctx context.Context) error {
	started := s.now()

	customers, err := s.readCustomers(ctx)
	if err != nil {
		return err
	}

	existing, err := s.readEntries(ctx)
	if err != nil {
		return err
	}

	snapshots, err := s.collectSnapshots(ctx, customers)
	if err != nil {
		return err
	}

	qualifying := make(map[string]domain.PriorityEntry, len(snapshots))
	for _, snap := range snapshots {
		entry, ok := s.evaluate(snap)
		if !ok {
			continue
		}
		qualifying[entry.CustomerID] = entry
	}

	existingByID := make(map[string]domain.PriorityEntry, len(existing))
	for _, e := range existing {
		existingByID[e.CustomerID] = e
	}

	upserts := 0
	for id, entry := range qualifying {
		if current, ok := existingByID[id]; ok && entryUnchanged(current, entry) {
			continue
		}
		if err := s.upsert(ctx, entry); err != nil {
			s.logger.Error("priority upsert failed",
				zap.String("customerId", id), zap.Error(err))
			continue
		}
		upserts++
	}

	var stale []string
	for id := range existingByID {
		if _, ok := qualifying[id]; !ok {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)

	if len(stale) > 0 {
		if err := s.evict(ctx, stale); err != nil {
			// Entries stay until the next successful cycle.
			s.logger.Error("priority eviction failed",
				zap.Int("staleCount", len(stale)), zap.Error(err))
		}
	}

	s.logger.Info("priority sync cycle complete",
		zap.Int("customers", len(customers)),
		zap.Int("qualifying", len(qualifying)),
		zap.Int("upserts", upserts),
		zap.Int("evicted", len(stale)),
		zap.Duration("elapsed", s.now().Sub(started)))
	return nil
}

// collectSnapshots fans out the per-customer latest-order lookups and waits
// for all of them before anything is decided. A failed lookup drops only that
// customer from the snapshot.
func (s *SyncService) collectSnapshots(ctx context.Context, customers []domain.Customer) ([]customerSnapshot, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)

	snapshots := make([]customerSnapshot, len(customers))
	valid := make([]bool, len(customers))

	for i, customer := range customers {
		i, customer := i, customer
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			lastOrder, err := s.orders.FindLatestOrderDate(callCtx, customer.ID)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("skipping customer in sync cycle",
					zap.String("customerId", customer.ID), zap.Error(err))
				return nil
			}
			snapshots[i] = customerSnapshot{customer: customer, lastOrder: lastOrder}
			valid[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := snapshots[:0]
	for i, snap := range snapshots {
		if valid[i] {
			out = append(out, snap)
		}
	}
	return out, nil
}

// evaluate classifies one snapshot. Customers with no orders or an
// unparseable frequency are not classifiable and never qualify.
func (s *SyncService) evaluate(snap customerSnapshot) (domain.PriorityEntry, bool) {
	if snap.lastOrder == nil {
		return domain.PriorityEntry{}, false
	}

	frequencyDays := snap.customer.FrequencyDays()
	daysSince := domain.DaysBetween(*snap.lastOrder, s.now())

	class, qualifies := domain.Classify(daysSince, frequencyDays)
	if !qualifies {
		return domain.PriorityEntry{}, false
	}

	return domain.PriorityEntry{
		CustomerID:         snap.customer.ID,
		DaysSinceLastOrder: daysSince,
		FrequencyDays:      frequencyDays,
		PriorityClass:      class,
		LastOrderDate:      *snap.lastOrder,
	}, true
}

// entryUnchanged compares the derived fields only; a second run over
// unchanged inputs must issue no writes.
func entryUnchanged(current, next domain.PriorityEntry) bool {
	return current.DaysSinceLastOrder == next.DaysSinceLastOrder &&
		current.FrequencyDays == next.FrequencyDays &&
		current.PriorityClass == next.PriorityClass &&
		current.LastOrderDate.Equal(next.LastOrderDate)
}
