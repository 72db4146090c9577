package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"binapp/internal/domain"
)

// recentOrderWindow caps how much history feeds the estimate. Older orders
// predate route changes and seasonal pricing and only add noise.
const recentOrderWindow = 5

type OrderReader interface {
	FindRecentByCustomerID(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
}

type FrequencyWriter interface {
	UpdateFrequency(ctx context.Context, id string, frequency string) error
}

// FrequencyService estimates a customer's expected reorder interval from
// their order history and writes it back to the customer record.
type FrequencyService struct {
	orders    OrderReader
	customers FrequencyWriter
	logger    *zap.Logger
}

func NewFrequencyService(orders OrderReader, customers FrequencyWriter, logger *zap.Logger) *FrequencyService {
	return &FrequencyService{
		orders:    orders,
		customers: customers,
		logger:    logger,
	}
}

// Recompute derives the expected interval as the mean of consecutive
// day-gaps across the customer's most recent unique order dates and stores
// it on the customer. With fewer than two unique dates there is nothing to
// derive and the stored frequency is left untouched.
//
// Errors are reported to the caller but order submission treats this as
// best-effort; see RecomputeAsync.
func (s *FrequencyService) Recompute(ctx context.Context, customerID string) error {
	orders, err := s.orders.FindRecentByCustomerID(ctx, customerID, recentOrderWindow)
	if err != nil {
		return err
	}

	dates := uniqueDatesDescending(orders)
	if len(dates) < 2 {
		s.logger.Debug("insufficient order history for frequency estimate",
			zap.String("customerId", customerID), zap.Int("uniqueDates", len(dates)))
		return nil
	}

	gaps := dayGaps(dates)
	mean := meanDays(gaps)

	// Median is tracked alongside the mean but the mean is the canonical
	// signal; see medianDays.
	frequency := strconv.Itoa(int(mean + 0.5))

	if err := s.customers.UpdateFrequency(ctx, customerID, frequency); err != nil {
		return err
	}

	s.logger.Info("customer frequency recomputed",
		zap.String("customerId", customerID),
		zap.String("frequency", frequency),
		zap.Int("gapCount", len(gaps)))
	return nil
}

// RecomputeAsync runs Recompute and swallows any failure. Frequency
// recomputation must never block or fail order creation.
func (s *FrequencyService) RecomputeAsync(ctx context.Context, customerID string) {
	if err := s.Recompute(ctx, customerID); err != nil {
		s.logger.Warn("frequency recompute failed",
			zap.String("customerId", customerID), zap.Error(err))
	}
}

func uniqueDatesDescending(orders []domain.Order) []time.Time {
	seen := make(map[time.Time]bool, len(orders))
	var dates []time.Time
	for _, order := range orders {
		day := time.Date(order.OrderDate.Year(), order.OrderDate.Month(), order.OrderDate.Day(),
			0, 0, 0, 0, time.UTC)
		if !seen[day] {
			seen[day] = true
			dates = append(dates, day)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

func dayGaps(datesDescending []time.Time) []int {
	gaps := make([]int, 0, len(datesDescending)-1)
	for i := 0; i < len(datesDescending)-1; i++ {
		gaps = append(gaps, domain.DaysBetween(datesDescending[i+1], datesDescending[i]))
	}
	return gaps
}

func meanDays(gaps []int) float64 {
	if len(gaps) == 0 {
		return 0
	}
	sum := 0
	for _, g := range gaps {
		sum += g
	}
	return float64(sum) / float64(len(gaps))
}

// medianDays is computed for parity with the reporting views but is not the
// canonical frequency signal. Kept in case product intent shifts toward a
// median-based estimate for customers with irregular ordering.
func medianDays(gaps []int) float64 {
	if len(gaps) == 0 {
		return 0
	}
	sorted := make([]int, len(gaps))
	copy(sorted, gaps)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}
