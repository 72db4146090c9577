package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"binapp/internal/domain"
)

// notificationCountKey holds the last known flagged-customer count as a
// decimal string. Advisory only: every live read overwrites it, and absence
// reads as zero.
const notificationCountKey = "notificationCount"

type PriorityReader interface {
	FindAll(ctx context.Context) ([]domain.PriorityEntry, error)
	Count(ctx context.Context) (int, error)
}

// CountCache is the last-known-value store behind the notification badge.
type CountCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// NotificationService exposes the current size and contents of the priority
// collection to the UI badge and bulk-contact lists.
type NotificationService struct {
	store     PriorityReader
	customers CustomerReader
	cache     CountCache
	logger    *zap.Logger
}

func NewNotificationService(store PriorityReader, customers CustomerReader, cache CountCache, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		customers: customers,
		cache:     cache,
		logger:    logger,
	}
}

// Count returns the number of flagged customers. A live read is
// authoritative and refreshes the cache; if the store is unavailable the
// last cached value is served instead, never a negative count.
func (s *NotificationService) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Warn("live notification count unavailable, serving cached value", zap.Error(err))
		return s.cachedCount(ctx), nil
	}

	if cacheErr := s.cache.Set(ctx, notificationCountKey, strconv.Itoa(count)); cacheErr != nil {
		s.logger.Warn("caching notification count failed", zap.Error(cacheErr))
	}

	return count, nil
}

func (s *NotificationService) cachedCount(ctx context.Context) int {
	value, err := s.cache.Get(ctx, notificationCountKey)
	if err != nil {
		return 0
	}

	count, err := strconv.Atoi(value)
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// FlaggedCustomer pairs a priority entry with the contact fields the
// outbound-contact lists need.
type FlaggedCustomer struct {
	CustomerID         string
	Name               string
	Phone              string
	DaysSinceLastOrder int
	FrequencyDays      int
	PriorityClass      domain.PriorityClass
	LastOrderDate      time.Time
}

// List returns all flagged customers with contact details, most overdue
// first. Entries whose customer has since been deleted are skipped; the
// synchronizer evicts them on its next cycle.
func (s *NotificationService) List(ctx context.Context) ([]FlaggedCustomer, error) {
	entries, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	flagged := make([]FlaggedCustomer, 0, len(entries))
	for _, entry := range entries {
		customer, ok := byID[entry.CustomerID]
		if !ok {
			continue
		}
		flagged = append(flagged, FlaggedCustomer{
			CustomerID:         entry.CustomerID,
			Name:               customer.FullName(),
			Phone:              customer.Phone,
			DaysSinceLastOrder: entry.DaysSinceLastOrder,
			FrequencyDays:      entry.FrequencyDays,
			PriorityClass:      entry.PriorityClass,
			LastOrderDate:      entry.LastOrderDate,
		})
	}

	return flagged, nil
}

// RedisCountCache backs CountCache with Redis so the badge survives restarts
// before the first live read completes.
type RedisCountCache struct {
	client *redis.Client
}

func NewRedisCountCache(client *redis.Client) *RedisCountCache {
	return &RedisCountCache{client: client}
}

func (c *RedisCountCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *RedisCountCache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, key, value, 0).Err()
}
