// Package settings manages shop configuration stored as key/value rows.
// Reads go through the cache first, then the store, and missing keys are
// lazily persisted with their defaults so a fresh database self-populates.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dukapos/backend/internal/cache"
	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
)

const (
	KeyLowStockThreshold = "low_stock_threshold"
	KeyPaymentMethods    = "payment_methods"
	KeyCurrencySymbol    = "currency_symbol"
	KeyPasswordPolicy    = "password_policy"
	KeySignupEnabled     = "signup_enabled"
	KeySessionTimeout    = "session_timeout"
	KeyBusinessName      = "business_name"
	KeyBusinessAddress   = "business_address"
	KeyBusinessPhone     = "business_phone"
	KeyReceiptFooter     = "receipt_footer"
)

var defaults = map[string]string{
	KeyLowStockThreshold: "5",
	KeyPaymentMethods:    "Cash,Mpesa,Other",
	KeyCurrencySymbol:    "KES",
	KeyPasswordPolicy:    "8",
	KeySignupEnabled:     "yes",
	KeySessionTimeout:    "30",
	KeyBusinessName:      "My Duka",
	KeyBusinessAddress:   "",
	KeyBusinessPhone:     "",
	KeyReceiptFooter:     "Thank you for shopping with us!",
}

const cacheTTL = 5 * time.Minute

type Manager struct {
	repo  store.Repository
	cache cache.Cache
}

func NewManager(repo store.Repository, c cache.Cache) *Manager {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Manager{repo: repo, cache: c}
}

// Get resolves a known setting, falling back to its default and persisting
// that default when the row does not exist yet.
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	fallback, known := defaults[key]
	if !known {
		return "", fmt.Errorf("unknown setting %q: %w", key, store.ErrInvalidInput)
	}

	if cached, ok, err := m.cache.Get(ctx, cacheKey(key)); err == nil && ok {
		return cached, nil
	}

	setting, err := m.repo.GetSetting(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		if err := m.repo.UpsertSetting(ctx, domain.Setting{Key: key, Value: fallback}); err != nil {
			return "", err
		}
		setting = &domain.Setting{Key: key, Value: fallback}
	}

	_ = m.cache.Set(ctx, cacheKey(key), setting.Value, cacheTTL)
	return setting.Value, nil
}

// Update validates and persists a known key, then drops the cached copy.
func (m *Manager) Update(ctx context.Context, key, value string) error {
	if _, known := defaults[key]; !known {
		return fmt.Errorf("unknown setting %q: %w", key, store.ErrInvalidInput)
	}
	value = strings.TrimSpace(value)

	switch key {
	case KeyLowStockThreshold, KeySessionTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("setting %s must be a positive integer: %w", key, store.ErrInvalidInput)
		}
	case KeyPasswordPolicy:
		n, err := strconv.Atoi(value)
		if err != nil || n < 4 {
			return fmt.Errorf("setting %s must be an integer of at least 4: %w", key, store.ErrInvalidInput)
		}
	case KeySignupEnabled:
		if value != "yes" && value != "no" {
			return fmt.Errorf("setting %s must be yes or no: %w", key, store.ErrInvalidInput)
		}
	case KeyPaymentMethods:
		if len(splitList(value)) == 0 {
			return fmt.Errorf("setting %s needs at least one method: %w", key, store.ErrInvalidInput)
		}
	}

	if err := m.repo.UpsertSetting(ctx, domain.Setting{Key: key, Value: value}); err != nil {
		return err
	}
	_ = m.cache.Delete(ctx, cacheKey(key))
	return nil
}

// All returns every known setting, persisting defaults for missing rows.
func (m *Manager) All(ctx context.Context) ([]domain.Setting, error) {
	keys := []string{
		KeyLowStockThreshold, KeyPaymentMethods, KeyCurrencySymbol,
		KeyPasswordPolicy, KeySignupEnabled, KeySessionTimeout,
		KeyBusinessName, KeyBusinessAddress, KeyBusinessPhone, KeyReceiptFooter,
	}
	result := make([]domain.Setting, 0, len(keys))
	for _, key := range keys {
		value, err := m.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.Setting{Key: key, Value: value})
	}
	return result, nil
}

func (m *Manager) LowStockThreshold(ctx context.Context) (int, error) {
	return m.intSetting(ctx, KeyLowStockThreshold)
}

func (m *Manager) PasswordMinLength(ctx context.Context) (int, error) {
	return m.intSetting(ctx, KeyPasswordPolicy)
}

func (m *Manager) SessionTimeoutMinutes(ctx context.Context) (int, error) {
	return m.intSetting(ctx, KeySessionTimeout)
}

func (m *Manager) PaymentMethods(ctx context.Context) ([]string, error) {
	value, err := m.Get(ctx, KeyPaymentMethods)
	if err != nil {
		return nil, err
	}
	return splitList(value), nil
}

func (m *Manager) SignupEnabled(ctx context.Context) (bool, error) {
	value, err := m.Get(ctx, KeySignupEnabled)
	if err != nil {
		return false, err
	}
	return value == "yes", nil
}

func (m *Manager) intSetting(ctx context.Context, key string) (int, error) {
	value, err := m.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		// A corrupt row falls back to the shipped default.
		n, _ = strconv.Atoi(defaults[key])
	}
	return n, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		result = append(result, part)
	}
	return result
}

func cacheKey(key string) string {
	return "settings:" + key
}
