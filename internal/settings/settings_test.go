package settings

import (
	"context"
	"errors"
	"testing"

	"dukapos/backend/internal/store"
	"dukapos/backend/internal/store/memory"
)

func newTestManager() (*Manager, *memory.Store) {
	repo := memory.NewSeeded()
	return NewManager(repo, nil), repo
}

func TestGetPersistsDefaultOnFirstRead(t *testing.T) {
	mgr, repo := newTestManager()
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, KeyLowStockThreshold); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected setting absent before first read, got %v", err)
	}

	value, err := mgr.Get(ctx, KeyLowStockThreshold)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "5" {
		t.Fatalf("expected default threshold 5, got %q", value)
	}

	persisted, err := repo.GetSetting(ctx, KeyLowStockThreshold)
	if err != nil {
		t.Fatalf("default was not persisted: %v", err)
	}
	if persisted.Value != "5" {
		t.Fatalf("persisted value mismatch: %q", persisted.Value)
	}
}

func TestGetUnknownKeyRejected(t *testing.T) {
	mgr, _ := newTestManager()
	if _, err := mgr.Get(context.Background(), "nope"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	cases := []struct {
		key   string
		value string
		ok    bool
	}{
		{KeyLowStockThreshold, "10", true},
		{KeyLowStockThreshold, "0", false},
		{KeyLowStockThreshold, "abc", false},
		{KeySignupEnabled, "no", true},
		{KeySignupEnabled, "maybe", false},
		{KeyPasswordPolicy, "12", true},
		{KeyPasswordPolicy, "2", false},
		{KeyPaymentMethods, "Cash, Card", true},
		{KeyPaymentMethods, " , ", false},
		{"bogus", "x", false},
	}
	for _, tc := range cases {
		err := mgr.Update(ctx, tc.key, tc.value)
		if tc.ok && err != nil {
			t.Fatalf("update %s=%q should succeed, got %v", tc.key, tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("update %s=%q should fail", tc.key, tc.value)
		}
	}
}

func TestUpdateChangesTypedAccessor(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if err := mgr.Update(ctx, KeyLowStockThreshold, "12"); err != nil {
		t.Fatalf("update: %v", err)
	}
	threshold, err := mgr.LowStockThreshold(ctx)
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if threshold != 12 {
		t.Fatalf("expected threshold 12, got %d", threshold)
	}
}

func TestPaymentMethodsSplit(t *testing.T) {
	mgr, _ := newTestManager()
	methods, err := mgr.PaymentMethods(context.Background())
	if err != nil {
		t.Fatalf("payment methods: %v", err)
	}
	if len(methods) != 3 || methods[0] != "Cash" || methods[1] != "Mpesa" {
		t.Fatalf("unexpected methods: %v", methods)
	}
}

func TestAllReturnsEveryKey(t *testing.T) {
	mgr, _ := newTestManager()
	all, err := mgr.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected 10 settings, got %d", len(all))
	}
}

func TestSignupEnabledToggle(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	enabled, err := mgr.SignupEnabled(ctx)
	if err != nil || !enabled {
		t.Fatalf("expected signup enabled by default, got %v %v", enabled, err)
	}
	if err := mgr.Update(ctx, KeySignupEnabled, "no"); err != nil {
		t.Fatalf("update: %v", err)
	}
	enabled, err = mgr.SignupEnabled(ctx)
	if err != nil || enabled {
		t.Fatalf("expected signup disabled, got %v %v", enabled, err)
	}
}
