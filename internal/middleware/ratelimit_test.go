package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newLimitedApp(m *LimiterManager) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/analyze", m.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestNewLimiterManager_DisabledWhenZero(t *testing.T) {
	if m := NewLimiterManager(0, 5); m != nil {
		t.Fatal("expected nil manager for a zero rate")
	}

	var m *LimiterManager
	app := newLimitedApp(m)
	for i := 0; i < 20; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/analyze", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: status %d", i, resp.StatusCode)
		}
	}
	m.Close()
}

func TestLimiterManager_RejectsOverBurst(t *testing.T) {
	m := NewLimiterManager(1, 2)
	defer m.Close()

	app := newLimitedApp(m)
	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/analyze", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		statuses = append(statuses, resp.StatusCode)
	}

	want := []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("request %d: status %d, want %d", i, statuses[i], want[i])
		}
	}
}

func TestLimiterManager_PerKeyBuckets(t *testing.T) {
	m := NewLimiterManager(1, 1)
	defer m.Close()

	if !m.Allow("ip:10.0.0.1") {
		t.Fatal("first request from 10.0.0.1 should pass")
	}
	if m.Allow("ip:10.0.0.1") {
		t.Error("second request from 10.0.0.1 should be limited")
	}
	if !m.Allow("ip:10.0.0.2") {
		t.Error("another client must have its own bucket")
	}
	if got := m.ActiveLimiters(); got != 2 {
		t.Errorf("ActiveLimiters() = %d, want 2", got)
	}

	m.cleanup(0)
	if got := m.ActiveLimiters(); got != 0 {
		t.Errorf("after cleanup ActiveLimiters() = %d, want 0", got)
	}
}
