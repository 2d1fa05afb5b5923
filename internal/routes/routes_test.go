package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/naya-pay/naya_pay/internal/config"
	"github.com/naya-pay/naya_pay/internal/logging"
)

func devApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:          "NayaPay",
		AppEnv:           "test",
		Port:             "0",
		JWTSecret:        "test-access-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenTTL:   time.Minute,
		RefreshTokenTTL:  time.Hour,
		OTPTTL:           time.Minute,
		ResetTokenTTL:    time.Minute,
		SeedBalanceMinor: 1_250_050,
		IdempotencyTTL:   time.Minute,
	}
	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) (token string, walletID string) {
	t.Helper()
	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name":     "Test User",
		"email":    email,
		"phone":    "+923001234567",
		"password": "hunter2hunter2",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	token, _ = body["access_token"].(string)
	walletID, _ = body["wallet_id"].(string)
	if token == "" || walletID == "" {
		t.Fatalf("login response missing token or wallet: %v", body)
	}
	return token, walletID
}

func TestLoginWithWrongPasswordFails(t *testing.T) {
	app := devApp(t)
	registerAndLogin(t, app, "wrongpw@example.com")

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "wrongpw@example.com",
		"password": "not-the-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestWalletSeededAndExactArithmetic(t *testing.T) {
	app := devApp(t)
	token, _ := registerAndLogin(t, app, "arith@example.com")

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", token, nil)
	if status != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if body["balance"] != "12500.50" {
		t.Fatalf("expected seeded balance 12500.50, got %v", body["balance"])
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/add", token, fiber.Map{
		"amount":         "500",
		"payment_method": "card",
	})
	if status != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", status)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", token, nil)
	if status != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if body["balance"] != "13000.50" {
		t.Fatalf("expected exact balance 13000.50, got %v", body["balance"])
	}
}

func TestSendMoneyEndToEnd(t *testing.T) {
	app := devApp(t)
	senderToken, _ := registerAndLogin(t, app, "sender@example.com")
	_, recipientWallet := registerAndLogin(t, app, "recipient@example.com")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/payments/send", senderToken, fiber.Map{
		"to_wallet_id": recipientWallet,
		"amount":       "100.25",
		"description":  "chai",
	})
	if status != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d (%v)", status, body)
	}
	if body["status"] != "completed" {
		t.Fatalf("expected completed payment, got %v", body["status"])
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", senderToken, nil)
	if status != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if body["balance"] != "12400.25" {
		t.Fatalf("expected 12400.25 after send, got %v", body["balance"])
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/payments/history", senderToken, nil)
	if status != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", status)
	}
	history, _ := body["payments"].([]any)
	if len(history) != 1 {
		t.Fatalf("expected one payment in history, got %v", body)
	}
}

func TestInsufficientFundsIsCaught(t *testing.T) {
	app := devApp(t)
	senderToken, _ := registerAndLogin(t, app, "broke@example.com")
	_, recipientWallet := registerAndLogin(t, app, "rich@example.com")

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/payments/send", senderToken, fiber.Map{
		"to_wallet_id": recipientWallet,
		"amount":       "99999.99",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	// Balance unchanged after the failed attempt.
	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", senderToken, nil)
	if status != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if body["balance"] != "12500.50" {
		t.Fatalf("expected untouched balance, got %v", body["balance"])
	}
}

func TestGuardDeniesUnauthenticatedAndNonAdmin(t *testing.T) {
	app := devApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", status)
	}

	token, _ := registerAndLogin(t, app, "plain@example.com")
	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/admin/stats", token, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", status)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app := devApp(t)
	token, _ := registerAndLogin(t, app, "logout@example.com")

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/logout", token, nil)
	if status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}
	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestPrefsRoundTripWithFallback(t *testing.T) {
	app := devApp(t)
	token, _ := registerAndLogin(t, app, "prefs@example.com")

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/prefs/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("prefs get: expected 200, got %d", status)
	}
	if body["color_theme"] != "default" || body["ui_mode"] != "light" {
		t.Fatalf("expected defaults, got %v", body)
	}

	status, _ = doJSON(t, app, fiber.MethodPut, "/api/v1/prefs/", token, fiber.Map{
		"color_theme": "ocean",
		"ui_mode":     "dark",
	})
	if status != http.StatusOK {
		t.Fatalf("prefs update: expected 200, got %d", status)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/prefs/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("prefs get: expected 200, got %d", status)
	}
	if body["color_theme"] != "ocean" || body["ui_mode"] != "dark" {
		t.Fatalf("expected stored prefs, got %v", body)
	}

	status, _ = doJSON(t, app, fiber.MethodPut, "/api/v1/prefs/", token, fiber.Map{
		"color_theme": "lava",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown theme, got %d", status)
	}
}

func TestBillPaymentShowsUpInHistory(t *testing.T) {
	app := devApp(t)
	token, _ := registerAndLogin(t, app, "bills@example.com")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/bills/pay", token, fiber.Map{
		"category":    "electricity",
		"account_ref": "K-12345",
		"amount":      "420.00",
	})
	if status != http.StatusCreated {
		t.Fatalf("pay: expected 201, got %d (%v)", status, body)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/transactions", token, nil)
	if status != http.StatusOK {
		t.Fatalf("transactions: expected 200, got %d", status)
	}
	txs, _ := body["transactions"].([]any)
	if len(txs) == 0 {
		t.Fatal("expected transactions after bill payment")
	}
	first, _ := txs[0].(map[string]any)
	if first["kind"] != "bill" {
		t.Fatalf("expected bill entry first, got %v", first)
	}
}

func TestIdempotencyKeyIsScopedToTheSession(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	cfg := config.Config{
		AppName:          "NayaPay",
		AppEnv:           "test",
		Port:             "0",
		JWTSecret:        "test-access-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenTTL:   time.Minute,
		RefreshTokenTTL:  time.Hour,
		OTPTTL:           time.Minute,
		ResetTokenTTL:    time.Minute,
		SeedBalanceMinor: 1_250_050,
		IdempotencyTTL:   time.Minute,
	}
	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	aliceToken, _ := registerAndLogin(t, app, "alice.idem@example.com")
	bobToken, _ := registerAndLogin(t, app, "bob.idem@example.com")

	addFunds := func(token, amount string) int {
		payload, err := json.Marshal(fiber.Map{"amount": amount, "payment_method": "card"})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/wallet/add", bytes.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		req.Header.Set("Idempotency-Key", "topup-1")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if status := addFunds(aliceToken, "100"); status != http.StatusCreated {
		t.Fatalf("alice add: expected 201, got %d", status)
	}
	// Bob reuses Alice's key; his request must still run against his wallet.
	if status := addFunds(bobToken, "250.50"); status != http.StatusCreated {
		t.Fatalf("bob add: expected 201, got %d", status)
	}

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if body["balance"] != "12751.00" {
		t.Fatalf("expected bob's top-up applied, got %v", body["balance"])
	}

	// Repeating the key within one session replays instead of double-crediting.
	if status := addFunds(bobToken, "250.50"); status != http.StatusCreated {
		t.Fatalf("bob replay: expected stored 201, got %d", status)
	}
	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/wallet/balance", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if body["balance"] != "12751.00" {
		t.Fatalf("expected replay to leave balance unchanged, got %v", body["balance"])
	}
}

func TestHealthAndPing(t *testing.T) {
	app := devApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", status)
	}
	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/ping", "", nil)
	if status != http.StatusOK {
		t.Fatalf("ping: expected 200, got %d", status)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected ok, got %v", body)
	}
}
