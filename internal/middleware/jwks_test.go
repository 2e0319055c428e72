package middleware_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jaekwang-park/todo-items/internal/middleware"
)

// generateTestJWKS returns a JWKS document with one RSA key and its private half.
func generateTestJWKS(t *testing.T, kid string) ([]byte, *rsa.PrivateKey) {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	data, err := json.Marshal(jwksDocument(kid, privKey))
	if err != nil {
		t.Fatalf("failed to marshal JWKS: %v", err)
	}
	return data, privKey
}

func jwksDocument(kid string, privKey *rsa.PrivateKey) map[string]any {
	return map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(privKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(privKey.E)).Bytes()),
			},
			{"kty": "EC", "kid": "ignored"},
		},
	}
}

// countingServer serves data and counts fetches.
func countingServer(t *testing.T, data []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestJWKSClient_FetchKey(t *testing.T) {
	jwksData, privKey := generateTestJWKS(t, "test-kid-1")
	srv, _ := countingServer(t, jwksData)

	client := middleware.NewJWKSClient(srv.URL)

	pubKey, err := client.GetKey(context.Background(), "test-kid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pubKey.N.Cmp(privKey.N) != 0 || pubKey.E != privKey.E {
		t.Error("public key does not match private key")
	}

	if _, err := client.GetKey(context.Background(), "ignored"); err == nil {
		t.Error("expected non-RSA key to be skipped")
	}
}

func TestJWKSClient_CachesKeys(t *testing.T) {
	jwksData, _ := generateTestJWKS(t, "cached-kid")
	srv, calls := countingServer(t, jwksData)

	client := middleware.NewJWKSClient(srv.URL)

	for range 3 {
		if _, err := client.GetKey(context.Background(), "cached-kid"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch call, got %d", got)
	}
}

func TestJWKSClient_ConcurrentMissesFetchOnce(t *testing.T) {
	jwksData, _ := generateTestJWKS(t, "kid-1")
	srv, calls := countingServer(t, jwksData)

	client := middleware.NewJWKSClient(srv.URL)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.GetKey(context.Background(), "kid-1"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch call, got %d", got)
	}
}

func TestJWKSClient_RateLimitRefreshOnMissingKid(t *testing.T) {
	jwksData, _ := generateTestJWKS(t, "kid-v1")
	srv, calls := countingServer(t, jwksData)

	client := middleware.NewJWKSClient(srv.URL)

	_, _ = client.GetKey(context.Background(), "kid-v1")

	if _, err := client.GetKey(context.Background(), "kid-v2"); err == nil {
		t.Fatal("expected error for missing kid")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch call (rate limited), got %d", got)
	}

	// With no interval every miss refetches.
	client = middleware.NewJWKSClient(srv.URL).WithRefreshInterval(0)
	_, _ = client.GetKey(context.Background(), "kid-v1")
	_, _ = client.GetKey(context.Background(), "kid-v2")
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 fetch calls in total, got %d", got)
	}
}

func TestJWKSClient_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := middleware.NewJWKSClient(server.URL)

	if _, err := client.GetKey(context.Background(), "any-kid"); err == nil {
		t.Fatal("expected error on server error, got nil")
	}
}
