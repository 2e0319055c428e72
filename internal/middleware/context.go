package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	accountIDKey contextKey = "account_id"
	requestIDKey contextKey = "request_id"
	slotKey      contextKey = "request_slot"
)

// requestSlot carries values set by inner handlers back out to middleware
// that wraps them, such as Logging.
type requestSlot struct {
	accountID string
}

func withSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, slotKey, &requestSlot{})
}

func SetAccountID(ctx context.Context, accountID string) context.Context {
	if slot, ok := ctx.Value(slotKey).(*requestSlot); ok {
		slot.accountID = accountID
	}
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetAccountID returns the authenticated account id. Outer middleware sees
// the id set further down the chain through the request slot.
func GetAccountID(r *http.Request) string {
	if v, ok := r.Context().Value(accountIDKey).(string); ok {
		return v
	}
	if slot, ok := r.Context().Value(slotKey).(*requestSlot); ok {
		return slot.accountID
	}
	return ""
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom returns the request id stored by the RequestID middleware.
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
