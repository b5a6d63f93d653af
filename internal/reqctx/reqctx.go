// internal/reqctx/reqctx.go
package reqctx

import "context"

type key int

const (
	keyRequestID key = iota
	keyUserID
	keyRole
	keyUsername
	keyClientIP
	keyUserAgent
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

func GetUserID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(keyUserID).(int64)
	return v, ok
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, keyRole, role)
}

func GetRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRole).(string)
	return v, ok
}

func WithUsername(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyUsername, name)
}

func GetUsername(ctx context.Context) string {
	v, _ := ctx.Value(keyUsername).(string)
	return v
}

// WithClient сохраняет IP и User-Agent для журнала действий.
func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, ip)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

func GetClient(ctx context.Context) (ip, userAgent string) {
	ip, _ = ctx.Value(keyClientIP).(string)
	userAgent, _ = ctx.Value(keyUserAgent).(string)
	return ip, userAgent
}
