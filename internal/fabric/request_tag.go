package fabric

import "context"

// tagCtxKey is an unexported key type for storing a request tag in context.
type tagCtxKey struct{}

// RequestTag identifies the UI request an HTTP exchange belongs to. The
// transport copies it into logs and the X-Request-ID header.
type RequestTag struct {
	Seq  uint64
	Term string
}

// WithRequestTag attaches tag to ctx.
func WithRequestTag(ctx context.Context, tag RequestTag) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, tagCtxKey{}, tag)
}

// requestTag fetches the tag from context if present.
func requestTag(ctx context.Context) (RequestTag, bool) {
	if ctx == nil {
		return RequestTag{}, false
	}
	tag, ok := ctx.Value(tagCtxKey{}).(RequestTag)
	return tag, ok
}
