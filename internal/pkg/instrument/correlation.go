package instrument

import "context"

type correlationKey struct{}

// SetCorrelationID returns ctx carrying id. Every log record written with
// that context gets a "_cID" attribute.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID returns the id stored by SetCorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
