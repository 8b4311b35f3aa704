package blob

import (
	"context"
	"io"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/storage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Blob struct {
	client storage.Storage
	ins    instrument.Instrumentation
}

func New(client storage.Storage, ins instrument.Instrumentation) *Blob {
	return &Blob{client: client, ins: ins}
}

func (b *Blob) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	ctx, span := b.startSpan(ctx, "Put")
	defer span.End()

	_, err := b.client.Put(ctx, key, r, storage.PutOptions{Size: size, ContentType: contentType})
	b.endSpan(span, err)
	return err
}

func (b *Blob) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ctx, span := b.startSpan(ctx, "PresignGet")
	defer span.End()

	url, err := b.client.PresignGet(ctx, key, expiry)
	b.endSpan(span, err)
	return url, err
}

func (b *Blob) Delete(ctx context.Context, key string) error {
	ctx, span := b.startSpan(ctx, "Delete")
	defer span.End()

	err := b.client.Delete(ctx, key)
	b.endSpan(span, err)
	return err
}

func (b *Blob) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return b.ins.Tracer("diagnosis.outbound.blob").Start(ctx, name)
}

func (b *Blob) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
