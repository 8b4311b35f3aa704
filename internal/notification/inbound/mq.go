package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/goroutine"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/messaging"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/shared/event"
)

// RegisterMQConsumer starts the consumers named in
// modules.notification.consumer_names. An empty list starts all of them.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.concurrency")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // kafka consumer group, nats queue group
		handler messaging.Handler
	}{
		{
			name:    event.OTPDeliveryConsumerNotification,
			topic:   event.OTPDeliveryDestination,
			group:   event.OTPDeliveryConsumerNotification,
			handler: mqHandler.OTPDelivery,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && !slices.Contains(enableConsumerNames, consumer.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithGroup(consumer.group),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
			)
		})
	}
}
