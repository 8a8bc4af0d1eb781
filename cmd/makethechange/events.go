package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	"github.com/davicafu/makethechange/internal/config"
	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	infraEvents "github.com/davicafu/makethechange/internal/shared/infra/events"
	sharedBus "github.com/davicafu/makethechange/internal/shared/infra/platform/bus"
)

const consumerGroup = "makethechange-catalogs"

// catalogTopics son los topics a los que publica el relayer.
var catalogTopics = []string{
	productDomain.ProductTopic,
	projectDomain.ProjectTopic,
	investmentDomain.InvestmentTopic,
	blogDomain.PostTopic,
}

// startEventBus crea el publisher del relayer según cfg.EventBus y engancha
// handler a lo que se publique. Devuelve una función de cierre.
func startEventBus(ctx context.Context, cfg *config.Config, handler infraEvents.MessageHandler, log *zap.Logger) (sharedBus.EventBus, func(), error) {
	switch cfg.EventBus {
	case config.BusKafka:
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		if err := ensureKafkaTopics(cfg.KafkaBrokers[0], catalogTopics); err != nil {
			log.Warn("⚠️ No se pudieron crear los topics de Kafka", zap.Error(err))
		}

		// Sin topic fijo: cada mensaje va al topic de su evento.
		writer := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		closers := []func(){func() { _ = writer.Close() }}

		for _, topic := range catalogTopics {
			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  cfg.KafkaBrokers,
				Topic:    topic,
				GroupID:  consumerGroup,
				MinBytes: 10e3, // 10KB
				MaxBytes: 10e6, // 10MB
			})
			closers = append(closers, func() { _ = reader.Close() })
			infraEvents.NewConsumerAdapter(reader, handler, log).Start(ctx)
		}
		return infraEvents.NewKafkaPublisher(writer, log), closeAll(closers), nil

	case config.BusNATS:
		log.Info("🚀 Usando NATS como bus de eventos", zap.String("url", cfg.NATSURL))
		publisher, err := infraEvents.NewNATSPublisher(cfg.NATSURL, cfg.NATSPrefix, log)
		if err != nil {
			return nil, nil, err
		}
		unsubscribe, err := publisher.Subscribe(infraEvents.Subject(cfg.NATSPrefix, ">"), handler)
		if err != nil {
			_ = publisher.Close()
			return nil, nil, err
		}
		return publisher, func() {
			_ = unsubscribe()
			_ = publisher.Close()
		}, nil

	default:
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")
		bus := infraEvents.NewInMemoryEventBus("catalogs")
		infraEvents.Consume(ctx, bus.Subscribe(100), handler)
		return bus, func() {}, nil
	}
}

// ensureKafkaTopics crea los topics en el controlador del clúster si no existen.
func ensureKafkaTopics(broker string, topics []string) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("dialing kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("finding kafka controller: %w", err)
	}
	ctrl, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dialing kafka controller: %w", err)
	}
	defer ctrl.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{Topic: t, NumPartitions: 3, ReplicationFactor: 1})
	}
	return ctrl.CreateTopics(configs...)
}

func closeAll(closers []func()) func() {
	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
