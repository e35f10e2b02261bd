package events

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/connector"
	"github.com/ceyewan/fuse/xerrors"
)

// kafkaBus Kafka 驱动实现（非导出）
type kafkaBus struct {
	conn     connector.KafkaConnector
	topic    string
	instance string
	logger   clog.Logger
}

func (b *kafkaBus) Publish(ctx context.Context, event *Event) error {
	data, err := stamp(event, b.instance)
	if err != nil {
		return err
	}

	client := b.conn.GetClient()
	if client == nil {
		return ErrNotConnected
	}

	// 以 BreakerID 作为分区键，同一熔断器的事件保持有序
	record := &kgo.Record{
		Topic: b.topic,
		Key:   []byte(event.BreakerID),
		Value: data,
	}

	if err := client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return xerrors.Wrapf(err, "events: produce to topic %s failed", b.topic)
	}

	b.logger.Debug("transition event published",
		clog.String("breaker_id", event.BreakerID),
		clog.String("from", event.From),
		clog.String("to", event.To))
	return nil
}

func (b *kafkaBus) Close() error {
	// 连接由 Connector 管理，这里无需关闭
	return nil
}
