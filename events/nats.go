package events

import (
	"context"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/connector"
	"github.com/ceyewan/fuse/xerrors"
)

// natsBus NATS 驱动实现（非导出）
type natsBus struct {
	conn     connector.NATSConnector
	subject  string
	instance string
	logger   clog.Logger
}

func (b *natsBus) Publish(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := stamp(event, b.instance)
	if err != nil {
		return err
	}

	nc := b.conn.GetClient()
	if nc == nil {
		return ErrNotConnected
	}

	if err := nc.Publish(b.subject, data); err != nil {
		return xerrors.Wrapf(err, "events: publish to subject %s failed", b.subject)
	}

	b.logger.Debug("transition event published",
		clog.String("breaker_id", event.BreakerID),
		clog.String("from", event.From),
		clog.String("to", event.To))
	return nil
}

func (b *natsBus) Close() error {
	// 连接由 Connector 管理，这里无需关闭
	return nil
}
