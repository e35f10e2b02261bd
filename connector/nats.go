package connector

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/xerrors"
)

type natsConnector struct {
	cfg     *NATSConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu   sync.RWMutex
	conn *nats.Conn
}

// NewNATS 创建 NATS 连接器
// 注意：实际连接在调用 Connect() 时建立
func NewNATS(cfg *NATSConfig, opts ...Option) (NATSConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "nats config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &natsConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "nats"), clog.String("name", cfg.Name)),
	}, nil
}

// Connect 建立连接
func (c *natsConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.conn.IsConnected() {
		return nil
	}

	c.logger.Info("attempting to connect to nats", clog.String("url", c.cfg.URL))

	conn, err := nats.Connect(c.cfg.URL,
		nats.Name(c.cfg.Name),
		nats.Timeout(c.cfg.Timeout),
	)
	if err != nil {
		c.logger.Error("failed to connect to nats", clog.Error(err))
		return xerrors.Wrapf(err, "nats connector[%s]: connection failed", c.cfg.Name)
	}

	c.conn = conn
	c.healthy.Store(true)
	c.logger.Info("successfully connected to nats")
	return nil
}

// Close 关闭连接
func (c *natsConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.conn == nil {
		return nil
	}

	c.conn.Close()
	c.conn = nil
	c.logger.Info("nats connection closed")
	return nil
}

// HealthCheck 检查连接健康状态
func (c *natsConnector) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}
	if !conn.IsConnected() {
		c.healthy.Store(false)
		return ErrHealthCheck
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy 返回缓存的健康状态
func (c *natsConnector) IsHealthy() bool {
	return c.healthy.Load()
}

// Name 返回连接实例名称
func (c *natsConnector) Name() string {
	return c.cfg.Name
}

// GetClient 返回底层 NATS 连接
func (c *natsConnector) GetClient() *nats.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}
