package connector

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/xerrors"
)

type kafkaConnector struct {
	cfg     *KafkaConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu     sync.RWMutex
	client *kgo.Client
}

// NewKafka 创建 Kafka 连接器
// 注意：实际连接在调用 Connect() 时建立
func NewKafka(cfg *KafkaConfig, opts ...Option) (KafkaConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "kafka config is nil")
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

	return &kafkaConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "kafka"), clog.String("name", cfg.Name)),
	}, nil
}

// Connect 建立连接
func (c *kafkaConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	c.logger.Info("attempting to connect to kafka", clog.Any("seeds", c.cfg.Seed))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(c.cfg.Seed...),
		kgo.ClientID(c.cfg.ClientID),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		c.logger.Error("failed to create kafka client", clog.Error(err))
		return xerrors.Wrapf(err, "kafka connector[%s]: create client failed", c.cfg.Name)
	}

	// franz-go 的连接是异步的，通过 Ping 验证 seed 可达
	if err := client.Ping(ctx); err != nil {
		client.Close()
		c.logger.Error("failed to reach kafka seeds", clog.Error(err))
		return xerrors.Wrapf(err, "kafka connector[%s]: ping failed", c.cfg.Name)
	}

	c.client = client
	c.healthy.Store(true)
	c.logger.Info("successfully connected to kafka")
	return nil
}

// Close 关闭连接
func (c *kafkaConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.client == nil {
		return nil
	}

	c.client.Close()
	c.client = nil
	c.logger.Info("kafka connection closed")
	return nil
}

// HealthCheck 检查连接健康状态
func (c *kafkaConnector) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return ErrNotConnected
	}
	if err := client.Ping(ctx); err != nil {
		c.healthy.Store(false)
		return xerrors.Wrap(ErrHealthCheck, err.Error())
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy 返回缓存的健康状态
func (c *kafkaConnector) IsHealthy() bool {
	return c.healthy.Load()
}

// Name 返回连接实例名称
func (c *kafkaConnector) Name() string {
	return c.cfg.Name
}

// GetClient 返回底层 Kafka 客户端
func (c *kafkaConnector) GetClient() *kgo.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}
