package connector

import (
	"context"
	"sync"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/metrics"
	"github.com/ceyewan/fuse/xerrors"
)

type etcdConnector struct {
	cfg     *EtcdConfig
	logger  clog.Logger
	meter   metrics.Meter
	healthy atomic.Bool

	mu     sync.RWMutex
	client *clientv3.Client

	connectAttempts metrics.Counter
	connectFailures metrics.Counter
}

// NewEtcd 创建 Etcd 连接器
// 注意：实际连接在调用 Connect() 时建立
func NewEtcd(cfg *EtcdConfig, opts ...Option) (EtcdConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "etcd config is nil")
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

	c := &etcdConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "etcd"), clog.String("name", cfg.Name)),
		meter:  opt.meter,
	}

	if c.meter != nil {
		var err error
		c.connectAttempts, err = c.meter.Counter(
			"connector_etcd_connect_attempts_total",
			"Total number of etcd connection attempts",
		)
		if err != nil {
			return nil, xerrors.Wrap(err, "create connect attempts counter")
		}
		c.connectFailures, err = c.meter.Counter(
			"connector_etcd_connect_failures_total",
			"Number of failed etcd connection attempts",
		)
		if err != nil {
			return nil, xerrors.Wrap(err, "create connect failures counter")
		}
	}

	return c, nil
}

// Connect 建立连接
func (c *etcdConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	if c.connectAttempts != nil {
		c.connectAttempts.Inc(ctx)
	}
	c.logger.Info("attempting to connect to etcd", clog.Any("endpoints", c.cfg.Endpoints))

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   c.cfg.Endpoints,
		Username:    c.cfg.Username,
		Password:    c.cfg.Password,
		DialTimeout: c.cfg.DialTimeout,
		Context:     ctx,
	})
	if err != nil {
		if c.connectFailures != nil {
			c.connectFailures.Inc(ctx)
		}
		c.logger.Error("failed to create etcd client", clog.Error(err))
		return xerrors.Wrapf(err, "etcd connector[%s]: connection failed", c.cfg.Name)
	}

	// 用 Status 验证端点可达
	statusCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()
	if _, err := client.Status(statusCtx, c.cfg.Endpoints[0]); err != nil {
		if c.connectFailures != nil {
			c.connectFailures.Inc(ctx)
		}
		_ = client.Close()
		c.logger.Error("etcd endpoint unreachable", clog.Error(err))
		return xerrors.Wrapf(err, "etcd connector[%s]: endpoint unreachable", c.cfg.Name)
	}

	c.client = client
	c.healthy.Store(true)
	c.logger.Info("successfully connected to etcd")
	return nil
}

// Close 关闭连接
func (c *etcdConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.client == nil {
		return nil
	}

	err := c.client.Close()
	c.client = nil
	if err != nil {
		c.logger.Error("failed to close etcd connection", clog.Error(err))
		return err
	}
	c.logger.Info("etcd connection closed")
	return nil
}

// HealthCheck 检查连接健康状态
func (c *etcdConnector) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return ErrNotConnected
	}
	if _, err := client.Status(ctx, c.cfg.Endpoints[0]); err != nil {
		c.healthy.Store(false)
		return xerrors.Wrap(ErrHealthCheck, err.Error())
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy 返回缓存的健康状态
func (c *etcdConnector) IsHealthy() bool {
	return c.healthy.Load()
}

// Name 返回连接实例名称
func (c *etcdConnector) Name() string {
	return c.cfg.Name
}

// GetClient 返回底层 Etcd 客户端
func (c *etcdConnector) GetClient() *clientv3.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}
