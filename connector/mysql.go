package connector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/xerrors"
)

type mysqlConnector struct {
	cfg     *MySQLConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu sync.RWMutex
	db *gorm.DB
}

// NewMySQL 创建 MySQL 连接器
// 注意：实际连接在调用 Connect() 时建立
func NewMySQL(cfg *MySQLConfig, opts ...Option) (MySQLConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "mysql config is nil")
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

	return &mysqlConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "mysql"), clog.String("name", cfg.Name)),
	}, nil
}

func (c *mysqlConnector) dsn() string {
	if c.cfg.DSN != "" {
		return c.cfg.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.cfg.Username, c.cfg.Password, c.cfg.Host, c.cfg.Port, c.cfg.Database, c.cfg.Charset)
}

// Connect 建立连接
func (c *mysqlConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	c.logger.Info("attempting to connect to mysql",
		clog.String("host", c.cfg.Host),
		clog.Int("port", c.cfg.Port))

	db, err := gorm.Open(mysql.Open(c.dsn()), &gorm.Config{})
	if err != nil {
		c.logger.Error("failed to open mysql", clog.Error(err))
		return xerrors.Wrapf(err, "mysql connector[%s]: connection failed", c.cfg.Name)
	}

	if c.cfg.EnableTracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			return xerrors.Wrap(err, "mysql connector: failed to install otelgorm plugin")
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return xerrors.Wrapf(err, "mysql connector[%s]: failed to get db instance", c.cfg.Name)
	}
	sqlDB.SetMaxIdleConns(c.cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		c.logger.Error("failed to ping mysql", clog.Error(err))
		return xerrors.Wrapf(err, "mysql connector[%s]: ping failed", c.cfg.Name)
	}

	c.db = db
	c.healthy.Store(true)
	c.logger.Info("successfully connected to mysql")
	return nil
}

// Close 关闭连接
func (c *mysqlConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.db == nil {
		return nil
	}

	sqlDB, err := c.db.DB()
	c.db = nil
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		c.logger.Error("failed to close mysql connection", clog.Error(err))
		return err
	}
	c.logger.Info("mysql connection closed")
	return nil
}

// HealthCheck 检查连接健康状态
func (c *mysqlConnector) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()

	if db == nil {
		return ErrNotConnected
	}
	sqlDB, err := db.DB()
	if err != nil {
		c.healthy.Store(false)
		return xerrors.Wrap(ErrHealthCheck, err.Error())
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		c.healthy.Store(false)
		return xerrors.Wrap(ErrHealthCheck, err.Error())
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy 返回缓存的健康状态
func (c *mysqlConnector) IsHealthy() bool {
	return c.healthy.Load()
}

// Name 返回连接实例名称
func (c *mysqlConnector) Name() string {
	return c.cfg.Name
}

// GetClient 返回底层 GORM 实例
func (c *mysqlConnector) GetClient() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
