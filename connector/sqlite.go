package connector

import (
	"context"
	"sync"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/xerrors"
)

type sqliteConnector struct {
	cfg     *SQLiteConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu sync.RWMutex
	db *gorm.DB
}

// NewSQLite 创建 SQLite 连接器
// 注意：实际连接在调用 Connect() 时建立
func NewSQLite(cfg *SQLiteConfig, opts ...Option) (SQLiteConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "sqlite config is nil")
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

	return &sqliteConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "sqlite"), clog.String("name", cfg.Name)),
	}, nil
}

// Connect 建立连接
func (c *sqliteConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	c.logger.Info("attempting to open sqlite", clog.String("path", c.cfg.Path))

	db, err := gorm.Open(sqlite.Open(c.cfg.Path), &gorm.Config{})
	if err != nil {
		c.logger.Error("failed to open sqlite", clog.Error(err))
		return xerrors.Wrapf(err, "sqlite connector[%s]: open failed", c.cfg.Name)
	}

	c.db = db
	c.healthy.Store(true)
	c.logger.Info("sqlite opened")
	return nil
}

// Close 关闭连接
func (c *sqliteConnector) Close() error {
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
	return sqlDB.Close()
}

// HealthCheck 检查连接健康状态
func (c *sqliteConnector) HealthCheck(ctx context.Context) error {
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
func (c *sqliteConnector) IsHealthy() bool {
	return c.healthy.Load()
}

// Name 返回连接实例名称
func (c *sqliteConnector) Name() string {
	return c.cfg.Name
}

// GetClient 返回底层 GORM 实例
func (c *sqliteConnector) GetClient() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
