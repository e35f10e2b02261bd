package breaker

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// GORM 存储 (GORM Store)
// ========================================

// BreakerRecord 状态记录的数据库模型
// 乐观并发控制通过 version 列实现：更新语句带 WHERE version = ? 条件，
// 影响行数为 0 即判定冲突。
type BreakerRecord struct {
	ID            string    `gorm:"primaryKey;size:128"`
	Status        string    `gorm:"size:16;not null"`
	FailureCount  int       `gorm:"not null"`
	SuccessCount  int       `gorm:"not null"`
	NextAttemptAt int64     `gorm:"not null"` // 毫秒时间戳，0 表示未设置
	Version       int64     `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (BreakerRecord) TableName() string {
	return "breaker_records"
}

// AutoMigrate 创建或更新状态记录表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&BreakerRecord{}); err != nil {
		return xerrors.Wrap(err, "breaker: migrate breaker_records failed")
	}
	return nil
}

// gormStore 关系型数据库共享存储实现（非导出）
type gormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 GORM 共享存储
// 调用方需保证表结构已通过 AutoMigrate 创建。
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, id string) (Record, error) {
	var model BreakerRecord
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: db get %s: %v", id, err)
	}
	return fromModel(model), nil
}

func (s *gormStore) Create(ctx context.Context, id string, record Record) error {
	model := toModel(id, record)
	model.Version = 1

	err := s.db.WithContext(ctx).Create(&model).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrRecordExists
	}
	// 部分驱动不翻译唯一键冲突错误，按存在性二次判定
	var existing BreakerRecord
	if probe := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; probe == nil {
		return ErrRecordExists
	}
	return xerrors.Wrapf(ErrStoreUnavailable, "breaker: db create %s: %v", id, err)
}

func (s *gormStore) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, next Record) (int64, error) {
	newVersion := expectedVersion + 1
	result := s.db.WithContext(ctx).
		Model(&BreakerRecord{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"status":          next.Status.String(),
			"failure_count":   next.FailureCount,
			"success_count":   next.SuccessCount,
			"next_attempt_at": encodeTime(next.NextAttemptAt),
			"version":         newVersion,
		})
	if result.Error != nil {
		return 0, xerrors.Wrapf(ErrStoreUnavailable, "breaker: db cas %s: %v", id, result.Error)
	}
	if result.RowsAffected == 0 {
		var existing BreakerRecord
		err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRecordNotFound
		}
		return 0, ErrVersionConflict
	}
	return newVersion, nil
}

func toModel(id string, record Record) BreakerRecord {
	return BreakerRecord{
		ID:            id,
		Status:        record.Status.String(),
		FailureCount:  record.FailureCount,
		SuccessCount:  record.SuccessCount,
		NextAttemptAt: encodeTime(record.NextAttemptAt),
		Version:       record.Version,
	}
}

func fromModel(model BreakerRecord) Record {
	record := Record{
		Status:       parseStatus(model.Status),
		FailureCount: model.FailureCount,
		SuccessCount: model.SuccessCount,
		Version:      model.Version,
	}
	if model.NextAttemptAt > 0 {
		record.NextAttemptAt = time.UnixMilli(model.NextAttemptAt)
	}
	return record
}
