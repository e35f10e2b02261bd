package breaker

import (
	"context"
	"sync"
)

// ========================================
// 内存存储 (Memory Store)
// ========================================

// memoryStore 进程内共享存储实现（非导出）
// 走与分布式后端完全相同的 CAS 协议，用于测试和单机部署。
type memoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]Record)}
}

func (s *memoryStore) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}

func (s *memoryStore) Create(ctx context.Context, id string, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		return ErrRecordExists
	}
	record.Version = 1
	s.records[id] = record
	return nil
}

func (s *memoryStore) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, next Record) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return 0, ErrRecordNotFound
	}
	if current.Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	next.Version = expectedVersion + 1
	s.records[id] = next
	return next.Version, nil
}
