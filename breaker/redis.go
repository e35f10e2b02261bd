package breaker

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/fuse/connector"
	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// Redis 存储 (Redis Store)
// ========================================

// 状态记录以 Redis Hash 存储，字段为 status / failure_count /
// success_count / next_attempt_at（毫秒时间戳，0 表示未设置）/ version。
// Create 与 CAS 通过 Lua 脚本保证原子性。

// createScript 原子创建：键已存在时返回 0
var createScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
    return 0
end
redis.call("HSET", KEYS[1],
    "status", ARGV[1],
    "failure_count", ARGV[2],
    "success_count", ARGV[3],
    "next_attempt_at", ARGV[4],
    "version", 1)
return 1
`)

// casScript 原子比较版本并写入：
// 返回 -1 表示记录不存在，0 表示版本冲突，>0 表示新版本号
var casScript = redis.NewScript(`
local version = redis.call("HGET", KEYS[1], "version")
if not version then
    return -1
end
if version ~= ARGV[1] then
    return 0
end
local next = tonumber(ARGV[1]) + 1
redis.call("HSET", KEYS[1],
    "status", ARGV[2],
    "failure_count", ARGV[3],
    "success_count", ARGV[4],
    "next_attempt_at", ARGV[5],
    "version", next)
return next
`)

// redisStore Redis 共享存储实现（非导出）
type redisStore struct {
	conn   connector.RedisConnector
	prefix string
}

// NewRedisStore 创建 Redis 共享存储
func NewRedisStore(conn connector.RedisConnector, prefix string) Store {
	return &redisStore{conn: conn, prefix: prefix}
}

func (s *redisStore) key(id string) string {
	return s.prefix + id
}

func (s *redisStore) client() (*redis.Client, error) {
	client := s.conn.GetClient()
	if client == nil {
		return nil, xerrors.Wrap(ErrStoreUnavailable, "breaker: redis connector not connected")
	}
	return client, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Record, error) {
	client, err := s.client()
	if err != nil {
		return Record{}, err
	}

	fields, err := client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: redis get %s: %v", id, err)
	}
	if len(fields) == 0 {
		return Record{}, ErrRecordNotFound
	}
	return decodeHash(fields)
}

func (s *redisStore) Create(ctx context.Context, id string, record Record) error {
	client, err := s.client()
	if err != nil {
		return err
	}

	created, err := createScript.Run(ctx, client,
		[]string{s.key(id)},
		record.Status.String(),
		record.FailureCount,
		record.SuccessCount,
		encodeTime(record.NextAttemptAt),
	).Int64()
	if err != nil {
		return xerrors.Wrapf(ErrStoreUnavailable, "breaker: redis create %s: %v", id, err)
	}
	if created == 0 {
		return ErrRecordExists
	}
	return nil
}

func (s *redisStore) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, next Record) (int64, error) {
	client, err := s.client()
	if err != nil {
		return 0, err
	}

	result, err := casScript.Run(ctx, client,
		[]string{s.key(id)},
		expectedVersion,
		next.Status.String(),
		next.FailureCount,
		next.SuccessCount,
		encodeTime(next.NextAttemptAt),
	).Int64()
	if err != nil {
		return 0, xerrors.Wrapf(ErrStoreUnavailable, "breaker: redis cas %s: %v", id, err)
	}
	switch result {
	case -1:
		return 0, ErrRecordNotFound
	case 0:
		return 0, ErrVersionConflict
	default:
		return result, nil
	}
}

// encodeTime 将时间编码为毫秒时间戳，零值编码为 0
func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// decodeHash 将 Redis Hash 字段解码为状态记录
func decodeHash(fields map[string]string) (Record, error) {
	record := Record{Status: parseStatus(fields["status"])}

	var err error
	if record.FailureCount, err = strconv.Atoi(fields["failure_count"]); err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: corrupt failure_count %q", fields["failure_count"])
	}
	if record.SuccessCount, err = strconv.Atoi(fields["success_count"]); err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: corrupt success_count %q", fields["success_count"])
	}
	millis, err := strconv.ParseInt(fields["next_attempt_at"], 10, 64)
	if err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: corrupt next_attempt_at %q", fields["next_attempt_at"])
	}
	if millis > 0 {
		record.NextAttemptAt = time.UnixMilli(millis)
	}
	if record.Version, err = strconv.ParseInt(fields["version"], 10, 64); err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: corrupt version %q", fields["version"])
	}
	return record, nil
}
