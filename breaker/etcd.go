package breaker

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/ceyewan/fuse/connector"
	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// Etcd 存储 (Etcd Store)
// ========================================

// 状态记录以 msgpack 编码存储，版本号直接复用 Etcd 的 ModRevision：
// 每次写入由 Etcd 分配全局递增的修订号，CAS 通过 Txn 比较 ModRevision
// 完成，无需在值里维护额外的版本字段。

// etcdRecord 状态记录的 msgpack 线格式（非导出）
type etcdRecord struct {
	Status        string    `msgpack:"status"`
	FailureCount  int       `msgpack:"failure_count"`
	SuccessCount  int       `msgpack:"success_count"`
	NextAttemptAt time.Time `msgpack:"next_attempt_at"`
}

// etcdStore Etcd 共享存储实现（非导出）
type etcdStore struct {
	conn   connector.EtcdConnector
	prefix string
}

// NewEtcdStore 创建 Etcd 共享存储
func NewEtcdStore(conn connector.EtcdConnector, prefix string) Store {
	return &etcdStore{conn: conn, prefix: prefix}
}

func (s *etcdStore) key(id string) string {
	return s.prefix + id
}

func (s *etcdStore) client() (*clientv3.Client, error) {
	client := s.conn.GetClient()
	if client == nil {
		return nil, xerrors.Wrap(ErrStoreUnavailable, "breaker: etcd connector not connected")
	}
	return client, nil
}

func (s *etcdStore) Get(ctx context.Context, id string) (Record, error) {
	client, err := s.client()
	if err != nil {
		return Record{}, err
	}

	resp, err := client.Get(ctx, s.key(id))
	if err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: etcd get %s: %v", id, err)
	}
	if len(resp.Kvs) == 0 {
		return Record{}, ErrRecordNotFound
	}

	kv := resp.Kvs[0]
	record, err := decodeValue(kv.Value)
	if err != nil {
		return Record{}, err
	}
	record.Version = kv.ModRevision
	return record, nil
}

func (s *etcdStore) Create(ctx context.Context, id string, record Record) error {
	client, err := s.client()
	if err != nil {
		return err
	}

	value, err := encodeValue(record)
	if err != nil {
		return err
	}

	key := s.key(id)
	resp, err := client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, string(value))).
		Commit()
	if err != nil {
		return xerrors.Wrapf(ErrStoreUnavailable, "breaker: etcd create %s: %v", id, err)
	}
	if !resp.Succeeded {
		return ErrRecordExists
	}
	return nil
}

func (s *etcdStore) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, next Record) (int64, error) {
	client, err := s.client()
	if err != nil {
		return 0, err
	}

	value, err := encodeValue(next)
	if err != nil {
		return 0, err
	}

	key := s.key(id)
	resp, err := client.Txn(ctx).
		If(clientv3.Compare(clientv3.ModRevision(key), "=", expectedVersion)).
		Then(clientv3.OpPut(key, string(value))).
		Else(clientv3.OpGet(key, clientv3.WithCountOnly())).
		Commit()
	if err != nil {
		return 0, xerrors.Wrapf(ErrStoreUnavailable, "breaker: etcd cas %s: %v", id, err)
	}
	if !resp.Succeeded {
		if get := resp.Responses[0].GetResponseRange(); get != nil && get.Count == 0 {
			return 0, ErrRecordNotFound
		}
		return 0, ErrVersionConflict
	}
	// 新版本号即本次事务的修订号
	return resp.Header.Revision, nil
}

func encodeValue(record Record) ([]byte, error) {
	value, err := msgpack.Marshal(&etcdRecord{
		Status:        record.Status.String(),
		FailureCount:  record.FailureCount,
		SuccessCount:  record.SuccessCount,
		NextAttemptAt: record.NextAttemptAt,
	})
	if err != nil {
		return nil, xerrors.Wrapf(err, "breaker: encode record failed")
	}
	return value, nil
}

func decodeValue(data []byte) (Record, error) {
	var wire etcdRecord
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return Record{}, xerrors.Wrapf(ErrStoreUnavailable, "breaker: corrupt etcd record: %v", err)
	}
	return Record{
		Status:        parseStatus(wire.Status),
		FailureCount:  wire.FailureCount,
		SuccessCount:  wire.SuccessCount,
		NextAttemptAt: wire.NextAttemptAt,
	}, nil
}
