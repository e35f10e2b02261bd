package testkit

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/ceyewan/fuse/connector"
)

// NewSQLiteDB 返回内存 SQLite 的 GORM 句柄，生命周期由 t.Cleanup 管理
// 每个测试用独立的内存库，互不干扰。
func NewSQLiteDB(t *testing.T) *gorm.DB {
	conn, err := connector.NewSQLite(&connector.SQLiteConfig{
		Name: "test-sqlite",
		Path: "file:" + NewID() + "?mode=memory&cache=shared",
	}, connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("failed to create sqlite connector: %v", err)
	}
	if err := conn.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect to sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn.GetClient()
}
