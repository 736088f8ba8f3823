package models

import "testing"

func TestOpen(t *testing.T) {
	if _, err := Open(DBOptions{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatalf("unsupported driver should fail")
	}
	db, err := Open(DBOptions{DSN: "file:models_open_test?mode=memory&cache=shared", Pool: DBPoolConfig{MaxOpenConns: 2}})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db failed: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 2 {
		t.Fatalf("max open conns want 2 got %d", got)
	}
}
