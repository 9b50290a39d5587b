package database

import (
	"context"
	"errors"
	"testing"
)

func TestUnconnectedDatabase(t *testing.T) {
	d := NewDatabase()

	if d.IsConnected() {
		t.Error("IsConnected() = true, want false")
	}
	if col := d.GetCollection("warnings"); col != nil {
		t.Errorf("GetCollection() = %v, want nil", col)
	}
	if _, err := d.Ping(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping() error = %v, want %v", err, ErrNotConnected)
	}
	if status, ok := d.GetStatus(); ok || status != "🔴 | Desconectado" {
		t.Errorf("GetStatus() = %q, %v", status, ok)
	}
	if err := d.Disconnect(); err != nil {
		t.Errorf("Disconnect() on unconnected database returned %v", err)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	if err := NewDatabase().Connect("", "ModBot"); err == nil {
		t.Error("Connect() with empty URL should fail")
	}
}
