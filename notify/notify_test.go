package notify

import (
	"context"
	"testing"
)

func TestNilBusPublishAndCloseAreNoops(t *testing.T) {
	var b *Bus
	b.Publish(ChangeNotification{Name: "A1", Affected: []string{"A1"}})
	if err := b.Close(); err != nil {
		t.Fatalf("Close on nil bus = %v, want nil", err)
	}
}

func TestNewBusBindsAndPublishes(t *testing.T) {
	ctx := context.Background()
	bus, err := NewBus(ctx, "inproc://workbook-notify-test")
	if err != nil {
		t.Fatalf("NewBus failed: %v", err)
	}
	defer bus.Close()

	bus.Publish(ChangeNotification{Name: "A1", Affected: []string{"A1", "B1"}})
}
