package model

import "testing"

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"created", OrderStatusCreated, "created"},
		{"scheduled", OrderStatusScheduled, "scheduled"},
		{"picked up", OrderStatusPickedUp, "picked_up"},
		{"inspected", OrderStatusInspected, "inspected"},
		{"paid", OrderStatusPaid, "paid"},
		{"delivered", OrderStatusDelivered, "delivered"},
		{"cancelled", OrderStatusCancelled, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestToOrderStatus(t *testing.T) {
	status, ok := ToOrderStatus("inspected")
	if !ok || status != OrderStatusInspected {
		t.Fatalf("expected inspected, got %s ok=%v", status, ok)
	}

	if _, ok := ToOrderStatus("exploded"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}

	active := []OrderStatus{OrderStatusCreated, OrderStatusScheduled, OrderStatusPickedUp, OrderStatusInspected, OrderStatusPaid}
	for _, s := range active {
		if s.Terminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}
