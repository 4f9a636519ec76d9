package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/events"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(&logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

func testOrder() domain.OrderDetail {
	return domain.OrderDetail{
		Order: domain.Order{
			ID:          1,
			OrderNumber: "ORD-0001",
			Status:      domain.OrderPending,
			Total:       24.50,
			TableID:     3,
		},
	}
}

// register adds a client and waits for the hub loop to pick it up.
func register(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() > 0 })
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

// recv reads one frame off the client's send channel.
func recv(t *testing.T, c *Client) events.Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env events.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatal("client did not receive event")
		return events.Envelope{}
	}
}

// expectSilent asserts no frame arrives for the client.
func expectSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubNewHub(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger, nil)

	if hub.clients == nil {
		t.Error("clients map not initialized")
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("registration channels not initialized")
	}
	if hub.outbound == nil {
		t.Error("outbound channel not initialized")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := newTestHub(t)

	client := NewClient(hub, nil)
	register(t, hub, client)

	if count := hub.ClientCount(); count != 1 {
		t.Errorf("expected 1 client, got %d", count)
	}

	hub.Unregister(client)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	// A second unregister of the same client must be harmless.
	hub.Unregister(client)
	time.Sleep(20 * time.Millisecond)
	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients after double unregister, got %d", count)
	}
}

func TestHubPublishToRole(t *testing.T) {
	hub := newTestHub(t)

	staff := NewClient(hub, nil)
	admin := NewClient(hub, nil)
	anon := NewClient(hub, nil)
	register(t, hub, staff)
	register(t, hub, admin)
	register(t, hub, anon)

	hub.SetIdentity(staff.ID(), 2, domain.RoleStaff)
	hub.SetIdentity(admin.ID(), 1, domain.RoleAdmin)
	waitFor(t, func() bool { return hub.RoleCount(domain.RoleStaff) == 1 && hub.RoleCount(domain.RoleAdmin) == 1 })

	hub.Publish(events.NewOrder(testOrder()), ToRole(domain.RoleStaff))

	env := recv(t, staff)
	if env.Type != events.KindNewOrder {
		t.Errorf("expected %s, got %s", events.KindNewOrder, env.Type)
	}
	if env.Order == nil || env.Order.OrderNumber != "ORD-0001" {
		t.Errorf("unexpected order payload: %+v", env.Order)
	}

	// Only the targeted role receives the event.
	expectSilent(t, admin)
	expectSilent(t, anon)
}

func TestHubPublishToAll(t *testing.T) {
	hub := newTestHub(t)

	staff := NewClient(hub, nil)
	anon := NewClient(hub, nil)
	register(t, hub, staff)
	register(t, hub, anon)
	hub.SetIdentity(staff.ID(), 2, domain.RoleStaff)
	waitFor(t, func() bool { return hub.RoleCount(domain.RoleStaff) == 1 })

	hub.Publish(events.OrderUpdated(testOrder()), ToAll())

	// Unauthenticated connections still receive all-targeted events.
	for _, client := range []*Client{staff, anon} {
		env := recv(t, client)
		if env.Type != events.KindOrderUpdated {
			t.Errorf("expected %s, got %s", events.KindOrderUpdated, env.Type)
		}
	}
}

func TestHubUnauthenticatedExcludedFromRoleTarget(t *testing.T) {
	hub := newTestHub(t)

	anon := NewClient(hub, nil)
	register(t, hub, anon)

	hub.Publish(events.NewOrder(testOrder()), ToRole(domain.RoleStaff))
	expectSilent(t, anon)
}

func TestHubSetIdentityUnknownConn(t *testing.T) {
	hub := newTestHub(t)

	// Binding to a connection id that never registered must not panic or
	// register anything.
	hub.SetIdentity("no-such-conn", 1, domain.RoleAdmin)
	time.Sleep(20 * time.Millisecond)

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients, got %d", count)
	}
}

func TestHubEvictsFullClient(t *testing.T) {
	hub := newTestHub(t)

	slow := NewClient(hub, nil)
	healthy := NewClient(hub, nil)
	register(t, hub, slow)
	register(t, hub, healthy)

	// Nobody drains slow.send; fill its buffer completely.
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("{}")
	}

	hub.Publish(events.OrderUpdated(testOrder()), ToAll())

	// The healthy client still gets the event and the slow one is evicted.
	recv(t, healthy)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
}

func TestHubRoleCount(t *testing.T) {
	hub := newTestHub(t)

	for i := 0; i < 3; i++ {
		client := NewClient(hub, nil)
		register(t, hub, client)
		hub.SetIdentity(client.ID(), i+1, domain.RoleStaff)
	}
	anon := NewClient(hub, nil)
	register(t, hub, anon)

	waitFor(t, func() bool { return hub.RoleCount(domain.RoleStaff) == 3 })
	if n := hub.RoleCount(domain.RoleAdmin); n != 0 {
		t.Errorf("expected 0 admins, got %d", n)
	}
}

func TestTargetString(t *testing.T) {
	if s := ToAll().String(); s != "all" {
		t.Errorf("expected all, got %s", s)
	}
	if s := ToRole(domain.RoleAdmin).String(); s != "role:admin" {
		t.Errorf("expected role:admin, got %s", s)
	}
}
