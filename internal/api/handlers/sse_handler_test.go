package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mealroute/hospital-meal-service/internal/api/handlers"
	"github.com/mealroute/hospital-meal-service/internal/auth"
	"github.com/mealroute/hospital-meal-service/internal/domain/entities"
	"github.com/mealroute/hospital-meal-service/internal/domain/providers"
)

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.DeliveryEvent
	published   []*entities.DeliveryEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.DeliveryEvent),
		published:   make([]*entities.DeliveryEvent, 0),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DeliveryEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	channels := append([]chan *entities.DeliveryEvent(nil), m.subscribers[channel]...)
	m.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DeliveryEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.DeliveryEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	subs := m.subscribers
	m.subscribers = make(map[string][]chan *entities.DeliveryEvent)
	m.mu.Unlock()
	for _, channels := range subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}

func streamRequest(ctx context.Context, userID string, principal *auth.Principal) *http.Request {
	req := httptest.NewRequest("GET", "/api/stream/users/"+userID, nil)
	req.SetPathValue("id", userID)
	if principal != nil {
		ctx = auth.WithPrincipal(ctx, principal)
	}
	return req.WithContext(ctx)
}

func TestSSEHandler_StreamUserUpdates(t *testing.T) {
	t.Run("should establish SSE connection for own stream", func(t *testing.T) {
		eventBus := NewMockEventBus()
		handler := handlers.NewSSEHandler(eventBus)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		principal := &auth.Principal{UserID: "user-1", Role: entities.RolePantryStaff}
		req := streamRequest(ctx, "user-1", principal)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamUserUpdates(w, req)
			close(done)
		}()

		// Wait a bit for connection to establish
		time.Sleep(100 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		result := w.Result()
		if result.Header.Get("Content-Type") != "text/event-stream" {
			t.Errorf("Expected Content-Type text/event-stream, got %s", result.Header.Get("Content-Type"))
		}
		if !strings.Contains(w.Body.String(), "event: connected") {
			t.Error("Expected a connected event on open")
		}
	})

	t.Run("two sessions of the same user both receive the event", func(t *testing.T) {
		eventBus := NewMockEventBus()
		handler := handlers.NewSSEHandler(eventBus)

		principal := &auth.Principal{UserID: "courier-1", Role: entities.RoleDeliveryStaff}

		type session struct {
			w      *httptest.ResponseRecorder
			cancel context.CancelFunc
			done   chan struct{}
		}

		open := func() *session {
			ctx, cancel := context.WithCancel(context.Background())
			s := &session{w: httptest.NewRecorder(), cancel: cancel, done: make(chan struct{})}
			req := streamRequest(ctx, "courier-1", principal)
			go func() {
				handler.StreamUserUpdates(s.w, req)
				close(s.done)
			}()
			return s
		}

		first := open()
		second := open()
		time.Sleep(100 * time.Millisecond)

		event := &entities.DeliveryEvent{
			ID:         "evt-1",
			EventType:  entities.EventNewDeliveryTask,
			DeliveryID: "delivery-1",
			Timestamp:  time.Now(),
		}
		eventBus.Publish(context.Background(), providers.GetUserChannel("courier-1"), event)

		time.Sleep(200 * time.Millisecond)

		for _, s := range []*session{first, second} {
			s.cancel()
			select {
			case <-s.done:
			case <-time.After(2 * time.Second):
				t.Fatal("handler did not exit after cancel")
			}
			if !strings.Contains(s.w.Body.String(), "event: new_delivery_task") {
				t.Error("Expected session to receive the new_delivery_task event")
			}
		}
	})

	t.Run("should reject another user's stream", func(t *testing.T) {
		handler := handlers.NewSSEHandler(NewMockEventBus())

		principal := &auth.Principal{UserID: "user-1", Role: entities.RolePantryStaff}
		req := streamRequest(context.Background(), "user-2", principal)
		w := httptest.NewRecorder()

		handler.StreamUserUpdates(w, req)

		if w.Result().StatusCode != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", w.Result().StatusCode)
		}
	})

	t.Run("manager may stream any user", func(t *testing.T) {
		handler := handlers.NewSSEHandler(NewMockEventBus())

		ctx, cancel := context.WithCancel(context.Background())
		principal := &auth.Principal{UserID: "manager-1", Role: entities.RoleManager}
		req := streamRequest(ctx, "user-2", principal)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamUserUpdates(w, req)
			close(done)
		}()
		time.Sleep(100 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		if w.Result().Header.Get("Content-Type") != "text/event-stream" {
			t.Errorf("Expected an event stream, got %s", w.Result().Header.Get("Content-Type"))
		}
	})

	t.Run("should reject unauthenticated requests", func(t *testing.T) {
		handler := handlers.NewSSEHandler(NewMockEventBus())

		req := streamRequest(context.Background(), "user-1", nil)
		w := httptest.NewRecorder()

		handler.StreamUserUpdates(w, req)

		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Result().StatusCode)
		}
	})
}

func TestSSEHandler_StreamAllUpdates(t *testing.T) {
	t.Run("manager-only", func(t *testing.T) {
		handler := handlers.NewSSEHandler(NewMockEventBus())

		principal := &auth.Principal{UserID: "courier-1", Role: entities.RoleDeliveryStaff}
		req := httptest.NewRequest("GET", "/api/stream/deliveries", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal))
		w := httptest.NewRecorder()

		handler.StreamAllUpdates(w, req)

		if w.Result().StatusCode != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", w.Result().StatusCode)
		}
	})

	t.Run("manager receives firehose events", func(t *testing.T) {
		eventBus := NewMockEventBus()
		handler := handlers.NewSSEHandler(eventBus)

		ctx, cancel := context.WithCancel(context.Background())
		principal := &auth.Principal{UserID: "manager-1", Role: entities.RoleManager}
		req := httptest.NewRequest("GET", "/api/stream/deliveries", nil)
		req = req.WithContext(auth.WithPrincipal(ctx, principal))
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamAllUpdates(w, req)
			close(done)
		}()
		time.Sleep(100 * time.Millisecond)

		event := &entities.DeliveryEvent{
			ID:         "evt-2",
			EventType:  entities.EventPreparationStatusUpdated,
			DeliveryID: "delivery-1",
			Field:      "preparation_status",
			Status:     "ready",
			Timestamp:  time.Now(),
		}
		eventBus.Publish(context.Background(), providers.EventChannelDeliveryUpdates, event)

		time.Sleep(200 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		if !strings.Contains(w.Body.String(), "event: preparation_status_updated") {
			t.Error("Expected the firehose stream to carry the status event")
		}
	})
}

func TestSSEHandler_ClientCount(t *testing.T) {
	eventBus := NewMockEventBus()
	handler := handlers.NewSSEHandler(eventBus)

	if count := handler.GetClientCount(); count != 0 {
		t.Errorf("Expected 0 clients, got %d", count)
	}

	ctx, cancel := context.WithCancel(context.Background())
	principal := &auth.Principal{UserID: "user-1", Role: entities.RolePantryStaff}
	req := streamRequest(ctx, "user-1", principal)
	w := httptest.NewRecorder()

	go handler.StreamUserUpdates(w, req)
	time.Sleep(100 * time.Millisecond)

	if count := handler.GetClientCount(); count != 1 {
		t.Errorf("Expected 1 client, got %d", count)
	}

	cancel()
	time.Sleep(100 * time.Millisecond)

	if count := handler.GetClientCount(); count != 0 {
		t.Errorf("Expected 0 clients after disconnect, got %d", count)
	}
}
