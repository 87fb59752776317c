package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

type fakeQueue struct {
	rows []model.PendingMessage
	err  error
	id   string
}

func (q *fakeQueue) Insert(ctx context.Context, m model.PendingMessage) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.rows = append(q.rows, m)
	return q.id, nil
}

func TestDesktopSendQueuesRow(t *testing.T) {
	q := &fakeQueue{id: "01J5V7Z3Q8XK2M4N6P8R9S0T1V"}
	tenant := model.Tenant{ID: 7, Plan: model.PlanBasic}

	d := provider.NewDesktop(tenant, q, provider.Settings{})
	res, err := d.Send(context.Background(), "15551234567", "hello", "", provider.SendOptions{RecipientName: "Ada"})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if res.Status != model.SendQueued {
		t.Errorf("status = %q, want queued", res.Status)
	}
	if res.Provider != "desktop-agent" {
		t.Errorf("provider = %q, want desktop-agent", res.Provider)
	}
	if res.MessageID != q.id {
		t.Errorf("messageId = %q, want queue row id %q", res.MessageID, q.id)
	}

	if len(q.rows) != 1 {
		t.Fatalf("expected 1 queued row, got %d", len(q.rows))
	}
	row := q.rows[0]
	if row.TenantID != 7 {
		t.Errorf("tenant_id = %d, want 7", row.TenantID)
	}
	if row.Phone != "15551234567@c.us" {
		t.Errorf("phone = %q, want addressed form", row.Phone)
	}
	if row.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", row.Status)
	}
	if row.DeliveryMethod != "desktop" {
		t.Errorf("delivery_method = %q, want desktop", row.DeliveryMethod)
	}
	if row.Name == nil || *row.Name != "Ada" {
		t.Errorf("name = %v, want Ada", row.Name)
	}
	if row.MediaURL != nil {
		t.Errorf("media_url = %v, want nil", row.MediaURL)
	}
}

func TestDesktopSendPersistenceFailure(t *testing.T) {
	q := &fakeQueue{err: errors.New("unknown tenant")}
	d := provider.NewDesktop(model.Tenant{ID: 9}, q, provider.Settings{})

	_, err := d.Send(context.Background(), "15551234567", "hello", "", provider.SendOptions{})
	var perr *provider.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}
