package createorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giovaniif/order-inventory/infra/requestid"
	infra "github.com/giovaniif/order-inventory/order/infra"
	protocols "github.com/giovaniif/order-inventory/order/protocols"
)

type mockInventoryGateway struct {
	requested []string
	stock     *protocols.Stock
	err       error
}

func (m *mockInventoryGateway) GetStock(_ context.Context, productId string) (*protocols.Stock, error) {
	m.requested = append(m.requested, productId)
	return m.stock, m.err
}

type mockEventPublisher struct {
	published []protocols.OrderDecided
	err       error
}

func (m *mockEventPublisher) PublishOrderDecided(_ context.Context, event protocols.OrderDecided) error {
	m.published = append(m.published, event)
	return m.err
}

func stockOf(productId string, quantity int32) *protocols.Stock {
	return &protocols.Stock{ProductId: productId, Quantity: quantity}
}

func TestCreateDecisions(t *testing.T) {
	cases := []struct {
		name     string
		stock    int32
		quantity int32
		want     Decision
	}{
		{"plenty of stock", 100, 5, Accepted},
		{"not enough stock", 2, 5, Rejected},
		{"exactly enough", 5, 5, Accepted},
		{"zero quantity", 0, 0, Accepted},
		{"negative quantity", 0, -3, Accepted},
		{"unknown product", 0, 1, Rejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inventory := &mockInventoryGateway{stock: stockOf("prod1", tc.stock)}
			uc := NewCreateOrder(inventory, &mockEventPublisher{}, nil)

			output, err := uc.Create(context.Background(), Input{ProductId: "prod1", Quantity: tc.quantity})
			if err != nil {
				t.Fatalf("expected nil, got %v", err)
			}
			if output.Decision != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, output.Decision)
			}
			if output.AvailableStock != tc.stock {
				t.Fatalf("expected available %d, got %d", tc.stock, output.AvailableStock)
			}
		})
	}
}

func TestCreateCallsInventoryOnce(t *testing.T) {
	inventory := &mockInventoryGateway{stock: stockOf("prod2", 50)}
	uc := NewCreateOrder(inventory, nil, nil)

	_, _ = uc.Create(context.Background(), Input{ProductId: "prod2", Quantity: 1})
	if len(inventory.requested) != 1 || inventory.requested[0] != "prod2" {
		t.Fatalf("expected one lookup for prod2, got %v", inventory.requested)
	}
}

func TestCreateGatewayError(t *testing.T) {
	inventory := &mockInventoryGateway{err: infra.NewNetworkError("connection refused")}
	publisher := &mockEventPublisher{}
	uc := NewCreateOrder(inventory, publisher, nil)

	_, err := uc.Create(context.Background(), Input{ProductId: "prod1", Quantity: 5})
	if !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("expected ErrStockUnavailable, got %v", err)
	}
	if !errors.Is(err, infra.ErrNetwork) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
	if len(inventory.requested) != 1 {
		t.Fatalf("expected no retry, got %d lookups", len(inventory.requested))
	}
	if len(publisher.published) != 1 || publisher.published[0].Decision != protocols.DecisionUnavailable {
		t.Fatalf("expected one unavailable event, got %v", publisher.published)
	}
}

func TestCreateNilStock(t *testing.T) {
	uc := NewCreateOrder(&mockInventoryGateway{}, nil, nil)

	_, err := uc.Create(context.Background(), Input{ProductId: "prod1", Quantity: 5})
	if !errors.Is(err, ErrStockUnavailable) {
		t.Fatalf("expected ErrStockUnavailable, got %v", err)
	}
}

func TestCreateIsRepeatable(t *testing.T) {
	inventory := &mockInventoryGateway{stock: stockOf("prod1", 100)}
	uc := NewCreateOrder(inventory, nil, nil)

	for i := 0; i < 3; i++ {
		output, err := uc.Create(context.Background(), Input{ProductId: "prod1", Quantity: 100})
		if err != nil || output.Decision != Accepted {
			t.Fatalf("attempt %d: expected accepted, got %v %v", i, output.Decision, err)
		}
	}
	if len(inventory.requested) != 3 {
		t.Fatalf("expected one lookup per order, got %d", len(inventory.requested))
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	publisher := &mockEventPublisher{}
	uc := NewCreateOrder(&mockInventoryGateway{stock: stockOf("prod2", 50)}, publisher, nil)
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	ctx := requestid.NewContext(context.Background(), "rid-1")
	_, err := uc.Create(ctx, Input{ProductId: "prod2", Quantity: 60})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected one event, got %d", len(publisher.published))
	}
	want := protocols.OrderDecided{
		ProductId:      "prod2",
		Quantity:       60,
		AvailableStock: 50,
		Decision:       protocols.DecisionRejected,
		RequestId:      "rid-1",
		DecidedAt:      fixed,
	}
	if publisher.published[0] != want {
		t.Fatalf("expected %+v, got %+v", want, publisher.published[0])
	}
}

func TestCreateIgnoresPublishError(t *testing.T) {
	publisher := &mockEventPublisher{err: errors.New("broker down")}
	uc := NewCreateOrder(&mockInventoryGateway{stock: stockOf("prod1", 100)}, publisher, nil)

	output, err := uc.Create(context.Background(), Input{ProductId: "prod1", Quantity: 5})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if output.Decision != Accepted {
		t.Fatalf("expected accepted, got %s", output.Decision)
	}
}
