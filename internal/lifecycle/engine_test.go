package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"order-pipeline/internal/orders"
)

// mockDynamo backs a real orders.Store for engine tests. It understands the
// put/update condition expressions the store issues.
type mockDynamo struct {
	items    map[string]map[string]types.AttributeValue
	putCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) pk(attrs map[string]types.AttributeValue) string {
	return attrs["order_id"].(*types.AttributeValueMemberS).Value
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.putCalls++
	pk := m.pk(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := m.items[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	item, ok := m.items[m.pk(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	item, exists := m.items[m.pk(params.Key)]
	if !exists {
		return nil, errors.New("item not found")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		curr := item["status"].(*types.AttributeValueMemberS).Value
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if curr != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	for attr, field := range map[string]string{":new": "status", ":ref": "shipment_reference", ":sa": "shipped_at", ":ua": "updated_at"} {
		if v, ok := params.ExpressionAttributeValues[attr]; ok {
			item[field] = v
		}
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	var out dyn.ScanOutput
	for _, item := range m.items {
		out.Items = append(out.Items, item)
	}
	return &out, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	return &dyn.DescribeTableOutput{}, nil
}

func testEngine(mock *mockDynamo) *Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(orders.NewStore(mock, "orders"), log)
}

func seedOrder(t *testing.T, mock *mockDynamo, id string, status orders.Status) orders.Order {
	t.Helper()
	o := orders.Order{
		OrderID:       id,
		CustomerEmail: "jo@example.com",
		CustomerName:  "Jo",
		Amount:        19.99,
		Status:        status,
		CreatedAt:     time.Now().UTC().Round(time.Second),
	}
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	mock.items[id] = item
	return o
}

func TestCreateOrder_DefaultsToReceived(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)

	order, err := e.CreateOrder(context.Background(), CreateParams{
		CustomerEmail: "jo@example.com",
		CustomerName:  "Jo",
		Amount:        19.99,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.OrderID == "" {
		t.Fatal("expected generated order id")
	}
	if order.Status != orders.StatusReceived {
		t.Fatalf("expected RECEIVED, got %s", order.Status)
	}
	if order.Amount != 19.99 {
		t.Fatalf("amount mismatch: %v", order.Amount)
	}
	if order.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
	if _, ok := mock.items[order.OrderID]; !ok {
		t.Fatal("order not persisted")
	}
}

func TestCreateOrder_StatusOverride(t *testing.T) {
	e := testEngine(newMockDynamo())

	order, err := e.CreateOrder(context.Background(), CreateParams{
		CustomerEmail: "jo@example.com",
		CustomerName:  "Jo",
		Amount:        5,
		Status:        orders.StatusInPreparation,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != orders.StatusInPreparation {
		t.Fatalf("expected IN_PREPARATION, got %s", order.Status)
	}
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing email", CreateParams{CustomerName: "Jo", Amount: 10}},
		{"missing name", CreateParams{CustomerEmail: "jo@example.com", Amount: 10}},
		{"zero amount", CreateParams{CustomerEmail: "jo@example.com", CustomerName: "Jo"}},
		{"negative amount", CreateParams{CustomerEmail: "jo@example.com", CustomerName: "Jo", Amount: -3}},
		{"unknown status", CreateParams{CustomerEmail: "jo@example.com", CustomerName: "Jo", Amount: 10, Status: "MISPLACED"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMockDynamo()
			e := testEngine(mock)
			_, err := e.CreateOrder(context.Background(), tc.params)
			if !errors.Is(err, orders.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if mock.putCalls != 0 {
				t.Fatal("validation failure must not persist anything")
			}
		})
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	e := testEngine(newMockDynamo())
	_, err := e.GetOrder(context.Background(), "missing")
	if !errors.Is(err, orders.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvanceToPreparation_UnknownOrder(t *testing.T) {
	e := testEngine(newMockDynamo())
	_, err := e.AdvanceToPreparation(context.Background(), "missing")
	if !errors.Is(err, orders.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvanceToPreparation_FromReceived(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)
	seeded := seedOrder(t, mock, "o1", orders.StatusReceived)

	updated, err := e.AdvanceToPreparation(context.Background(), "o1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != orders.StatusInPreparation {
		t.Fatalf("expected IN_PREPARATION, got %s", updated.Status)
	}
	// other fields untouched
	if updated.CustomerEmail != seeded.CustomerEmail || updated.Amount != seeded.Amount {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}

func TestAdvanceToPreparation_AlreadyThere_NoOp(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)
	seedOrder(t, mock, "o1", orders.StatusInPreparation)

	updated, err := e.AdvanceToPreparation(context.Background(), "o1")
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if updated.Status != orders.StatusInPreparation {
		t.Fatalf("status changed on duplicate trigger: %s", updated.Status)
	}
}

func TestAdvanceToPreparation_ShippedOrder_NoBackwardMove(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)
	seedOrder(t, mock, "o1", orders.StatusShipped)

	updated, err := e.AdvanceToPreparation(context.Background(), "o1")
	if err != nil {
		t.Fatalf("expected stale trigger to be a no-op, got %v", err)
	}
	if updated.Status != orders.StatusShipped {
		t.Fatalf("status moved backward: %s", updated.Status)
	}
}

func TestMarkShipped_UnknownOrder(t *testing.T) {
	e := testEngine(newMockDynamo())
	_, err := e.MarkShipped(context.Background(), "missing", "ref.pdf")
	if !errors.Is(err, orders.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkShipped_SetsReferenceAndTimestamp(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)
	seedOrder(t, mock, "o1", orders.StatusInPreparation)

	updated, err := e.MarkShipped(context.Background(), "o1", "1700000000000-invoice.pdf")
	if err != nil {
		t.Fatalf("mark shipped: %v", err)
	}
	if updated.Status != orders.StatusShipped {
		t.Fatalf("expected SHIPPED, got %s", updated.Status)
	}
	if updated.ShipmentReference != "1700000000000-invoice.pdf" {
		t.Fatalf("shipment reference mismatch: %q", updated.ShipmentReference)
	}
	if updated.ShippedAt == nil {
		t.Fatal("expected shippedAt to be stamped")
	}
}

func TestMarkShipped_DirectFromReceived(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)
	seedOrder(t, mock, "o1", orders.StatusReceived)

	// a document can arrive before the sweep promotes the order
	updated, err := e.MarkShipped(context.Background(), "o1", "doc.pdf")
	if err != nil {
		t.Fatalf("mark shipped from RECEIVED: %v", err)
	}
	if updated.Status != orders.StatusShipped {
		t.Fatalf("expected SHIPPED, got %s", updated.Status)
	}
}

func TestMarkShipped_AlreadyShipped_NoOp(t *testing.T) {
	mock := newMockDynamo()
	e := testEngine(mock)
	seedOrder(t, mock, "o1", orders.StatusShipped)

	if _, err := e.MarkShipped(context.Background(), "o1", "again.pdf"); err != nil {
		t.Fatalf("expected duplicate shipment trigger to be a no-op, got %v", err)
	}
}
