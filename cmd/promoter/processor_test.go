package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"order-pipeline/internal/lifecycle"
	"order-pipeline/internal/orders"
)

type mockDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) pk(attrs map[string]types.AttributeValue) string {
	return attrs["order_id"].(*types.AttributeValueMemberS).Value
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.items[m.pk(params.Item)] = params.Item
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
	if v, ok := params.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	return &dyn.DescribeTableOutput{}, nil
}

func testProcessor(mock *mockDynamo) *Processor {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := lifecycle.NewEngine(orders.NewStore(mock, "orders"), log)
	return NewProcessor(engine, log)
}

func seed(t *testing.T, mock *mockDynamo, id string, status orders.Status) {
	t.Helper()
	item, err := attributevalue.MarshalMap(orders.Order{
		OrderID:       id,
		CustomerEmail: "jo@example.com",
		CustomerName:  "Jo",
		Amount:        10,
		Status:        status,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	mock.items[id] = item
}

func sqsEvent(bodies ...string) events.SQSEvent {
	var ev events.SQSEvent
	for _, b := range bodies {
		ev.Records = append(ev.Records, events.SQSMessage{Body: b})
	}
	return ev
}

func TestHandle_PromotesOrder(t *testing.T) {
	mock := newMockDynamo()
	seed(t, mock, "o1", orders.StatusReceived)
	p := testProcessor(mock)

	if err := p.Handle(context.Background(), sqsEvent(`{"order_id":"o1"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	status := mock.items["o1"]["status"].(*types.AttributeValueMemberS).Value
	if status != string(orders.StatusInPreparation) {
		t.Fatalf("expected IN_PREPARATION, got %s", status)
	}
}

func TestHandle_DuplicateMessage_NoOp(t *testing.T) {
	mock := newMockDynamo()
	seed(t, mock, "o1", orders.StatusInPreparation)
	p := testProcessor(mock)

	if err := p.Handle(context.Background(), sqsEvent(`{"order_id":"o1"}`)); err != nil {
		t.Fatalf("duplicate promotion must be a no-op, got %v", err)
	}
}

func TestHandle_MalformedAndUnknownDropped(t *testing.T) {
	mock := newMockDynamo()
	seed(t, mock, "o1", orders.StatusReceived)
	p := testProcessor(mock)

	ev := sqsEvent(`not json`, `{"order_id":"missing"}`, `{"order_id":"o1"}`)
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("malformed/unknown messages must not fail the batch, got %v", err)
	}
	status := mock.items["o1"]["status"].(*types.AttributeValueMemberS).Value
	if status != string(orders.StatusInPreparation) {
		t.Fatalf("valid message in mixed batch was not processed, got %s", status)
	}
}
