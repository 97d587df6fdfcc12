package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"order-pipeline/internal/aws"
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new order. The put is conditional on the order id not
// existing yet; a collision returns ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// UpdateStatus conditionally moves the order status from expected -> newStatus
// and returns the updated record. Returns ErrStatusMismatch if another writer
// changed the status since it was read.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, expected, newStatus Status) (*Order, error) {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: string(newStatus)},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
		ConditionExpression: awsString("#s = :expected"),
		ReturnValues:        types.ReturnValueAllNew,
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrStatusMismatch
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return unmarshalUpdated(out.Attributes)
}

// UpdateShipped conditionally moves the order to SHIPPED, stamping the
// shipment reference and shipped_at in the same write.
func (s *Store) UpdateShipped(ctx context.Context, orderID string, expected Status, shipmentRef string, shippedAt time.Time) (*Order, error) {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, shipment_reference = :ref, shipped_at = :sa, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: string(StatusShipped)},
			":ref":      &types.AttributeValueMemberS{Value: shipmentRef},
			":sa":       &types.AttributeValueMemberS{Value: shippedAt.Format(time.RFC3339)},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
		ConditionExpression: awsString("#s = :expected"),
		ReturnValues:        types.ReturnValueAllNew,
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrStatusMismatch
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return unmarshalUpdated(out.Attributes)
}

// ScanAll returns every order in the table. Listings are unbounded; there is
// no pagination contract on the API.
func (s *Store) ScanAll(ctx context.Context) ([]Order, error) {
	return s.scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
}

// ScanByStatus returns every order currently in the given status.
func (s *Store) ScanByStatus(ctx context.Context, status Status) ([]Order, error) {
	return s.scan(ctx, &dyn.ScanInput{
		TableName:                &s.tableName,
		FilterExpression:         awsString("#s = :status"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
}

func (s *Store) scan(ctx context.Context, input *dyn.ScanInput) ([]Order, error) {
	var result []Order
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var page []Order
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal scan page: %w", err)
		}
		result = append(result, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return result, nil
}

// Health verifies the table is reachable.
func (s *Store) Health(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dyn.DescribeTableInput{TableName: &s.tableName})
	if err != nil {
		return fmt.Errorf("describe table: %w", err)
	}
	return nil
}

func unmarshalUpdated(attrs map[string]types.AttributeValue) (*Order, error) {
	var o Order
	if err := attributevalue.UnmarshalMap(attrs, &o); err != nil {
		return nil, fmt.Errorf("unmarshal updated order: %w", err)
	}
	return &o, nil
}

func awsString(s string) *string { return &s }
