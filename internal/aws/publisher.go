package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// PromotionMessage is the payload consumed by the promoter: an order that
// should be advanced to IN_PREPARATION.
type PromotionMessage struct {
	OrderID string `json:"order_id"`
}

// PromotionPublisher wraps an SQS client and the promotions queue URL.
type PromotionPublisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPromotionPublisher returns a PromotionPublisher bound to a queue URL.
func NewPromotionPublisher(sqsClient SQSAPI, queueURL string) *PromotionPublisher {
	return &PromotionPublisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// Publish enqueues an advance-to-preparation request for the given order.
func (p *PromotionPublisher) Publish(ctx context.Context, orderID string) error {
	body, err := json.Marshal(PromotionMessage{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("marshal promotion message: %w", err)
	}

	msgBody := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &msgBody,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"order_id": {
				DataType:    awsString("String"),
				StringValue: &orderID,
			},
		},
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
