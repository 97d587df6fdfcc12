package notify

import (
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"order-pipeline/internal/orders"
)

// orderFromImage rebuilds an Order from a DynamoDB stream image. Stream
// attribute values are a separate type from the SDK's, so fields are pulled
// out explicitly; absent or malformed attributes are left zero.
func orderFromImage(image map[string]events.DynamoDBAttributeValue) orders.Order {
	var o orders.Order
	o.OrderID = imageString(image, "order_id")
	o.CustomerEmail = imageString(image, "customer_email")
	o.CustomerName = imageString(image, "customer_name")
	o.Status = orders.Status(imageString(image, "status"))
	o.ShipmentReference = imageString(image, "shipment_reference")

	if v, ok := image["amount"]; ok && v.DataType() == events.DataTypeNumber {
		if f, err := strconv.ParseFloat(v.Number(), 64); err == nil {
			o.Amount = f
		}
	}
	if t, ok := imageTime(image, "created_at"); ok {
		o.CreatedAt = t
	}
	if t, ok := imageTime(image, "updated_at"); ok {
		o.UpdatedAt = t
	}
	if t, ok := imageTime(image, "shipped_at"); ok {
		o.ShippedAt = &t
	}
	return o
}

func imageString(image map[string]events.DynamoDBAttributeValue, key string) string {
	v, ok := image[key]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return v.String()
}

func imageTime(image map[string]events.DynamoDBAttributeValue, key string) (time.Time, bool) {
	s := imageString(image, key)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
