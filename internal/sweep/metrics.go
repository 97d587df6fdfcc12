package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"order-pipeline/internal/aws"
)

// CloudWatchReporter publishes sweep summaries as CloudWatch metrics.
type CloudWatchReporter struct {
	client    aws.CloudWatchAPI
	namespace string
	log       *slog.Logger
}

// NewCloudWatchReporter builds a reporter publishing under the namespace.
func NewCloudWatchReporter(client aws.CloudWatchAPI, namespace string, log *slog.Logger) *CloudWatchReporter {
	return &CloudWatchReporter{
		client:    client,
		namespace: namespace,
		log:       log.With("component", "sweep_metrics"),
	}
}

// Report publishes the summary counts. Failures are logged and swallowed;
// metrics never fail a sweep.
func (r *CloudWatchReporter) Report(ctx context.Context, s Summary) {
	now := time.Now()
	datum := func(name string, value int) cwtypes.MetricDatum {
		v := float64(value)
		n := name
		return cwtypes.MetricDatum{
			MetricName: &n,
			Value:      &v,
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitCount,
		}
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: &r.namespace,
		MetricData: []cwtypes.MetricDatum{
			datum("OrdersScanned", s.Scanned),
			datum("OrdersSelected", s.Selected),
			datum("OrdersPromoted", s.Promoted),
			datum("PromotionsFailed", s.Failed),
		},
	}

	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		r.log.WarnContext(ctx, "failed to publish sweep metrics", "error", err)
	}
}
