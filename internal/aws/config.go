package aws

import (
	"context"
	"errors"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go"
)

func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1" // default fallback
	}

	var cfg sdkaws.Config
	var err error

	cfg, err = config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)

	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}

// DependencyHint inspects a dependency error and returns a human-readable
// hint when the failure looks credential or permission related. It returns
// an empty string for everything else so callers fall back to a generic
// message instead of leaking raw transport errors.
func DependencyHint(err error) string {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	switch apiErr.ErrorCode() {
	case "UnrecognizedClientException", "InvalidSignatureException", "InvalidClientTokenId":
		return "storage credentials were rejected; check AWS access keys"
	case "ExpiredToken", "ExpiredTokenException":
		return "storage credentials have expired; refresh the session token"
	case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
		return "storage access was denied; check the execution role permissions"
	}
	return ""
}
