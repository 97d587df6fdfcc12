// Package documents is the object-store adapter for uploaded order
// documents. Objects live in a flat namespace under timestamped keys with
// the owning order id attached as object metadata.
package documents

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"order-pipeline/internal/aws"
)

// MetadataOrderID is the object metadata key carrying the owning order id.
const MetadataOrderID = "order-id"

const metadataUploadedAt = "uploaded-at"

// headConcurrency bounds the metadata fan-out when joining listings against
// per-object metadata.
const headConcurrency = 8

// Document describes one stored object.
type Document struct {
	Key          string    `json:"fileKey"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
	OrderID      string    `json:"orderId,omitempty"`
	URL          string    `json:"url,omitempty"`
}

// Store encapsulates document operations against the documents bucket.
type Store struct {
	client     aws.S3API
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	nowFunc    func() time.Time
}

// NewStore creates a document Store bound to a bucket. presign may be nil
// when URL derivation is not needed (event consumers).
func NewStore(client aws.S3API, presign *s3.PresignClient, bucket string, presignTTL time.Duration) *Store {
	return &Store{
		client:     client,
		presign:    presign,
		bucket:     bucket,
		presignTTL: presignTTL,
		nowFunc:    time.Now,
	}
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string { return s.bucket }

// Upload stores a document under a timestamp-prefixed key and tags it with
// the owning order id. Returns the generated object key.
func (s *Store) Upload(ctx context.Context, orderID, filename, contentType string, body io.Reader, size int64) (string, error) {
	now := s.nowFunc()
	key := fmt.Sprintf("%d-%s", now.UnixMilli(), filename)

	input := &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
		Metadata: map[string]string{
			MetadataOrderID:    orderID,
			metadataUploadedAt: now.UTC().Format(time.RFC3339),
		},
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// List returns every document in the bucket, without metadata join.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	var docs []Document
	input := &s3.ListObjectsV2Input{Bucket: &s.bucket}
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range out.Contents {
			d := Document{}
			if obj.Key != nil {
				d.Key = *obj.Key
			}
			if obj.Size != nil {
				d.Size = *obj.Size
			}
			if obj.LastModified != nil {
				d.LastModified = *obj.LastModified
			}
			docs = append(docs, d)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}
	return docs, nil
}

// Head fetches one object's metadata, including the owning order id.
func (s *Store) Head(ctx context.Context, key string) (*Document, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}
	d := &Document{
		Key:     key,
		OrderID: out.Metadata[MetadataOrderID],
	}
	if out.ContentLength != nil {
		d.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		d.ContentType = *out.ContentType
	}
	if out.LastModified != nil {
		d.LastModified = *out.LastModified
	}
	return d, nil
}

// ListByOrder lists the documents owned by one order by joining the bucket
// listing against per-object metadata. Lookups fan out concurrently with no
// ordering dependency between objects; the result is sorted by key.
func (s *Store) ListByOrder(ctx context.Context, orderID string) ([]Document, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		matched []Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(headConcurrency)
	for _, doc := range all {
		key := doc.Key
		g.Go(func() error {
			head, err := s.Head(gctx, key)
			if err != nil {
				return err
			}
			if head.OrderID == orderID {
				mu.Lock()
				matched = append(matched, *head)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Key < matched[j].Key })
	return matched, nil
}

// PresignGet derives a time-limited public GET URL for an object.
func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	if s.presign == nil {
		return "", fmt.Errorf("presign client not configured")
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", key, err)
	}
	return req.URL, nil
}

// Buckets lists every bucket visible to the storage credentials.
func (s *Store) Buckets(ctx context.Context) ([]string, error) {
	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		if b.Name != nil {
			names = append(names, *b.Name)
		}
	}
	return names, nil
}

// Health verifies the documents bucket is reachable.
func (s *Store) Health(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket}); err != nil {
		return fmt.Errorf("head bucket: %w", err)
	}
	return nil
}
