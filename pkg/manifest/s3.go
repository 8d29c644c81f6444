package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store publishes manifests to an S3 bucket.
//
// The client is injected so credential and region setup stay with the
// caller:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := manifest.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "manifests/")
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3 manifest store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: key prefix for manifests (e.g., "manifests/")
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Key returns the object key used for name.
func (s *S3Store) Key(name string) string {
	return s.prefix + name
}

// Put uploads the encoded manifest under prefix+name.
func (s *S3Store) Put(ctx context.Context, name string, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"generated-at": m.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("manifest: s3 put %s: %w", name, err)
	}
	return nil
}

// Get downloads and decodes the manifest stored under prefix+name.
func (s *S3Store) Get(ctx context.Context, name string) (*Manifest, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("manifest: s3 get %s: %w", name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("manifest: s3 get %s: %w", name, err)
	}
	return Decode(data)
}

// Prune deletes manifests under the prefix older than maxAge, keeping
// the most recently modified object. Listing is paginated so large
// buckets stay bounded in memory.
func (s *S3Store) Prune(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	var newestKey string
	var newestMod time.Time
	var stale []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("manifest: s3 prune list: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			if obj.LastModified.After(newestMod) {
				newestKey = *obj.Key
				newestMod = *obj.LastModified
			}
			if obj.LastModified.Before(cutoff) {
				stale = append(stale, *obj.Key)
			}
		}
	}

	for _, key := range stale {
		if key == newestKey {
			continue
		}
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("manifest: s3 prune delete %s: %w", key, err)
		}
	}
	return nil
}
