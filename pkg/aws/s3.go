package aws

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by ObjectStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client creates an S3 client. With an endpoint (LocalStack) path-style addressing is used.
func NewS3Client(cfg sdkaws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
			o.BaseEndpoint = endpointOrNil(endpoint)
		}
	})
}

// ObjectStore writes objects under a key prefix in one bucket and derives their public URL.
type ObjectStore struct {
	client    S3API
	bucket    string
	prefix    string
	endpoint  string
	cdnDomain string
}

func NewObjectStore(client S3API, bucket, prefix, endpoint, cdnDomain string) *ObjectStore {
	return &ObjectStore{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		endpoint:  endpoint,
		cdnDomain: cdnDomain,
	}
}

// Key prefixes name with the store's key prefix.
func (o *ObjectStore) Key(name string) string {
	return o.prefix + name
}

func (o *ObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(o.bucket),
		Key:    sdkaws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}
	if _, err := o.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(o.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL prefers the CDN domain, then the custom endpoint, then the bucket's S3 host.
func (o *ObjectStore) PublicURL(key string) string {
	switch {
	case o.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(o.cdnDomain, "/"), key)
	case o.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(o.endpoint, "/"), o.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", o.bucket, key)
	}
}
