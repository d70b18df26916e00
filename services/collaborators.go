package services

import (
	"context"
	"time"

	"variant-editor-service/models"
)

// ImageStore is the remote object storage used for variant images.
type ImageStore interface {
	Upload(ctx context.Context, bin models.StagedBinary) (url, permanentID string, err error)
	Delete(ctx context.Context, permanentID string) error
}

// SizeSystemSource resolves size systems by id.
type SizeSystemSource interface {
	FetchSizeSystem(ctx context.Context, id string) (*models.SizeSystem, error)
}

// CatalogAPI is the backend catalog API the editor hydrates from and saves to.
type CatalogAPI interface {
	SizeSystemSource
	FetchProduct(ctx context.Context, id string) (*models.Product, error)
	FetchVariant(ctx context.Context, id string) (*models.Variant, error)
	CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.SaveResult, error)
	CreateVariant(ctx context.Context, productID string, payload models.VariantPayload) (*models.SaveResult, error)
	UpdateVariant(ctx context.Context, variantID string, payload models.VariantPayload) (*models.SaveResult, error)
}

// MetricsRecorder is satisfied by the CloudWatch metrics client.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// EventPublisher is satisfied by the SNS client.
type EventPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

type noopMetrics struct{}

func (noopMetrics) RecordCount(context.Context, string, map[string]string) error { return nil }

func (noopMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

const (
	MetricImagesUploaded    = "VariantImagesUploaded"
	MetricImageUploadFailed = "VariantImageUploadFailed"
	MetricImageUploadTime   = "VariantImageUploadLatency"
	MetricImagesDeleted     = "VariantImagesDeleted"
	MetricVariantsSaved     = "VariantsSaved"
	MetricVariantSaveFailed = "VariantSaveFailed"
	MetricVariantSaveTime   = "VariantSaveLatency"
)
