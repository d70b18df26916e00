package services

import (
	"context"
	"encoding/json"
	"time"

	"variant-editor-service/models"

	"go.uber.org/zap"
)

// VariantSavedEvent is published after a variant has been created or updated.
type VariantSavedEvent struct {
	EventType   string    `json:"event_type"`
	Flow        string    `json:"flow"`
	ProductID   string    `json:"product_id"`
	VariantID   string    `json:"variant_id"`
	VariantName string    `json:"variant_name"`
	ImageCount  int       `json:"image_count"`
	TotalStock  int       `json:"total_stock"`
	Timestamp   time.Time `json:"timestamp"`
}

// publishVariantSaved notifies listeners so list screens can refresh. Failures are logged only.
func (o *Orchestrator) publishVariantSaved(ctx context.Context, draft models.Draft, result *models.SaveResult) {
	if o.events == nil || o.topicArn == "" {
		o.logger.Debug("SNS client not configured, skipping variant_saved event")
		return
	}

	v := draft.VariantRef()
	event := VariantSavedEvent{
		EventType:   "variant_saved",
		Flow:        FlowName(draft),
		ProductID:   result.ProductID,
		VariantID:   result.VariantID,
		VariantName: v.Name,
		ImageCount:  len(v.Images),
		TotalStock:  v.TotalQuantity(),
		Timestamp:   time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		o.logger.Error("Failed to marshal variant_saved event", zap.Error(err))
		return
	}
	if err := o.events.Publish(ctx, o.topicArn, eventBytes); err != nil {
		o.logger.Error("Failed to publish variant_saved event", zap.Error(err))
		return
	}
	o.logger.Info("Published variant_saved event", zap.String("variant_id", result.VariantID))
}
