package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"variant-editor-service/models"
	aws_pkg "variant-editor-service/pkg/aws"

	"github.com/google/uuid"
)

// S3ImageStore stores variant images in S3. The object key is the image's permanent id.
type S3ImageStore struct {
	objects *aws_pkg.ObjectStore
}

func NewS3ImageStore(objects *aws_pkg.ObjectStore) *S3ImageStore {
	return &S3ImageStore{objects: objects}
}

func (s *S3ImageStore) Upload(ctx context.Context, bin models.StagedBinary) (string, string, error) {
	key := s.objects.Key(fmt.Sprintf("variant_img_%s%s", uuid.New().String(), imageExt(bin)))
	if err := s.objects.Put(ctx, key, bin.Data, bin.ContentType); err != nil {
		return "", "", err
	}
	return s.objects.PublicURL(key), key, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, permanentID string) error {
	return s.objects.Delete(ctx, permanentID)
}

func imageExt(bin models.StagedBinary) string {
	if ext := strings.ToLower(filepath.Ext(bin.Filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(bin.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
