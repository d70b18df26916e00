package services_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"variant-editor-service/models"
	aws_pkg "variant-editor-service/pkg/aws"
	"variant-editor-service/services"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	objects map[string][]byte
	deleted []string
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	m.objects[*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.deleted = append(m.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3ImageStore_UploadAndDelete(t *testing.T) {
	client := &mockS3{objects: make(map[string][]byte)}
	store := services.NewS3ImageStore(aws_pkg.NewObjectStore(client, "shopswift", "variants/", "", "cdn.example.com"))

	url, id, err := store.Upload(context.Background(), models.StagedBinary{Filename: "Front.PNG", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "variants/variant_img_"))
	assert.True(t, strings.HasSuffix(id, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+id, url)
	assert.Equal(t, []byte("png"), client.objects[id])

	require.NoError(t, store.Delete(context.Background(), id))
	assert.Equal(t, []string{id}, client.deleted)
}

func TestS3ImageStore_ExtensionFromContentType(t *testing.T) {
	client := &mockS3{objects: make(map[string][]byte)}
	store := services.NewS3ImageStore(aws_pkg.NewObjectStore(client, "shopswift", "", "", ""))

	_, id, err := store.Upload(context.Background(), models.StagedBinary{Filename: "blob", ContentType: "image/gif", Data: []byte("gif")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, ".gif"))
}
