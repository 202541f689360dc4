package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type fakeObjects struct {
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestUploadFile_SniffsAndStores(t *testing.T) {
	fake := &fakeObjects{}
	store := NewAwsS3WithClient(fake, "nutriscan", "ap-southeast-1")

	key, err := store.UploadFile("food-123", fileHeader(t, "photo.bin", pngBytes), "food-items", AllowImage...)
	require.NoError(t, err)

	assert.Equal(t, "food-items/food-123.png", key)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "image/png", *fake.puts[0].ContentType)
	assert.Equal(t, "nutriscan", *fake.puts[0].Bucket)
}

func TestUploadFile_RejectsDisallowedType(t *testing.T) {
	fake := &fakeObjects{}
	store := NewAwsS3WithClient(fake, "nutriscan", "ap-southeast-1")

	_, err := store.UploadFile("notes", fileHeader(t, "notes.png", []byte("just some text")), "food-items", AllowImage...)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
	assert.Empty(t, fake.puts)
}

func TestUploadFile_DisabledWithoutClient(t *testing.T) {
	store := NewAwsS3WithClient(nil, "", "ap-southeast-1")

	_, err := store.UploadFile("x", fileHeader(t, "x.png", pngBytes), "food-items")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPublicLinkRoundTrip(t *testing.T) {
	store := NewAwsS3WithClient(&fakeObjects{}, "nutriscan", "ap-southeast-1")

	link := store.GetPublicLinkKey("food-items/123.png")
	assert.Equal(t, "https://nutriscan.s3.ap-southeast-1.amazonaws.com/food-items/123.png", link)
	assert.Equal(t, "food-items/123.png", store.GetObjectKeyFromLink(link))
	assert.Equal(t, "", store.GetObjectKeyFromLink("https://images.openfoodfacts.org/x.jpg"))
}

func TestUpdateFile_KeepsKey(t *testing.T) {
	fake := &fakeObjects{}
	store := NewAwsS3WithClient(fake, "nutriscan", "ap-southeast-1")

	key, err := store.UpdateFile("food-items/123.png", fileHeader(t, "new.png", pngBytes), AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "food-items/123.png", key)
}
