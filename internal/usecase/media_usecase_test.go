package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaFixture() (*fakePlatform, *fakeBlobStorage, *MediaUseCase) {
	platform := &fakePlatform{remote: &RemoteProduct{ID: 42, Sku: "sku-1"}, mediaID: 7}
	blobs := newFakeBlobStorage()
	blobs.objects["products/sku-1-abc.jpg"] = []byte("jpeg-bytes")
	blobs.contentTypes["products/sku-1-abc.jpg"] = "image/jpeg"
	uc := NewMediaUC(platform, blobs, &cfg.WorkerCfg{ImageSizeLimit: 10 << 20}, testLogger{})

	return platform, blobs, uc
}

func imageReq() *ImageUploadReq {
	return &ImageUploadReq{Sku: "sku-1", EntryName: "Widget", Path: "products/sku-1-abc.jpg", Index: 0}
}

func TestUploadEntryImage_Success(t *testing.T) {
	platform, _, uc := newMediaFixture()

	err := uc.UploadEntryImage(context.Background(), imageReq())

	require.NoError(t, err)
	require.Len(t, platform.mediaReqs, 1)
	assert.Equal(t, "Widget", platform.mediaReqs[0].EntryName)
	assert.Equal(t, []byte("jpeg-bytes"), platform.mediaReqs[0].Data)
	assert.Equal(t, "image/jpeg", platform.mediaReqs[0].MimeType)
}

func TestUploadEntryImage_ProductAbsentIsTerminal(t *testing.T) {
	platform, _, uc := newMediaFixture()
	platform.getErr = e.ErrRemoteNotFound

	err := uc.UploadEntryImage(context.Background(), imageReq())

	// Повторять задачу бессмысленно: продукт так и не синхронизирован
	require.NoError(t, err)
	assert.Empty(t, platform.mediaReqs)
}

func TestUploadEntryImage_ProbeErrorIsRetryable(t *testing.T) {
	platform, _, uc := newMediaFixture()
	platform.getErr = errors.New("remote timeout")

	err := uc.UploadEntryImage(context.Background(), imageReq())

	require.Error(t, err)
}

func TestUploadEntryImage_OversizedImageIsTerminal(t *testing.T) {
	platform := &fakePlatform{remote: &RemoteProduct{ID: 42, Sku: "sku-1"}}
	blobs := newFakeBlobStorage()
	blobs.objects["products/sku-1-abc.jpg"] = []byte("jpeg-bytes")
	uc := NewMediaUC(platform, blobs, &cfg.WorkerCfg{ImageSizeLimit: 4}, testLogger{})

	err := uc.UploadEntryImage(context.Background(), imageReq())

	require.NoError(t, err)
	assert.Empty(t, platform.mediaReqs)
}

func TestUploadEntryImage_StatErrorIsRetryable(t *testing.T) {
	_, blobs, uc := newMediaFixture()
	blobs.statErr = errors.New("storage unavailable")

	err := uc.UploadEntryImage(context.Background(), imageReq())

	require.Error(t, err)
}

func TestUploadEntryImage_ReadErrorIsRetryable(t *testing.T) {
	_, blobs, uc := newMediaFixture()
	blobs.getErr = errors.New("storage unavailable")

	err := uc.UploadEntryImage(context.Background(), imageReq())

	require.Error(t, err)
}

func TestUploadEntryImage_UploadErrorIsRetryable(t *testing.T) {
	platform, _, uc := newMediaFixture()
	platform.mediaErr = errors.New("500 internal")

	err := uc.UploadEntryImage(context.Background(), imageReq())

	require.Error(t, err)
}
