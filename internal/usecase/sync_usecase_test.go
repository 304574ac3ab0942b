package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	entryRepo *fakeEntryRepo
	taskRepo  *fakeTaskRepo
	cacheRepo *fakeCacheRepo
	resolver  *fakeMappingResolver
	platform  *fakePlatform
	sessions  *fakeSessionFactory
	producer  *fakeProducer
	uc        *SyncUseCase
}

func newSyncFixture(entries ...*domain.CatalogEntry) *syncFixture {
	f := &syncFixture{
		entryRepo: newFakeEntryRepo(entries...),
		taskRepo:  &fakeTaskRepo{},
		cacheRepo: newFakeCacheRepo(),
		resolver:  &fakeMappingResolver{},
		platform:  &fakePlatform{getErr: e.ErrRemoteNotFound},
		sessions:  &fakeSessionFactory{},
		producer:  &fakeProducer{},
	}

	f.uc = NewSyncUC(
		f.entryRepo, f.taskRepo, f.cacheRepo, f.resolver, f.platform, f.sessions, f.producer,
		&cfg.WorkerCfg{ImageMaxAttempts: 3}, testLogger{},
	)

	return f
}

func approvedEntry(sku string) *domain.CatalogEntry {
	entry := domain.NewCatalogEntry(sku, "Widget", 9990)
	entry.SyncStatus = domain.StatusApproved
	entry.Description = "A fine widget"
	return entry
}

func TestSyncEntry_CreatesWhenAbsent(t *testing.T) {
	f := newSyncFixture(approvedEntry("sku-1"))

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	require.NotNil(t, f.platform.createdReq)
	assert.Nil(t, f.platform.updatedReq)
	assert.Equal(t, "sku-1", f.platform.createdReq.Sku)

	require.Len(t, f.entryRepo.statusWrites, 1)
	assert.Equal(t, domain.StatusSynced, f.entryRepo.statusWrites[0].status)
	assert.Empty(t, f.entryRepo.statusWrites[0].errMsg)

	require.Len(t, f.producer.events, 1)
	assert.Equal(t, "sku-1", f.producer.events[0].Sku)
}

func TestSyncEntry_UpdatesWhenPresent(t *testing.T) {
	f := newSyncFixture(approvedEntry("sku-1"))
	f.platform.getErr = nil
	f.platform.remote = &RemoteProduct{ID: 42, Sku: "sku-1"}

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	assert.Nil(t, f.platform.createdReq)
	require.NotNil(t, f.platform.updatedReq)
}

func TestSyncEntry_ProbeErrorFailsRun(t *testing.T) {
	f := newSyncFixture(approvedEntry("sku-1"))
	f.platform.getErr = errors.New("remote timeout")

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.Error(t, err)
	assert.Nil(t, f.platform.createdReq)
	assert.Nil(t, f.platform.updatedReq)

	// Ровно одна запись статуса за прогон
	require.Len(t, f.entryRepo.statusWrites, 1)
	assert.Equal(t, domain.StatusSyncFailed, f.entryRepo.statusWrites[0].status)
	assert.Contains(t, f.entryRepo.statusWrites[0].errMsg, "remote timeout")
	assert.Empty(t, f.producer.events)
}

func TestSyncEntry_RejectsUnmoderatedEntry(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	f := newSyncFixture(entry)

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	assert.ErrorIs(t, err, e.ErrEntryNotApproved)
	assert.Zero(t, f.platform.getCalls)
	assert.Empty(t, f.entryRepo.statusWrites)
}

func TestSyncEntry_UnmappedCategorySyncsWithoutLink(t *testing.T) {
	entry := approvedEntry("sku-1")
	entry.Category = "Gadgets"
	f := newSyncFixture(entry)

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	require.NotNil(t, f.platform.createdReq)
	assert.Empty(t, f.platform.createdReq.CategoryIDs)
	require.Len(t, f.entryRepo.statusWrites, 1)
	assert.Equal(t, domain.StatusSynced, f.entryRepo.statusWrites[0].status)
}

func TestSyncEntry_MappedCategoryLinked(t *testing.T) {
	entry := approvedEntry("sku-1")
	entry.Category = "Gadgets"
	f := newSyncFixture(entry)
	f.resolver.resolution = &MappingResolution{
		CategoryID: 7,
		Attributes: map[string]ResolvedAttribute{},
	}

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	assert.Equal(t, []int64{7}, f.platform.createdReq.CategoryIDs)
}

func TestSyncEntry_DescriptionAlwaysFirstAttribute(t *testing.T) {
	f := newSyncFixture(approvedEntry("sku-1"))

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	require.NotEmpty(t, f.platform.createdReq.CustomAttributes)
	assert.Equal(t, "description", f.platform.createdReq.CustomAttributes[0].Code)
	assert.Equal(t, "A fine widget", f.platform.createdReq.CustomAttributes[0].Value)
}

func TestSyncEntry_SkipsUnmappedAttributes(t *testing.T) {
	entry := approvedEntry("sku-1")
	entry.Attributes = []domain.AttributeValue{
		{Label: "Color", Value: "Red"},
		{Label: "Material", Value: "Steel"},
	}
	f := newSyncFixture(entry)
	f.resolver.resolution = &MappingResolution{
		Attributes: map[string]ResolvedAttribute{
			"Color": {Code: "color", Type: domain.AttributeTypeText},
		},
		UnmappedCategory: true,
		UnmappedLabels:   []string{"Material"},
	}

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)

	codes := make([]string, 0, len(f.platform.createdReq.CustomAttributes))
	for _, attr := range f.platform.createdReq.CustomAttributes {
		codes = append(codes, attr.Code)
	}
	assert.Equal(t, []string{"description", "color"}, codes)
}

func TestSyncEntry_SelectAttributeUsesOptionID(t *testing.T) {
	entry := approvedEntry("sku-1")
	entry.Attributes = []domain.AttributeValue{{Label: "Color", Value: "Red"}}
	f := newSyncFixture(entry)
	f.resolver.resolution = &MappingResolution{
		Attributes: map[string]ResolvedAttribute{
			"Color": {Code: "color", Type: domain.AttributeTypeSelect},
		},
		UnmappedCategory: true,
	}
	f.sessions.session = &fakeSession{options: map[string]string{"color/Red": "17"}}

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	require.Len(t, f.platform.createdReq.CustomAttributes, 2)
	assert.Equal(t, RemoteAttribute{Code: "color", Value: "17"}, f.platform.createdReq.CustomAttributes[1])
}

func TestSyncEntry_AttributeProvisionFailureSkipsAttribute(t *testing.T) {
	entry := approvedEntry("sku-1")
	entry.Attributes = []domain.AttributeValue{{Label: "Color", Value: "Red"}}
	f := newSyncFixture(entry)
	f.resolver.resolution = &MappingResolution{
		Attributes: map[string]ResolvedAttribute{
			"Color": {Code: "color", Type: domain.AttributeTypeText},
		},
		UnmappedCategory: true,
	}
	f.sessions.session = &fakeSession{ensureErr: map[string]error{"color": errors.New("boom")}}

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	// Проблемный атрибут не срывает прогон
	require.NoError(t, err)
	require.Len(t, f.platform.createdReq.CustomAttributes, 1)
	assert.Equal(t, "description", f.platform.createdReq.CustomAttributes[0].Code)
}

func TestSyncEntry_EnqueuesImageTasks(t *testing.T) {
	entry := approvedEntry("sku-1")
	entry.Images = []string{"products/sku-1-a.jpg", "", "products/sku-1-b.jpg"}
	f := newSyncFixture(entry)

	err := f.uc.SyncEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	require.Len(t, f.taskRepo.tasks, 2)
	for _, task := range f.taskRepo.tasks {
		assert.Equal(t, domain.TaskImageUpload, task.Type)
		assert.Equal(t, 3, task.MaxAttempts)
	}

	var payload ImageUploadReq
	require.NoError(t, json.Unmarshal(f.taskRepo.tasks[0].Payload, &payload))
	assert.Equal(t, "products/sku-1-a.jpg", payload.Path)
	assert.Equal(t, "sku-1", payload.Sku)
}

func TestSyncEntry_InvalidatesCacheOnBothOutcomes(t *testing.T) {
	f := newSyncFixture(approvedEntry("sku-1"))
	f.cacheRepo.entries["sku-1"] = &EntryInfo{Sku: "sku-1"}

	require.NoError(t, f.uc.SyncEntry(context.Background(), "sku-1"))
	assert.Contains(t, f.cacheRepo.deleted, "sku-1")

	failed := newSyncFixture(approvedEntry("sku-2"))
	failed.cacheRepo.entries["sku-2"] = &EntryInfo{Sku: "sku-2"}
	failed.platform.getErr = errors.New("remote down")

	require.Error(t, failed.uc.SyncEntry(context.Background(), "sku-2"))
	assert.Contains(t, failed.cacheRepo.deleted, "sku-2")
}
