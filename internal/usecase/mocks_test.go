package usecase

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
)

type testLogger struct{}

func (testLogger) Debugf(format string, args ...any)            {}
func (testLogger) Infof(format string, args ...any)             {}
func (testLogger) Warnf(format string, args ...any)             {}
func (testLogger) Errorf(err error, format string, args ...any) {}

type fakeTrManager struct {
	calls int
	err   error
}

func (m *fakeTrManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}

	return fn(ctx)
}

func (m *fakeTrManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type statusWrite struct {
	sku    string
	status domain.SyncStatus
	errMsg string
}

type fakeEntryRepo struct {
	entries      map[string]*domain.CatalogEntry
	upserted     [][]*domain.CatalogEntry
	upsertErr    error
	statusWrites []statusWrite
	statusErr    error
}

func newFakeEntryRepo(entries ...*domain.CatalogEntry) *fakeEntryRepo {
	repo := &fakeEntryRepo{entries: make(map[string]*domain.CatalogEntry)}
	for _, entry := range entries {
		repo.entries[entry.Sku] = entry
	}

	return repo
}

func (r *fakeEntryRepo) UpsertBatch(ctx context.Context, entries []*domain.CatalogEntry) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}

	r.upserted = append(r.upserted, entries)
	for _, entry := range entries {
		r.entries[entry.Sku] = entry
	}

	return nil
}

func (r *fakeEntryRepo) GetBySku(ctx context.Context, sku string) (*domain.CatalogEntry, error) {
	entry, ok := r.entries[sku]
	if !ok {
		return nil, e.ErrEntryNotFound
	}

	return entry, nil
}

func (r *fakeEntryRepo) UpdateSyncStatus(ctx context.Context, sku string, status domain.SyncStatus, errMsg string) error {
	if r.statusErr != nil {
		return r.statusErr
	}

	r.statusWrites = append(r.statusWrites, statusWrite{sku: sku, status: status, errMsg: errMsg})
	if entry, ok := r.entries[sku]; ok {
		entry.SyncStatus = status
		entry.SyncErrorMessage = errMsg
	}

	return nil
}

type fakeTaskRepo struct {
	tasks      []*domain.SyncTask
	enqueueErr error
}

func (r *fakeTaskRepo) Enqueue(ctx context.Context, task *domain.SyncTask) error {
	if r.enqueueErr != nil {
		return r.enqueueErr
	}

	r.tasks = append(r.tasks, task)
	return nil
}

func (r *fakeTaskRepo) ClaimBatch(ctx context.Context, limit int) ([]domain.SyncTask, error) {
	return nil, nil
}

func (r *fakeTaskRepo) MarkDone(ctx context.Context, id int64) error { return nil }

func (r *fakeTaskRepo) Reschedule(ctx context.Context, id int64, runAfter time.Time, lastError string) error {
	return nil
}

func (r *fakeTaskRepo) MarkFailed(ctx context.Context, id int64, lastError string) error { return nil }

type fakeCacheRepo struct {
	entries map[string]*EntryInfo
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]*EntryInfo)}
}

func (r *fakeCacheRepo) GetEntry(ctx context.Context, sku string) (*EntryInfo, error) {
	return r.entries[sku], nil
}

func (r *fakeCacheRepo) SetEntry(ctx context.Context, entry *EntryInfo) error {
	r.entries[entry.Sku] = entry
	return nil
}

func (r *fakeCacheRepo) DeleteEntry(ctx context.Context, sku string) error {
	delete(r.entries, sku)
	r.deleted = append(r.deleted, sku)
	return nil
}

type fakeMappingResolver struct {
	resolution *MappingResolution
	err        error
}

func (r *fakeMappingResolver) Resolve(ctx context.Context, categoryName string, attributeLabels []string) (*MappingResolution, error) {
	if r.err != nil {
		return nil, r.err
	}

	if r.resolution == nil {
		return &MappingResolution{
			Attributes:       map[string]ResolvedAttribute{},
			UnmappedCategory: true,
		}, nil
	}

	return r.resolution, nil
}

type fakePlatform struct {
	remote     *RemoteProduct
	getErr     error
	getCalls   int
	createdReq *RemoteProductReq
	updatedReq *RemoteProductReq
	createErr  error
	updateErr  error

	mediaID   int64
	mediaReqs []*MediaUploadReq
	mediaErr  error

	websiteID       int64
	createSiteErr   error
	createdSiteCode string
	websites        []RemoteWebsite
	listSitesErr    error
	groupID         int64
	groupErr        error
	groupWebsiteID  int64
	groupRootCatID  int64
	viewID          int64
	viewErr         error
	viewWebsiteID   int64
	viewGroupID     int64
	customersBySite map[int64]int64
}

func (p *fakePlatform) GetProductBySku(ctx context.Context, sku string) (*RemoteProduct, error) {
	p.getCalls++
	if p.getErr != nil {
		return nil, p.getErr
	}

	return p.remote, nil
}

func (p *fakePlatform) CreateProduct(ctx context.Context, req *RemoteProductReq) (*RemoteProduct, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}

	p.createdReq = req
	return &RemoteProduct{ID: 101, Sku: req.Sku}, nil
}

func (p *fakePlatform) UpdateProduct(ctx context.Context, sku string, req *RemoteProductReq) (*RemoteProduct, error) {
	if p.updateErr != nil {
		return nil, p.updateErr
	}

	p.updatedReq = req
	return &RemoteProduct{ID: 101, Sku: sku}, nil
}

func (p *fakePlatform) UploadProductMedia(ctx context.Context, sku string, req *MediaUploadReq) (int64, error) {
	if p.mediaErr != nil {
		return 0, p.mediaErr
	}

	p.mediaReqs = append(p.mediaReqs, req)
	return p.mediaID, nil
}

func (p *fakePlatform) CreateWebsite(ctx context.Context, code, name string) (int64, error) {
	p.createdSiteCode = code
	if p.createSiteErr != nil {
		return 0, p.createSiteErr
	}

	return p.websiteID, nil
}

func (p *fakePlatform) ListWebsites(ctx context.Context) ([]RemoteWebsite, error) {
	if p.listSitesErr != nil {
		return nil, p.listSitesErr
	}

	if p.websites != nil {
		return p.websites, nil
	}

	// Код сайта генерируется со случайным префиксом, поэтому список
	// отражает код, переданный в CreateWebsite.
	return []RemoteWebsite{{ID: p.websiteID, Code: p.createdSiteCode}}, nil
}

func (p *fakePlatform) CreateStoreGroup(ctx context.Context, websiteID int64, code, name string, rootCategoryID int64) (int64, error) {
	if p.groupErr != nil {
		return 0, p.groupErr
	}

	p.groupWebsiteID = websiteID
	p.groupRootCatID = rootCategoryID
	return p.groupID, nil
}

func (p *fakePlatform) CreateStoreView(ctx context.Context, websiteID, groupID int64, code, name string) (int64, error) {
	if p.viewErr != nil {
		return 0, p.viewErr
	}

	p.viewWebsiteID = websiteID
	p.viewGroupID = groupID
	return p.viewID, nil
}

func (p *fakePlatform) CountCustomersByWebsite(ctx context.Context, websiteID int64) (int64, error) {
	return p.customersBySite[websiteID], nil
}

type fakeSession struct {
	ensureErr   map[string]error
	ensureCalls []string
	options     map[string]string
	optionErr   error
}

func (s *fakeSession) EnsureAttribute(ctx context.Context, code, label, frontendInput string) error {
	s.ensureCalls = append(s.ensureCalls, code)
	if err, ok := s.ensureErr[code]; ok {
		return err
	}

	return nil
}

func (s *fakeSession) OptionID(ctx context.Context, code, label string) (string, error) {
	if s.optionErr != nil {
		return "", s.optionErr
	}

	return s.options[code+"/"+label], nil
}

type fakeSessionFactory struct {
	session *fakeSession
}

func (f *fakeSessionFactory) NewSession() AttributeSession {
	if f.session == nil {
		f.session = &fakeSession{}
	}

	return f.session
}

type fakeProducer struct {
	events []*EntrySyncedEvent
	err    error
}

func (p *fakeProducer) PublishEntrySynced(ctx context.Context, event *EntrySyncedEvent) error {
	if p.err != nil {
		return p.err
	}

	p.events = append(p.events, event)
	return nil
}

type fakeCategoryMappingRepo struct {
	mappings map[string]*domain.CategoryMapping
	created  []string
	saved    *domain.CategoryMapping
}

func newFakeCategoryMappingRepo() *fakeCategoryMappingRepo {
	return &fakeCategoryMappingRepo{mappings: make(map[string]*domain.CategoryMapping)}
}

func (r *fakeCategoryMappingRepo) GetOrCreate(ctx context.Context, sourceName string) (*domain.CategoryMapping, error) {
	if mapping, ok := r.mappings[sourceName]; ok {
		return mapping, nil
	}

	r.created = append(r.created, sourceName)
	mapping := &domain.CategoryMapping{SourceName: sourceName}
	r.mappings[sourceName] = mapping
	return mapping, nil
}

func (r *fakeCategoryMappingRepo) Save(ctx context.Context, mapping *domain.CategoryMapping) (*domain.CategoryMapping, error) {
	mapping.IsMapped = mapping.MagentoCategoryID != nil
	r.saved = mapping
	r.mappings[mapping.SourceName] = mapping
	return mapping, nil
}

func (r *fakeCategoryMappingRepo) List(ctx context.Context) ([]domain.CategoryMapping, error) {
	result := make([]domain.CategoryMapping, 0, len(r.mappings))
	for _, mapping := range r.mappings {
		result = append(result, *mapping)
	}

	return result, nil
}

type fakeAttributeMappingRepo struct {
	mappings map[string]*domain.AttributeMapping
	created  []string
	saved    *domain.AttributeMapping
}

func newFakeAttributeMappingRepo() *fakeAttributeMappingRepo {
	return &fakeAttributeMappingRepo{mappings: make(map[string]*domain.AttributeMapping)}
}

func (r *fakeAttributeMappingRepo) GetOrCreate(ctx context.Context, sourceLabel string) (*domain.AttributeMapping, error) {
	if mapping, ok := r.mappings[sourceLabel]; ok {
		return mapping, nil
	}

	r.created = append(r.created, sourceLabel)
	mapping := &domain.AttributeMapping{SourceLabel: sourceLabel, MagentoAttributeType: domain.AttributeTypeSelect}
	r.mappings[sourceLabel] = mapping
	return mapping, nil
}

func (r *fakeAttributeMappingRepo) Save(ctx context.Context, mapping *domain.AttributeMapping) (*domain.AttributeMapping, error) {
	mapping.IsMapped = mapping.MagentoAttributeCode != nil && mapping.MagentoAttributeType != ""
	r.saved = mapping
	r.mappings[mapping.SourceLabel] = mapping
	return mapping, nil
}

func (r *fakeAttributeMappingRepo) List(ctx context.Context) ([]domain.AttributeMapping, error) {
	result := make([]domain.AttributeMapping, 0, len(r.mappings))
	for _, mapping := range r.mappings {
		result = append(result, *mapping)
	}

	return result, nil
}

type fakeStoreRepo struct {
	existing    map[string]bool
	stores      map[string]*domain.Store
	codeQueries []string
	created     *domain.Store
	createErr   error
}

func (r *fakeStoreRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.codeQueries = append(r.codeQueries, code)
	return r.existing[code], nil
}

func (r *fakeStoreRepo) GetByCode(ctx context.Context, code string) (*domain.Store, error) {
	store, ok := r.stores[code]
	if !ok {
		return nil, e.ErrStoreNotFound
	}

	return store, nil
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}

	store.ID = 1
	r.created = store
	return store, nil
}

type smsCall struct {
	recipient string
	body      string
	pattern   string
	params    map[string]string
}

type fakeSmsProvider struct {
	name       string
	sendErr    error
	patternErr error
	credit     float64
	creditErr  error
	calls      []smsCall
}

func (p *fakeSmsProvider) Name() string { return p.name }

func (p *fakeSmsProvider) Send(ctx context.Context, recipient, body string) error {
	p.calls = append(p.calls, smsCall{recipient: recipient, body: body})
	return p.sendErr
}

func (p *fakeSmsProvider) SendPattern(ctx context.Context, recipient, patternCode string, params map[string]string) error {
	p.calls = append(p.calls, smsCall{recipient: recipient, pattern: patternCode, params: params})
	return p.patternErr
}

func (p *fakeSmsProvider) Credit(ctx context.Context) (float64, error) {
	return p.credit, p.creditErr
}

type emailCall struct {
	recipient string
	subject   string
	body      string
}

type fakeEmailSender struct {
	err   error
	calls []emailCall
}

func (s *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	if s.err != nil {
		return s.err
	}

	s.calls = append(s.calls, emailCall{recipient: recipient, subject: subject, body: body})
	return nil
}

type fakeFetcher struct {
	image *FetchedImage
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, sizeLimit int64) (*FetchedImage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return f.image, nil
}

type fakeBlobStorage struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	getErr       error
	statErr      error
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (b *fakeBlobStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if b.putErr != nil {
		return b.putErr
	}

	b.objects[key] = data
	b.contentTypes[key] = contentType
	return nil
}

func (b *fakeBlobStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}

	return b.objects[key], nil
}

func (b *fakeBlobStorage) Stat(ctx context.Context, key string) (*BlobStat, error) {
	if b.statErr != nil {
		return nil, b.statErr
	}

	return &BlobStat{
		Size:        int64(len(b.objects[key])),
		ContentType: b.contentTypes[key],
	}, nil
}

type fakeLedgerRepo struct {
	account      *domain.BankAccount
	accountErr   error
	created      bool
	balance      int64
	balanceSet   bool
	transactions []*domain.Transaction
	listResult   []domain.Transaction
	listLimit    int
}

func (r *fakeLedgerRepo) GetAccountByOwner(ctx context.Context, ownerID int64) (*domain.BankAccount, error) {
	if r.accountErr != nil {
		return nil, r.accountErr
	}

	if r.account == nil {
		return nil, e.ErrAccountNotFound
	}

	account := *r.account
	return &account, nil
}

func (r *fakeLedgerRepo) GetAccountForUpdate(ctx context.Context, ownerID int64) (*domain.BankAccount, error) {
	return r.GetAccountByOwner(ctx, ownerID)
}

func (r *fakeLedgerRepo) GetOrCreateAccountForUpdate(ctx context.Context, ownerID int64) (*domain.BankAccount, error) {
	if r.account == nil && r.accountErr == nil {
		r.account = &domain.BankAccount{ID: 1, OwnerID: ownerID, Currency: "USD"}
		r.created = true
	}

	return r.GetAccountForUpdate(ctx, ownerID)
}

func (r *fakeLedgerRepo) UpdateBalance(ctx context.Context, accountID int64, balance int64) error {
	r.balance = balance
	r.balanceSet = true
	return nil
}

func (r *fakeLedgerRepo) InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	tx.ID = int64(len(r.transactions) + 1)
	r.transactions = append(r.transactions, tx)
	return tx, nil
}

func (r *fakeLedgerRepo) ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	r.listLimit = limit
	return r.listResult, nil
}

type paymentCall struct {
	refID  string
	amount int64
}

type fakePaymentProvider struct {
	receipt *PaymentReceipt
	err     error
	calls   []paymentCall
}

func (p *fakePaymentProvider) VerifyPayment(ctx context.Context, refID string, amount int64) (*PaymentReceipt, error) {
	p.calls = append(p.calls, paymentCall{refID: refID, amount: amount})
	if p.err != nil {
		return nil, p.err
	}

	return p.receipt, nil
}
