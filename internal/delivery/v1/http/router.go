package http

import (
	"github.com/go-chi/chi/v5"
	_ "github.com/storeforge/backend/docs" // Импорт сгенерированных файлов
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(
	catalogUC usecase.CatalogUC,
	mappingUC usecase.MappingUC,
	storeUC usecase.StoreUC,
	notificationUC usecase.NotificationUC,
	ledgerUC usecase.LedgerUC,
) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCatalogRoutes(v1, NewCatalogHandler(catalogUC, r.logger))
		registerMappingRoutes(v1, NewMappingHandler(mappingUC, r.logger))
		registerStoreRoutes(v1, NewStoreHandler(storeUC, r.logger))
		registerNotificationRoutes(v1, NewNotificationHandler(notificationUC, r.logger))
		registerLedgerRoutes(v1, NewLedgerHandler(ledgerUC, r.logger))
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/catalog", func(c chi.Router) {
		c.Post("/ingest", h.ingestRecords)
		c.Get("/{sku}", h.getEntry)
		c.Patch("/{sku}/status", h.reviewEntry)
		c.Post("/{sku}/sync", h.requestSync)
	})
}

func registerMappingRoutes(router chi.Router, h *MappingHandler) {
	router.Route("/mappings", func(m chi.Router) {
		m.Get("/categories", h.listCategoryMappings)
		m.Put("/categories", h.saveCategoryMapping)
		m.Get("/attributes", h.listAttributeMappings)
		m.Put("/attributes", h.saveAttributeMapping)
	})
}

func registerStoreRoutes(router chi.Router, h *StoreHandler) {
	router.Route("/stores", func(s chi.Router) {
		s.Post("/", h.provisionStore)
		s.Get("/{code}/customers", h.customerCount)
	})
}

func registerNotificationRoutes(router chi.Router, h *NotificationHandler) {
	router.Route("/notifications", func(n chi.Router) {
		n.Post("/", h.dispatch)
		n.Get("/sms/credit", h.smsCredit)
	})
}

func registerLedgerRoutes(router chi.Router, h *LedgerHandler) {
	router.Route("/accounts/{ownerID}", func(a chi.Router) {
		a.Post("/deposit", h.deposit)
		a.Post("/withdraw", h.withdraw)
		a.Post("/payments/verify", h.verifyPayment)
		a.Get("/balance", h.balance)
		a.Get("/transactions", h.transactions)
	})
}
