// Package services содержит бизнес-логику управления снапшотами:
// валидацию, нормализацию, перерасчёт стоимостей и кеширование списков.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/calderondev/package-quoter/internal/events"
	"github.com/calderondev/package-quoter/internal/lib/months"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
	"github.com/calderondev/package-quoter/internal/pricing"
	"github.com/calderondev/package-quoter/internal/storage/repository"
)

// ErrSnapshotNotFound возвращается, когда снапшот с указанным ID отсутствует.
var ErrSnapshotNotFound = repository.ErrSnapshotNotFound

// activeListCacheKey — ключ кеша списка активных снапшотов.
const activeListCacheKey = "snapshots:active"

// activeListCacheTTL — время жизни кеша списка активных снапшотов.
const activeListCacheTTL = 5 * time.Minute

// SnapshotRepository определяет методы для работы со снапшотами в хранилище.
type SnapshotRepository interface {
	// CreateSnapshot добавляет новый снапшот и возвращает его ID.
	CreateSnapshot(ctx context.Context, snap models.Snapshot) (string, error)
	// ReadSnapshot возвращает снапшот по ID.
	ReadSnapshot(ctx context.Context, id string) (*models.Snapshot, error)
	// UpdateSnapshot целиком заменяет снапшот по ID.
	UpdateSnapshot(ctx context.Context, snap models.Snapshot, id string) (int, error)
	// RemoveSnapshot удаляет снапшот по ID и возвращает количество удалённых записей.
	RemoveSnapshot(ctx context.Context, id string) (int, error)
	// ListSnapshots возвращает только активные снапшоты.
	ListSnapshots(ctx context.Context) ([]*models.Snapshot, error)
	// ListAllSnapshots возвращает все снапшоты, включая неактивные.
	ListAllSnapshots(ctx context.Context) ([]*models.Snapshot, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher описывает публикацию событий жизненного цикла снапшотов.
type EventPublisher interface {
	Publish(routingKey string, event events.SnapshotEvent) error
}

// SnapshotService реализует бизнес-логику работы со снапшотами.
type SnapshotService struct {
	repo    SnapshotRepository
	cache   Cache
	events  EventPublisher
	catalog []models.OptionalService
	log     *slog.Logger
}

// NewSnapshotService создаёт новый экземпляр SnapshotService.
// catalog — каталог дополнительных услуг, слитый из legacy-конфига при старте.
// events может быть nil, если публикация событий не настроена.
func NewSnapshotService(repo SnapshotRepository, cache Cache, events EventPublisher,
	catalog []models.OptionalService, log *slog.Logger) *SnapshotService {
	return &SnapshotService{
		repo:    repo,
		cache:   cache,
		events:  events,
		catalog: catalog,
		log:     log,
	}
}

// fromDraft собирает доменный снапшот из черновика запроса:
// проценты скидок приводятся к [0,100], разбивка месяцев дополнительных
// услуг нормализуется, услугам без ID назначаются новые.
func fromDraft(req models.DummySnapshot) models.Snapshot {
	snap := models.Snapshot{
		Name:         req.Name,
		BaseServices: make([]models.BaseService, len(req.BaseServices)),
		Package: models.Package{
			Name:                          req.Package.Name,
			DevelopmentCost:               req.Package.DevelopmentCost,
			DiscountPercent:               pricing.ClampPercent(req.Package.DiscountPercent),
			Type:                          req.Package.Type,
			Description:                   req.Package.Description,
			GeneralDiscount:               req.Package.GeneralDiscount,
			PerServiceDiscount:            req.Package.PerServiceDiscount,
			OneTimePaymentDiscountPercent: pricing.ClampPercent(req.Package.OneTimePaymentDiscountPercent),
			PaymentOptions:                req.Package.PaymentOptions,
		},
		OptionalServices: make([]models.OptionalService, len(req.OptionalServices)),
		Active:           req.Active,
	}
	copy(snap.BaseServices, req.BaseServices)

	snap.Package.GeneralDiscount.Percent = pricing.ClampPercent(snap.Package.GeneralDiscount.Percent)
	for i, o := range snap.Package.PerServiceDiscount.BaseServiceOverrides {
		snap.Package.PerServiceDiscount.BaseServiceOverrides[i].Percent = pricing.ClampPercent(o.Percent)
	}
	for i, o := range snap.Package.PerServiceDiscount.OptionalServiceOverrides {
		snap.Package.PerServiceDiscount.OptionalServiceOverrides[i].Percent = pricing.ClampPercent(o.Percent)
	}
	for i, opt := range snap.Package.PaymentOptions {
		snap.Package.PaymentOptions[i].Percent = pricing.ClampPercent(opt.Percent)
	}

	for i := range snap.BaseServices {
		if snap.BaseServices[i].ID == "" {
			snap.BaseServices[i].ID = uuid.New().String()
		}
	}
	for i, svc := range req.OptionalServices {
		svc.FreeMonths, svc.PaidMonths = months.Normalize(svc.FreeMonths, svc.PaidMonths)
		if svc.ID == "" {
			svc.ID = uuid.New().String()
		}
		snap.OptionalServices[i] = svc
	}

	snap.Costs = pricing.Summary(&snap)
	return snap
}

// Create создаёт новый снапшот из черновика, назначает ему ID и дату
// создания, рассчитывает стоимости и возвращает каноническую копию.
func (s *SnapshotService) Create(ctx context.Context, req models.DummySnapshot) (*models.Snapshot, error) {
	snap := fromDraft(req)
	snap.ID = uuid.New().String()
	snap.CreatedAt = time.Now().UTC()

	id, err := s.repo.CreateSnapshot(ctx, snap)
	if err != nil {
		return nil, err
	}
	snap.ID = id

	s.invalidateListing()
	s.publish(events.RoutingKeySnapshotUpdated, snap)
	return &snap, nil
}

// Read возвращает снапшот по ID.
func (s *SnapshotService) Read(ctx context.Context, id string) (*models.Snapshot, error) {
	return s.repo.ReadSnapshot(ctx, id)
}

// Update целиком заменяет снапшот новым состоянием черновика.
// Дата создания сохраняется, стоимости рассчитываются заново:
// присланные клиентом значения costs никогда не принимаются на веру.
func (s *SnapshotService) Update(ctx context.Context, id string, req models.DummySnapshot) (*models.Snapshot, error) {
	existing, err := s.repo.ReadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := fromDraft(req)
	snap.ID = existing.ID
	snap.CreatedAt = existing.CreatedAt

	count, err := s.repo.UpdateSnapshot(ctx, snap, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrSnapshotNotFound
	}

	s.invalidateListing()
	s.publish(events.RoutingKeySnapshotUpdated, snap)
	return &snap, nil
}

// Remove удаляет снапшот по ID и возвращает количество удалённых записей.
func (s *SnapshotService) Remove(ctx context.Context, id string) (int, error) {
	count, err := s.repo.RemoveSnapshot(ctx, id)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidateListing()
		s.publish(events.RoutingKeySnapshotRemoved, models.Snapshot{ID: id})
	}
	return count, nil
}

// List возвращает активные снапшоты, используя кеш списка.
func (s *SnapshotService) List(ctx context.Context) ([]*models.Snapshot, error) {
	var cached []*models.Snapshot
	found, err := s.cache.Get(activeListCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read listing cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(activeListCacheKey, result, activeListCacheTTL); err != nil {
		s.log.Warn("failed to write listing cache", sl.Err(err))
	}
	return result, nil
}

// ListAll возвращает все снапшоты, включая неактивные.
// Кеш не используется: редактору нужно свежее состояние.
func (s *SnapshotService) ListAll(ctx context.Context) ([]*models.Snapshot, error) {
	return s.repo.ListAllSnapshots(ctx)
}

// SetActive меняет флаг публикации снапшота и пересчитывает стоимости.
// Это единственный путь изменения поля Active.
func (s *SnapshotService) SetActive(ctx context.Context, id string, active bool) (*models.Snapshot, error) {
	snap, err := s.repo.ReadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	snap.Active = active
	snap.Costs = pricing.Summary(snap)

	count, err := s.repo.UpdateSnapshot(ctx, *snap, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrSnapshotNotFound
	}

	s.invalidateListing()
	s.publish(events.RoutingKeySnapshotActivated, *snap)
	return snap, nil
}

// Preview рассчитывает стоимости, предпросмотр скидок и план оплаты
// для черновика без сохранения.
func (s *SnapshotService) Preview(req models.DummySnapshot) (models.CostSummary, pricing.DiscountPreview, pricing.PaymentPlanPreview) {
	snap := fromDraft(req)
	return snap.Costs, pricing.PreviewDiscounts(&snap), pricing.PreviewPaymentPlan(snap.Package)
}

// Catalog возвращает каталог дополнительных услуг,
// слитый из legacy-конфига при старте.
func (s *SnapshotService) Catalog() []models.OptionalService {
	return s.catalog
}

func (s *SnapshotService) invalidateListing() {
	if err := s.cache.Invalidate(activeListCacheKey); err != nil {
		s.log.Warn("failed to invalidate listing cache", sl.Err(err))
	}
}

// publish отправляет событие жизненного цикла снапшота.
// Публикация выполняется по возможности: её ошибка логируется
// и никогда не приводит к отказу сохранения.
func (s *SnapshotService) publish(routingKey string, snap models.Snapshot) {
	if s.events == nil {
		return
	}
	event := events.SnapshotEvent{
		SnapshotID: snap.ID,
		Name:       snap.Name,
		Active:     snap.Active,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish snapshot event", sl.Err(err))
	}
}

// IsNotFound сообщает, является ли ошибка отсутствием снапшота.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}
