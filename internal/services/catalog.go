package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/notify"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultSearchDebounce = 800 * time.Millisecond

// CatalogService owns the product list and the search results shown to the
// user. The catalog is what GET /products returned; the displayed set is
// the catalog or the latest applied search result.
type CatalogService struct {
	repo      repository.ProductRepository
	notifier  notify.Notifier
	debouncer *Debouncer

	mu        sync.RWMutex
	products  []models.Product
	displayed []models.Product
	loading   bool
	searchSeq uint64

	listenersMu      sync.Mutex
	catalogListeners []func()
	displayListeners []func()
}

func NewCatalogService(repo repository.ProductRepository, notifier notify.Notifier, debouncer *Debouncer) *CatalogService {
	if debouncer == nil {
		debouncer = NewDebouncer(DefaultSearchDebounce)
	}

	return &CatalogService{
		repo:      repo,
		notifier:  notifier,
		debouncer: debouncer,
	}
}

// OnCatalogChange registers fn to run after the catalog is replaced.
func (s *CatalogService) OnCatalogChange(fn func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.catalogListeners = append(s.catalogListeners, fn)
}

// OnDisplayChange registers fn to run after the displayed set or the
// loading flag changes.
func (s *CatalogService) OnDisplayChange(fn func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.displayListeners = append(s.displayListeners, fn)
}

// Load fetches the full product list. On failure the previous state is
// kept, which on first load means an empty list.
func (s *CatalogService) Load(ctx context.Context) error {

	ctx, span := telemetry.StartSpan(ctx, "CatalogService.Load")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	s.setLoading(true)
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Failed to load products", slog.String("error", err.Error()))
		s.setLoading(false)
		s.notifier.Notify(notify.VariantError, appErrors.UserMessage(err, appErrors.MsgProductsUnavailable))
		return err
	}

	if products == nil {
		products = []models.Product{}
	}

	s.mu.Lock()
	s.products = products
	s.displayed = products
	s.loading = false
	s.mu.Unlock()

	logger.Info("Products loaded", slog.Int("count", len(products)))

	s.emit(true)
	return nil
}

// Search replaces the displayed set with the backend's matches for text.
// A 404 means no matches. A result is dropped if a newer search was issued
// while it was in flight.
func (s *CatalogService) Search(ctx context.Context, text string) error {

	ctx, span := telemetry.StartSpan(ctx, "CatalogService.Search", attribute.String("search.text", text))
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	s.mu.Lock()
	s.searchSeq++
	seq := s.searchSeq
	s.loading = true
	s.mu.Unlock()
	s.emit(false)

	results, err := s.repo.SearchProducts(ctx, text)
	if err != nil && appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
		results, err = []models.Product{}, nil
	}

	s.mu.Lock()
	if seq != s.searchSeq {
		s.mu.Unlock()
		metrics.SearchStale()
		logger.Debug("Dropping stale search result", slog.String("text", text))
		return nil
	}

	s.loading = false
	if err == nil {
		if results == nil {
			results = []models.Product{}
		}
		s.displayed = results
	}
	s.mu.Unlock()

	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Search failed", slog.String("text", text), slog.String("error", err.Error()))
		s.emit(false)
		s.notifier.Notify(notify.VariantError, appErrors.UserMessage(err, appErrors.MsgProductsUnavailable))
		return err
	}

	logger.Debug("Search applied", slog.String("text", text), slog.Int("count", len(results)))

	s.emit(false)
	return nil
}

// OnSearchInput is called on every change of the search box. The search
// itself runs once the input has been quiet for the debounce delay.
func (s *CatalogService) OnSearchInput(ctx context.Context, text string) {
	s.debouncer.Trigger(func() {
		_ = s.Search(context.WithoutCancel(ctx), text)
	})
}

// Close cancels any pending debounced search.
func (s *CatalogService) Close() {
	s.debouncer.Stop()
}

// Products returns the catalog as last loaded.
func (s *CatalogService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.Product, 0, len(s.products)), s.products...)
}

// Displayed returns the set currently shown to the user.
func (s *CatalogService) Displayed() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.Product, 0, len(s.displayed)), s.displayed...)
}

func (s *CatalogService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

func (s *CatalogService) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()

	s.emit(false)
}

func (s *CatalogService) emit(catalogChanged bool) {
	s.listenersMu.Lock()
	listeners := append([]func(){}, s.displayListeners...)
	if catalogChanged {
		listeners = append(append([]func(){}, s.catalogListeners...), listeners...)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
