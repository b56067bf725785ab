package service

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/notify"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MsgLoginToAdd    = "Login to add an item to the Cart"
	MsgAlreadyInCart = "Item already in cart. Use the cart sidebar to update quantity or remove item."
	MsgItemNotInCart = "Item is not in the cart"
)

// Reconcile joins cart entries with the catalog. Line items keep the order
// of entries; entries whose product is not in the catalog are left out.
func Reconcile(entries []models.CartEntry, catalog []models.Product) []models.CartLineItem {

	index := models.ProductIndex(catalog)
	items := make([]models.CartLineItem, 0, len(entries))

	for _, entry := range entries {
		product, ok := index[entry.ProductID]
		if !ok {
			continue
		}

		items = append(items, models.CartLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Cost:      product.Cost,
			Rating:    product.Rating,
			Image:     product.Image,
			Quantity:  entry.Quantity,
			Subtotal:  product.Cost * float64(entry.Quantity),
		})
	}

	return items
}

// Summarize totals reconciled line items.
func Summarize(items []models.CartLineItem) models.Cart {

	cart := models.Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []models.CartLineItem{}
	}

	for _, item := range items {
		cart.Total += item.Subtotal
		cart.ItemCount += item.Quantity
	}

	return cart
}

// ProductSource supplies the catalog carts are reconciled against.
type ProductSource interface {
	Products() []models.Product
}

type AddOptions struct {
	PreventDuplicate bool
}

// CartService holds the server's cart entries for the logged-in user. Line
// items are derived from the entries and the current catalog on every read.
type CartService struct {
	repo     repository.CartRepository
	sessions *SessionService
	catalog  ProductSource
	notifier notify.Notifier

	mu      sync.RWMutex
	entries []models.CartEntry

	listenersMu sync.Mutex
	listeners   []func()
}

func NewCartService(repo repository.CartRepository, sessions *SessionService, catalog ProductSource, notifier notify.Notifier) *CartService {
	return &CartService{
		repo:     repo,
		sessions: sessions,
		catalog:  catalog,
		notifier: notifier,
	}
}

// OnChange registers fn to run after the cart entries are replaced.
func (s *CartService) OnChange(fn func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Fetch loads the cart for the current session. Without a session the cart
// is emptied and nothing is sent.
func (s *CartService) Fetch(ctx context.Context) error {

	ctx, span := telemetry.StartSpan(ctx, "CartService.Fetch")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	session := s.sessions.Current()
	if session.Token == "" {
		s.replace(nil)
		return nil
	}

	entries, err := s.repo.GetCart(ctx, session.Token)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Failed to fetch cart", slog.String("error", err.Error()))
		s.notifier.Notify(notify.VariantError, cartFetchMessage(err))
		return err
	}

	logger.Debug("Cart fetched", slog.Int("entries", len(entries)))

	s.replace(entries)
	return nil
}

// Refresh re-fetches the cart when a session exists. Used after the catalog
// is reloaded.
func (s *CartService) Refresh(ctx context.Context) error {
	if !s.sessions.LoggedIn() {
		return nil
	}

	return s.Fetch(ctx)
}

// AddToCart sets the quantity of productID in the server-side cart.
func (s *CartService) AddToCart(ctx context.Context, productID string, qty int, opts AddOptions) error {

	ctx, span := telemetry.StartSpan(ctx, "CartService.AddToCart",
		attribute.String("product.id", productID),
		attribute.Int("cart.qty", qty),
	)
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	session := s.sessions.Current()
	if session.Token == "" {
		s.notifier.Notify(notify.VariantWarning, MsgLoginToAdd)
		return appErrors.UnauthorizedError(MsgLoginToAdd)
	}

	if opts.PreventDuplicate && s.Contains(productID) {
		s.notifier.Notify(notify.VariantWarning, MsgAlreadyInCart)
		return appErrors.DuplicateEntryError(MsgAlreadyInCart)
	}

	entries, err := s.repo.AddToCart(ctx, session.Token, &models.AddToCartRequest{
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Failed to update cart",
			slog.String("product_id", productID),
			slog.Int("qty", qty),
			slog.String("error", err.Error()))
		s.notifier.Notify(notify.VariantError, appErrors.UserMessage(err, appErrors.MsgProductsUnavailable))
		return err
	}

	logger.Info("Cart updated", slog.String("product_id", productID), slog.Int("qty", qty))

	s.replace(entries)
	return nil
}

// Increment raises the quantity of productID by one, adding it when absent.
func (s *CartService) Increment(ctx context.Context, productID string) error {
	return s.AddToCart(ctx, productID, s.quantity(productID)+1, AddOptions{})
}

// Decrement lowers the quantity of productID by one. Reaching zero removes
// the item on the server.
func (s *CartService) Decrement(ctx context.Context, productID string) error {

	qty := s.quantity(productID)
	if qty == 0 {
		s.notifier.Notify(notify.VariantWarning, MsgItemNotInCart)
		return appErrors.NotFoundError(MsgItemNotInCart)
	}

	return s.AddToCart(ctx, productID, qty-1, AddOptions{})
}

// Items returns the cart reconciled against the current catalog.
func (s *CartService) Items() []models.CartLineItem {
	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	return Reconcile(entries, s.catalog.Products())
}

func (s *CartService) Cart() models.Cart {
	return Summarize(s.Items())
}

// Contains reports whether productID is among the reconciled line items.
func (s *CartService) Contains(productID string) bool {
	for _, item := range s.Items() {
		if item.ProductID == productID {
			return true
		}
	}

	return false
}

// Reset drops the local cart, e.g. on logout.
func (s *CartService) Reset() {
	s.replace(nil)
}

func (s *CartService) quantity(productID string) int {
	for _, item := range s.Items() {
		if item.ProductID == productID {
			return item.Quantity
		}
	}

	return 0
}

func (s *CartService) replace(entries []models.CartEntry) {
	s.mu.Lock()
	s.entries = append([]models.CartEntry(nil), entries...)
	s.mu.Unlock()

	s.listenersMu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// cartFetchMessage shows the backend's message only for 400 responses.
func cartFetchMessage(err error) string {
	appErr, ok := appErrors.IsAppError(err)
	if ok && appErr.Code == appErrors.ErrCodeBackend && appErr.StatusCode == http.StatusBadRequest && appErr.Message != "" {
		return appErr.Message
	}

	return appErrors.MsgCartUnavailable
}
