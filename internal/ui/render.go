package ui

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

const (
	MsgLoadingProducts = "Loading Products..."
	MsgNoProducts      = "No products found"
	MsgCartEmpty       = "Cart is empty. Add more items to the cart to checkout."
	MsgCartNeedsLogin  = "Login to see your cart"
	LabelAddToCart     = "ADD TO CART"
	LabelBackToExplore = "← Back to explore"
)

// Sanitizer turns backend-supplied strings into plain terminal text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text strips markup and control characters from s.
func (s *Sanitizer) Text(str string) string {
	clean := html.UnescapeString(s.policy.Sanitize(str))

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, clean)
}

// Renderer writes views as plain text.
type Renderer struct {
	sanitizer *Sanitizer
}

func NewRenderer() *Renderer {
	return &Renderer{sanitizer: NewSanitizer()}
}

// Header shows the auth buttons on the products view and a way back
// everywhere else.
func (r *Renderer) Header(w io.Writer, path string, session models.Session) {
	fmt.Fprintln(w, "=== QKart ===")

	if path != PathProducts {
		fmt.Fprintln(w, LabelBackToExplore)
		return
	}

	if session.Token == "" {
		fmt.Fprintln(w, "[Login] [Register]")
		return
	}

	fmt.Fprintf(w, "%s [Logout]\n", r.sanitizer.Text(session.Username))
}

func (r *Renderer) Products(w io.Writer, products []models.Product, loading bool) {
	if loading {
		fmt.Fprintln(w, MsgLoadingProducts)
		return
	}

	if len(products) == 0 {
		fmt.Fprintln(w, MsgNoProducts)
		return
	}

	for _, p := range products {
		r.ProductCard(w, p)
	}
}

func (r *Renderer) ProductCard(w io.Writer, p models.Product) {
	fmt.Fprintf(w, "- %s  %s\n", r.sanitizer.Text(p.Name), r.sanitizer.Text(p.ID))
	fmt.Fprintf(w, "  %s  %s  [%s]\n", FormatCost(p.Cost), Stars(p.Rating), LabelAddToCart)
}

// Cart lists line items with their stepper commands and the total.
func (r *Renderer) Cart(w io.Writer, cart models.Cart) {
	fmt.Fprintln(w, "--- Cart ---")

	if len(cart.Items) == 0 {
		fmt.Fprintln(w, MsgCartEmpty)
		return
	}

	for _, item := range cart.Items {
		fmt.Fprintf(w, "%s  %s x %d = %s   (inc %s | dec %s)\n",
			r.sanitizer.Text(item.Name),
			FormatCost(item.Cost),
			item.Quantity,
			FormatCost(item.Subtotal),
			item.ProductID,
			item.ProductID,
		)
	}

	fmt.Fprintf(w, "Order total: %s (%d items)\n", FormatCost(cart.Total), cart.ItemCount)
}

func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', -1, 64)
}

// Stars renders a 0-5 rating, rounded to the nearest whole star.
func Stars(rating float64) string {
	filled := int(math.Round(math.Max(0, math.Min(5, rating))))
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}
