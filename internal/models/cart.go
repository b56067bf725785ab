package models

// CartEntry is the server-held record of a product in the user's cart.
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// CartLineItem is a cart entry joined with its product, ready for display.
type CartLineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Cost      float64 `json:"cost"`
	Rating    float64 `json:"rating"`
	Image     string  `json:"image"`
	Quantity  int     `json:"qty"`
	Subtotal  float64 `json:"subtotal"`
}

type Cart struct {
	Items     []CartLineItem `json:"items"`
	Total     float64        `json:"total"`
	ItemCount int            `json:"item_count"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"qty"       validate:"gte=0"`
}
