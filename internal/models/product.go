package models

// Product is a catalog entry as served by the backend. Products are never
// mutated client-side; a fetch or search replaces the whole list.
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   float64 `json:"rating"`
	Image    string  `json:"image"`
}

// ProductIndex maps product ids to products for lookups during a join.
func ProductIndex(products []Product) map[string]Product {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}

	return index
}
