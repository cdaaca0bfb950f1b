package model

// Product is one entry in the menu catalog.  The catalog is read with
// full scans only; there is no per-product mutation surface beyond
// administration inserts.
type Product struct {
	ID         uint64 `json:"id"`          // products.id
	Name       string `json:"name"`        // products.name
	PriceCents int64  `json:"price_cents"` // products.price_cents
}
