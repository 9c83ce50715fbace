package domain

// WishlistItem mirrors CartLineItem for the wishlist container. Wishlist
// entries carry no quantity; an item is either on the list or not.
type WishlistItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	UserID       string `json:"user_id"`
	UnitPrice    int64  `json:"unit_price"`
	DisplayPrice int64  `json:"display_price"`
	Name         string `json:"name"`
	ImageURL     string `json:"image_url,omitempty"`
	Category     string `json:"category,omitempty"`
}

// Key returns the composite dedup key for the wishlist entry.
func (i WishlistItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, UserID: i.UserID}
}
