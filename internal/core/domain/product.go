package domain

// Category is the derived display tag of a product. It is computed from the
// product's fields on every read and never stored back onto the record.
type Category string

const (
	CategoryEmbroidery Category = "embroidery"
	CategoryDry        Category = "dry"
	CategoryWood       Category = "wood"
	CategoryMetal      Category = "metal"
)

// CategoryOrder fixes the display order of the catalog tabs.
var CategoryOrder = []Category{CategoryEmbroidery, CategoryDry, CategoryWood, CategoryMetal}

// CategoryLabels maps each tag to its storefront display label.
var CategoryLabels = map[Category]string{
	CategoryEmbroidery: "Embroidery & Textile",
	CategoryDry:        "Dry Vegetables (Ker & Sangari)",
	CategoryWood:       "Wooden Handicraft",
	CategoryMetal:      "Metal / Stone Art",
}

// Product mirrors one record of the remote product list. IDs are assigned by
// the remote source and never reused. Description is a pointer so that an
// absent description stays distinct from an empty one.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"` // opaque, ordering only
}

// CatalogItem is the classified, image-resolved view of a product that is
// handed to the presentation layer.
type CatalogItem struct {
	Product  Product  `json:"product"`
	Category Category `json:"category"`
	ImageURL string   `json:"image_url"`
}
