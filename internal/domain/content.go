package domain

// CatalogItem is a rentable product. The core only reads it.
type CatalogItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Styles       []string `json:"styles"`
	Rooms        []string `json:"rooms"`
	ImageURL     string   `json:"imageUrl"`
	Description  string   `json:"description"`
	Availability string   `json:"availability"`
	Tags         []string `json:"tags"`
}

// Facet is one entry of a catalog vocabulary (category, room or style).
type Facet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

// Catalog is the catalog index document.
type Catalog struct {
	Items      []CatalogItem `json:"items"`
	Categories []Facet       `json:"categories"`
	Rooms      []Facet       `json:"rooms"`
	Styles     []Facet       `json:"styles"`
}

// BlogIndexEntry points at a per-post document.
type BlogIndexEntry struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// BlogPost is a single article document.
type BlogPost struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"publishedDate"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	Excerpt       string   `json:"excerpt"`
	ReadTime      string   `json:"readTime"`
	Content       string   `json:"content"`
}

// PricingTier is one subscription plan.
type PricingTier struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       string   `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	Popular     bool     `json:"popular" yaml:"popular"`
}

// DefaultPricingTiers are used when the config does not list any.
func DefaultPricingTiers() []PricingTier {
	return []PricingTier{
		{
			ID:          "starter",
			Name:        "Starter",
			Price:       "₹3,999",
			Description: "Perfect for smaller spaces or those just starting their décor journey.",
			Features:    []string{"3-4 curated items per month", "Standard collection access", "Free monthly delivery", "Easy 1-click swaps", "Cancel anytime"},
		},
		{
			ID:          "standard",
			Name:        "Standard",
			Price:       "₹6,999",
			Description: "Our most popular plan, designed for a full-room refresh every month.",
			Features:    []string{"5-7 curated items per month", "Premium collection access", "Free priority delivery", "Priority customer support", "Styling consultation (15m)", "Swap 2x per month"},
			Popular:     true,
		},
		{
			ID:          "premium",
			Name:        "Premium",
			Price:       "₹11,999",
			Description: "The ultimate décor experience for large spaces and design enthusiasts.",
			Features:    []string{"8-10 curated items per month", "Exclusive artisan collection", "White-glove delivery & setup", "Personal design concierge", "Unlimited monthly swaps", "Early access to new drops"},
		},
	}
}
