package scraper

import "fmt"

var (
	lazyImage  = []string{"data-src", "src"}
	plainImage = []string{"src"}
)

// Storefronts returns every supported shop in registration order.
// Search output is concatenated in this order, so it must stay stable.
func Storefronts() []Storefront {
	return []Storefront{
		{
			Name:       "outfitters",
			Brand:      "Outfitters",
			BaseURL:    "https://outfitters.com.pk",
			SearchPath: "/search?q=%s",
			Cards:      []string{".product-card, .product-item, .grid-product", "li.product, div.product"},
			Title:      []string{".product-card__title", ".title", ".product-title"},
			Price:      []string{".product-card__price", ".price", ".product-price"},
			ImageAttrs: lazyImage,
		},
		{
			Name:       "breakout",
			Brand:      "Breakout",
			BaseURL:    "https://breakout.com.pk",
			SearchPath: "/search?q=%s",
			Cards:      []string{".product-grid-item, .product"},
			Title:      []string{".product-title", "h3"},
			Price:      []string{".price", ".product-price"},
			ImageAttrs: lazyImage,
		},
		{
			Name:       "edenrobe",
			Brand:      "Edenrobe",
			BaseURL:    "https://edenrobe.com",
			SearchPath: "/search?type=product&q=%s",
			Cards:      []string{".product-item, .productgrid-item"},
			Title:      []string{".product-title", "h3"},
			Price:      []string{".price"},
			ImageAttrs: lazyImage,
		},
		{
			Name:       "nishat",
			Brand:      "Nishat",
			BaseURL:    "https://nishatlinen.com",
			SearchPath: "/search?q=%s",
			Cards:      []string{".product-list-item"},
			Title:      []string{".product-title"},
			Price:      []string{".price"},
			ImageAttrs: plainImage,
		},
		{
			Name:       "levis",
			Brand:      "Levi's",
			BaseURL:    "https://www.levi.com",
			SearchPath: "/IN/en/search?q=%s",
			Cards:      []string{".product-tile, .product-card"},
			Title:      []string{".product-name", ".product-title"},
			Price:      []string{".product-price", ".price"},
			ImageAttrs: lazyImage,
		},
		{
			Name:       "uno",
			Brand:      "Uno",
			BaseURL:    "https://uno.com.pk",
			SearchPath: "/search?q=%s",
			Cards:      []string{".product, .productCard"},
			Title:      []string{".product-title", "h3"},
			Price:      []string{".price"},
			ImageAttrs: plainImage,
		},
		{
			Name:       "royaltag",
			Brand:      "Royal Tag",
			BaseURL:    "https://royaltag.com",
			SearchPath: "/search?q=%s",
			Cards:      []string{".product, .product-list-item"},
			Title:      []string{".product-title"},
			Price:      []string{".price"},
			ImageAttrs: plainImage,
		},
		{
			Name:       "gulahmad",
			Brand:      "GulAhmed",
			BaseURL:    "https://gulahmad.com.pk",
			SearchPath: "/search?q=%s",
			Cards:      []string{".product-card"},
			Title:      []string{".product-name"},
			Price:      []string{".price"},
			ImageAttrs: plainImage,
		},
	}
}

// SelectStorefronts filters the registry by name while keeping registration order.
// An empty selection returns every storefront.
func SelectStorefronts(names []string) ([]Storefront, error) {
	all := Storefronts()
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	selected := make([]Storefront, 0, len(names))
	for _, site := range all {
		if wanted[site.Name] {
			selected = append(selected, site)
			delete(wanted, site.Name)
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("unknown storefront %q", n)
	}
	return selected, nil
}
