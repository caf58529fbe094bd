package services

// PriceRule names how a displayed customization price turns into the option's
// combined price. The two storefronts disagree on what the displayed number
// means, so both rules stay explicit and selectable instead of being unified.
type PriceRule int

const (
	// PriceDoubleSingle treats the displayed delta as a single-half price and
	// doubles it for the combined price.
	PriceDoubleSingle PriceRule = iota
	// PriceSumHalves reads the same token into left and right half prices and
	// sums them.
	PriceSumHalves
)

// MergePolicy controls what happens when an extraction hits an item that
// already carries customization groups.
type MergePolicy int

const (
	// MergeFillIfEmpty only populates empty group sets. This keeps the merge
	// idempotent and is the default.
	MergeFillIfEmpty MergePolicy = iota
	// MergeOverwrite unconditionally replaces the groups.
	MergeOverwrite
)

// PayloadKind selects which mapper walks the parsed payload tree.
type PayloadKind int

const (
	// PayloadStorepageFeed is the Apollo SSR blob shape with a storepageFeed
	// node buried under one of several result paths.
	PayloadStorepageFeed PayloadKind = iota
	// PayloadJSONLD is the schema.org Restaurant JSON-LD document.
	PayloadJSONLD
)

// DetailShape selects which overlay walker reads the item detail view.
type DetailShape int

const (
	// DetailItemModal is the ItemModal overlay with role="group" sections and
	// plus-prefixed delta prices.
	DetailItemModal DetailShape = iota
	// DetailDialog is the role="dialog" overlay with pick-one/pick-many
	// sections and positional prices.
	DetailDialog
)

// Selectors is the per-platform selector table used against the live page.
type Selectors struct {
	Item         string   // visible menu item elements, re-queried after every scroll
	Overlay      string   // the item detail view
	OverlayName  string   // display name inside the overlay
	OverlayImage string   // item image inside the overlay, may be empty
	Close        []string // close controls tried in order
	Dialog       string   // blocking popups dismissed before item processing
	AddToCart    string   // order variant only
}

// Platform is the capability set that parameterizes the pipeline. Everything
// that differs between the two storefronts lives here as data; the pipeline
// code itself is shared.
type Platform struct {
	Name            string
	PayloadJS       string // JS expression yielding the embedded payload text, or ""
	PayloadKind     PayloadKind
	FeedPaths       [][]string // candidate paths to the result list (storepage feed only)
	DetailShape     DetailShape
	Selectors       Selectors
	PriceRule       PriceRule
	MergePolicy     MergePolicy
	ReloadAfterLoad bool // reload once after the first settle, some pages hydrate badly otherwise
	InitialScroll   int  // pixels scrolled right after the payload parse
	ScrollStep      int  // pixels per collection scroll
	MaxIdleScrolls  int  // consecutive no-progress scrolls before giving up
}

// DoorDash describes the Apollo-feed storefront.
var DoorDash = Platform{
	Name: "doordash",
	// The Apollo transport blob is duplicated; the second script tag is the
	// one carrying the storepage feed.
	PayloadJS: `(() => {
		const tags = [...document.querySelectorAll('script')].filter(s => s.textContent.includes('ApolloSSRDataTransport'));
		const tag = tags.length > 1 ? tags[1] : tags[0];
		return tag ? tag.textContent : '';
	})()`,
	PayloadKind: PayloadStorepageFeed,
	FeedPaths: [][]string{
		{"json", "results"},
		{"platformProps", "apolloCacheData"},
	},
	DetailShape: DetailItemModal,
	Selectors: Selectors{
		Item:         `div[data-testid="MenuItem"]`,
		Overlay:      `[data-testid="ItemModal"]`,
		OverlayName:  `h2.Text-sc-1nm69d8-0 span`,
		OverlayImage: "",
		Close:        []string{`button[aria-label^="Close"]`},
		AddToCart:    `[data-testid="AddToCartButton"]`,
	},
	PriceRule:      PriceDoubleSingle,
	MergePolicy:    MergeFillIfEmpty,
	InitialScroll:  2000,
	ScrollStep:     100,
	MaxIdleScrolls: 3,
}

// UberEats describes the JSON-LD storefront.
var UberEats = Platform{
	Name: "ubereats",
	PayloadJS: `(() => {
		const tag = document.querySelector('script[type="application/ld+json"]');
		return tag ? tag.textContent : '';
	})()`,
	PayloadKind: PayloadJSONLD,
	DetailShape: DetailDialog,
	Selectors: Selectors{
		Item:         `li[data-testid^="store-item-"]`,
		Overlay:      `div[role="dialog"]`,
		OverlayName:  `h1`,
		OverlayImage: `img[role="presentation"]`,
		Close:        []string{`button[data-testid="close-button"]`, `button[aria-label="Close"]`},
		Dialog:       `div[role="dialog"]`,
	},
	PriceRule:       PriceSumHalves,
	MergePolicy:     MergeOverwrite,
	ReloadAfterLoad: true,
	InitialScroll:   0,
	ScrollStep:      400,
	MaxIdleScrolls:  5,
}

// The doordash result list nests the feed under "result" on the older shape
// and "data" on the apolloCacheData shape; both are tried.
var storepageResultKeys = []string{"result", "data"}
