package models

// Menu is the canonical output schema shared by every platform scraper.
type Menu struct {
	MenuID         string     `json:"menu_id"`
	Title          string     `json:"title"`
	TitleURL       string     `json:"titleURL"`
	ImageURL       string     `json:"ImageURL"`
	LogoURL        string     `json:"LogoURL"`
	Address        Address    `json:"restaurantAddress"`
	OpeningHours   []string   `json:"storeOpeningHours"`
	PriceRange     string     `json:"priceRange"`
	Telephone      string     `json:"telephone"`
	Rating         Rating     `json:"rating"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Cuisines       []string   `json:"cuisine"`
	CategoryGroups []string   `json:"menu_groups"`
	Categories     []Category `json:"categories"`
}

type Address struct {
	Type       string `json:"@type"`
	Street     string `json:"streetAddress"`
	Locality   string `json:"addressLocality"`
	Region     string `json:"addressRegion"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"addressCountry"`
}

type Rating struct {
	Value string `json:"ratingValue"`
	Count string `json:"ratingCount"`
}

type Category struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"menu"`
}

// MenuItem keys merges by Name. The name is unique within one category but may
// repeat across categories; merging fills the first match found in scan order.
type MenuItem struct {
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	ImageURL            string               `json:"imageUrl"`
	BasePrice           float64              `json:"price"`
	CustomizationGroups []CustomizationGroup `json:"ingredientsGroups"`
}

type CustomizationGroup struct {
	Type         string                `json:"type"`
	Name         string                `json:"name"`
	SelectionMin int                   `json:"requiresSelectionMin"`
	SelectionMax int                   `json:"requiresSelectionMax"`
	Options      []CustomizationOption `json:"ingredients"`
}

// UnlimitedAdd marks options the storefront lets you stack without limit.
const UnlimitedAdd = 999999

type CustomizationOption struct {
	Name           string  `json:"name"`
	MaxQuantity    int     `json:"possibleToAdd"`
	Price          float64 `json:"price"`
	LeftHalfPrice  float64 `json:"leftHalfPrice"`
	RightHalfPrice float64 `json:"rightHalfPrice"`
}

// ItemDetail is what one overlay interaction yields: the display name read
// from the open detail view plus every customization group it exposed. It is
// consumed by the merger and kept only in the per-request accumulation list.
type ItemDetail struct {
	ItemName string               `json:"item_name"`
	ImageURL string               `json:"image_url"`
	Groups   []CustomizationGroup `json:"item_details"`
}
