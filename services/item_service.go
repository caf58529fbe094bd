package services

import (
	"MenuScout/models"
	"MenuScout/utils"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseItemDetail reads one captured detail-overlay HTML fragment into an
// ItemDetail. The overlay is parsed offline with goquery instead of being
// poked element by element, so a single OuterHTML round trip per item is all
// the live page has to survive.
func ParseItemDetail(platform Platform, overlayHTML string) (models.ItemDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(overlayHTML))
	if err != nil {
		return models.ItemDetail{}, fmt.Errorf("overlay parse failed: %w", err)
	}

	switch platform.DetailShape {
	case DetailDialog:
		return parseDialogDetail(platform, doc), nil
	default:
		return parseItemModalDetail(platform, doc), nil
	}
}

// combinePrice applies the platform's price-combination rule to the raw
// single-side value read off the overlay.
func combinePrice(rule PriceRule, single float64) (price, leftHalf, rightHalf float64) {
	switch rule {
	case PriceSumHalves:
		return single + single, single, single
	default:
		return single * 2, single, single
	}
}

// parseItemModalDetail walks the ItemModal shape: role="group" sections, a
// "select N" hint span, and two option markups. The multi-add markup carries a
// plus-prefixed delta price and no add limit; the label markup is
// single-select.
func parseItemModalDetail(platform Platform, doc *goquery.Document) models.ItemDetail {
	detail := models.ItemDetail{
		ItemName: strings.TrimSpace(doc.Find(platform.Selectors.OverlayName).First().Text()),
		Groups:   []models.CustomizationGroup{},
	}

	doc.Find(`div[role="group"]`).Each(func(_ int, group *goquery.Selection) {
		groupName := strings.TrimSpace(group.Find("h3.Text-sc-1nm69d8-0.hBnZXN").First().Text())

		selectionMax := 0
		hintSpans := group.Find("span.Text-sc-1nm69d8-0.gFJzBa")
		if hintSpans.Length() > 1 {
			selectionMax = utils.ExtractDigits(hintSpans.Eq(1).Text())
		}

		options := []models.CustomizationOption{}

		multiAdd := group.Find("div.sc-724a33a-8")
		if multiAdd.Length() > 0 {
			multiAdd.Each(func(_ int, option *goquery.Selection) {
				name := strings.TrimSpace(option.Find("span.Text-sc-1nm69d8-0.ZNLaC").First().Text())
				options = append(options, buildModalOption(platform, option, name, models.UnlimitedAdd))
			})
		} else {
			group.Find("label").Each(func(_ int, option *goquery.Selection) {
				name := strings.TrimSpace(option.Find("span.Text-sc-1nm69d8-0").First().Text())
				options = append(options, buildModalOption(platform, option, name, 1))
			})
		}

		detail.Groups = append(detail.Groups, models.CustomizationGroup{
			Type:         "general",
			Name:         groupName,
			SelectionMin: 0,
			SelectionMax: selectionMax,
			Options:      options,
		})
	})

	return detail
}

func buildModalOption(platform Platform, option *goquery.Selection, name string, maxQuantity int) models.CustomizationOption {
	single := modalDeltaPrice(option)
	price, leftHalf, rightHalf := combinePrice(platform.PriceRule, single)
	return models.CustomizationOption{
		Name:           name,
		MaxQuantity:    maxQuantity,
		Price:          price,
		LeftHalfPrice:  leftHalf,
		RightHalfPrice: rightHalf,
	}
}

// modalDeltaPrice picks the plus-prefixed price span, skipping the calorie
// spans that share the same class. No price span means a free option.
func modalDeltaPrice(option *goquery.Selection) float64 {
	raw := ""
	option.Find("span.Text-sc-1nm69d8-0.dCneXH").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.Contains(span.Text(), "+") {
			raw = span.Text()
			return false
		}
		return true
	})
	if raw == "" {
		return 0.0
	}
	return utils.ParsePrice(raw)
}

// parseDialogDetail walks the dialog shape: pick-many and pick-one sections
// whose options are labels with positional cells (name first, price third).
func parseDialogDetail(platform Platform, doc *goquery.Document) models.ItemDetail {
	detail := models.ItemDetail{
		ItemName: strings.TrimSpace(doc.Find(platform.Selectors.OverlayName).First().Text()),
		Groups:   []models.CustomizationGroup{},
	}
	if platform.Selectors.OverlayImage != "" {
		detail.ImageURL, _ = doc.Find(platform.Selectors.OverlayImage).First().Attr("src")
	}

	for _, sectionSelector := range []string{
		`div[data-testid="customization-pick-many"]`,
		`div[data-testid="customization-pick-one"]`,
	} {
		doc.Find(sectionSelector).Each(func(_ int, section *goquery.Selection) {
			header := section.ChildrenFiltered("div").First()
			groupName := strings.TrimSpace(header.Find("div").First().Text())
			selectionMax := utils.ExtractDigits(header.Text())

			options := []models.CustomizationOption{}
			section.Find("label").Each(func(_ int, option *goquery.Selection) {
				cells := option.Find("div > div > div > div > div")
				name := strings.TrimSpace(cells.Eq(0).Text())
				single := 0.0
				if cells.Length() > 2 {
					single = utils.ParseDisplayPrice(cells.Eq(2).Text())
				} else {
					log.Printf("No price cell found for option %q, defaulting to 0", name)
				}
				price, leftHalf, rightHalf := combinePrice(platform.PriceRule, single)
				options = append(options, models.CustomizationOption{
					Name:           name,
					MaxQuantity:    1,
					Price:          price,
					LeftHalfPrice:  leftHalf,
					RightHalfPrice: rightHalf,
				})
			})

			detail.Groups = append(detail.Groups, models.CustomizationGroup{
				Type:         "general",
				Name:         groupName,
				SelectionMin: 0,
				SelectionMax: selectionMax,
				Options:      options,
			})
		})
	}

	return detail
}
