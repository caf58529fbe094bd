package services

import (
	"MenuScout/models"
	"MenuScout/utils"
	"strings"
)

// BuildMenu walks the parsed payload tree along the platform's paths and
// produces the canonical menu skeleton. Customization groups stay empty here;
// the merger fills them in later. itemFilter is the order variant's knob: a
// non-empty filter keeps only the matching item and drops empty categories.
func BuildMenu(platform Platform, tree map[string]interface{}, itemFilter string) models.Menu {
	switch platform.PayloadKind {
	case PayloadJSONLD:
		return buildMenuFromJSONLD(tree)
	default:
		return buildMenuFromStorepageFeed(platform, tree, itemFilter)
	}
}

// buildMenuFromStorepageFeed handles the Apollo SSR blob. The feed node moves
// around between page generations, so every candidate path is tried.
func buildMenuFromStorepageFeed(platform Platform, tree map[string]interface{}, itemFilter string) models.Menu {
	feed := locateStorepageFeed(platform, tree)

	storeHeader := getMap(feed, "storeHeader")
	mxInfo := getMap(feed, "mxInfo")
	address := getMap(mxInfo, "address")
	headerAddress := getMap(storeHeader, "address")

	return models.Menu{
		Title:    getString(storeHeader, "name"),
		ImageURL: getString(storeHeader, "businessHeaderImgUrl"),
		LogoURL:  getString(storeHeader, "coverSquareImgUrl"),
		Address: models.Address{
			Type:       getString(address, "__typename"),
			Street:     getString(address, "street"),
			Locality:   getString(address, "city"),
			Region:     getString(address, "state"),
			PostalCode: utils.ExtractPostalCode(getString(address, "displayAddress")),
			Country:    getString(address, "countryShortname"),
		},
		OpeningHours:   extractStoreHours(mxInfo),
		PriceRange:     getString(storeHeader, "priceRangeDisplayString"),
		Telephone:      getString(mxInfo, "phoneno"),
		Latitude:       getFloat(headerAddress, "lat"),
		Longitude:      getFloat(headerAddress, "lng"),
		Cuisines:       []string{},
		CategoryGroups: extractMenuGroups(getMap(feed, "menuBook")),
		Categories:     transformItemLists(getSlice(feed, "itemLists"), itemFilter),
	}
}

func locateStorepageFeed(platform Platform, tree map[string]interface{}) map[string]interface{} {
	for _, path := range platform.FeedPaths {
		for _, result := range asSlice(getPath(tree, path...)) {
			resultMap := asMap(result)
			for _, key := range storepageResultKeys {
				feed := getMap(getMap(resultMap, key), "storepageFeed")
				if len(feed) > 0 {
					return feed
				}
			}
		}
	}
	return map[string]interface{}{}
}

// extractStoreHours flattens the operation schedule into "Day HH:MM-HH:MM"
// strings. A slot that does not split into exactly one start and one end is
// kept verbatim rather than dropped.
func extractStoreHours(mxInfo map[string]interface{}) []string {
	schedule := asSlice(getPath(mxInfo, "operationInfo", "storeOperationHourInfo", "operationSchedule"))
	hours := []string{}
	for _, dayInfo := range schedule {
		dayMap := asMap(dayInfo)
		day := capitalizeDay(getString(dayMap, "dayOfWeek"))
		for _, slot := range getSlice(dayMap, "timeSlotList") {
			slotStr, ok := slot.(string)
			if !ok {
				continue
			}
			parts := strings.Split(slotStr, " - ")
			if len(parts) != 2 {
				hours = append(hours, day+" "+slotStr)
				continue
			}
			hours = append(hours, day+" "+utils.To24Hour(parts[0])+"-"+utils.To24Hour(parts[1]))
		}
	}
	return hours
}

func capitalizeDay(day string) string {
	if day == "" {
		return ""
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}

func extractMenuGroups(menuBook map[string]interface{}) []string {
	groups := []string{}
	for _, category := range getSlice(menuBook, "menuCategories") {
		if name := getString(asMap(category), "name"); name != "" {
			groups = append(groups, name)
		}
	}
	return groups
}

func transformItemLists(itemLists []interface{}, itemFilter string) []models.Category {
	categories := []models.Category{}
	for _, itemList := range itemLists {
		listMap := asMap(itemList)
		category := models.Category{
			Title: getString(listMap, "name"),
			Items: []models.MenuItem{},
		}
		for _, item := range getSlice(listMap, "items") {
			itemMap := asMap(item)
			name := getString(itemMap, "name")
			if itemFilter != "" && !strings.EqualFold(name, itemFilter) {
				continue
			}
			category.Items = append(category.Items, models.MenuItem{
				Name:                name,
				Description:         getString(itemMap, "description"),
				ImageURL:            getString(itemMap, "imageUrl"),
				BasePrice:           utils.ParsePrice(getString(itemMap, "displayPrice")),
				CustomizationGroups: []models.CustomizationGroup{},
			})
		}
		if itemFilter != "" && len(category.Items) == 0 {
			continue
		}
		categories = append(categories, category)
	}
	return categories
}

// buildMenuFromJSONLD handles the schema.org Restaurant document.
func buildMenuFromJSONLD(tree map[string]interface{}) models.Menu {
	address := getMap(tree, "address")
	rating := getMap(tree, "aggregateRating")
	geo := getMap(tree, "geo")
	categories := parseJSONLDMenu(getMap(tree, "hasMenu"))

	groups := []string{}
	for _, category := range categories {
		if category.Title != "" {
			groups = append(groups, category.Title)
		}
	}

	return models.Menu{
		Title:    getString(tree, "name"),
		TitleURL: getString(tree, "@id"),
		Address: models.Address{
			Type:       getString(address, "@type"),
			Street:     getString(address, "streetAddress"),
			Locality:   getString(address, "addressLocality"),
			Region:     getString(address, "addressRegion"),
			PostalCode: getString(address, "postalCode"),
			Country:    getString(address, "addressCountry"),
		},
		OpeningHours: parseJSONLDOpeningHours(getSlice(tree, "openingHoursSpecification")),
		PriceRange:   getString(tree, "priceRange"),
		Telephone:    getString(tree, "telephone"),
		Rating: models.Rating{
			Value: getString(rating, "ratingValue"),
			Count: getString(rating, "reviewCount"),
		},
		Latitude:       getFloat(geo, "latitude"),
		Longitude:      getFloat(geo, "longitude"),
		Cuisines:       toStringList(tree["servesCuisine"]),
		CategoryGroups: groups,
		Categories:     categories,
	}
}

var weekDays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// parseJSONLDOpeningHours collapses the openingHoursSpecification entries into
// day-ordered "Day HH:MM-HH:MM" strings. Days without an entry are omitted.
func parseJSONLDOpeningHours(hoursData []interface{}) []string {
	byDay := map[string]string{}
	for _, entry := range hoursData {
		entryMap := asMap(entry)
		opens := utils.PadClockTime(getString(entryMap, "opens"))
		closes := utils.PadClockTime(getString(entryMap, "closes"))
		for _, day := range toStringList(entryMap["dayOfWeek"]) {
			byDay[day] = opens + "-" + closes
		}
	}

	hours := []string{}
	for _, day := range weekDays {
		if span, ok := byDay[day]; ok {
			hours = append(hours, day+" "+span)
		}
	}
	return hours
}

func parseJSONLDMenu(menuData map[string]interface{}) []models.Category {
	categories := []models.Category{}
	for _, section := range getSlice(menuData, "hasMenuSection") {
		sectionMap := asMap(section)
		category := models.Category{
			Title: getString(sectionMap, "name"),
			Items: []models.MenuItem{},
		}
		for _, item := range getSlice(sectionMap, "hasMenuItem") {
			itemMap := asMap(item)
			category.Items = append(category.Items, models.MenuItem{
				Name:                getString(itemMap, "name"),
				Description:         getString(itemMap, "description"),
				BasePrice:           getFloat(getMap(itemMap, "offers"), "price"),
				CustomizationGroups: []models.CustomizationGroup{},
			})
		}
		categories = append(categories, category)
	}
	return categories
}

// toStringList accepts the JSON-LD habit of using either a string or a list.
func toStringList(v interface{}) []string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return []string{}
		}
		return []string{value}
	case []interface{}:
		list := []string{}
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				list = append(list, s)
			}
		}
		return list
	default:
		return []string{}
	}
}
