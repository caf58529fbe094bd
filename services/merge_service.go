package services

import (
	"MenuScout/models"
)

// MergeItemDetails reconciles every accumulated extraction into the menu.
// Under MergeFillIfEmpty the operation is idempotent and order independent
// across distinct item names: replaying the same extraction list, in any
// order, yields the same menu.
func MergeItemDetails(menu *models.Menu, details []models.ItemDetail, policy MergePolicy) {
	for _, detail := range details {
		MergeItemDetail(menu, detail, policy)
	}
}

// MergeItemDetail attaches one extraction to the first item whose name
// matches, case sensitively. The scan stops at the first match so duplicate
// names across categories resolve to the first occurrence in scan order.
// Extractions with no matching item are dropped silently: the live page can
// show items the structured payload never listed.
func MergeItemDetail(menu *models.Menu, detail models.ItemDetail, policy MergePolicy) {
	if detail.ItemName == "" {
		return
	}

	for ci := range menu.Categories {
		items := menu.Categories[ci].Items
		for ii := range items {
			if items[ii].Name != detail.ItemName {
				continue
			}
			if policy == MergeFillIfEmpty && len(items[ii].CustomizationGroups) > 0 {
				// Already populated; a second attempt is a no-op.
				return
			}
			items[ii].CustomizationGroups = detail.Groups
			if detail.ImageURL != "" {
				items[ii].ImageURL = detail.ImageURL
			}
			return
		}
	}
}
