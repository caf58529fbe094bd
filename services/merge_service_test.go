package services

import (
	"MenuScout/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMenu() models.Menu {
	return models.Menu{
		Categories: []models.Category{
			{Title: "Pizzas", Items: []models.MenuItem{
				{Name: "Margherita", CustomizationGroups: []models.CustomizationGroup{}},
				{Name: "Diavola", CustomizationGroups: []models.CustomizationGroup{}},
			}},
			{Title: "Specials", Items: []models.MenuItem{
				{Name: "Margherita", CustomizationGroups: []models.CustomizationGroup{}},
			}},
		},
	}
}

func groupsNamed(name string) []models.CustomizationGroup {
	return []models.CustomizationGroup{{Type: "general", Name: name}}
}

func TestMergeFillsFirstMatch(t *testing.T) {
	menu := sampleMenu()
	detail := models.ItemDetail{ItemName: "Margherita", ImageURL: "https://img.example/m.jpg", Groups: groupsNamed("Toppings")}

	MergeItemDetail(&menu, detail, MergeFillIfEmpty)

	// First occurrence in scan order gets the groups; the duplicate in the
	// later category stays untouched.
	assert.Equal(t, "Toppings", menu.Categories[0].Items[0].CustomizationGroups[0].Name)
	assert.Equal(t, "https://img.example/m.jpg", menu.Categories[0].Items[0].ImageURL)
	assert.Empty(t, menu.Categories[1].Items[0].CustomizationGroups)
}

func TestMergeIsIdempotent(t *testing.T) {
	menu := sampleMenu()
	details := []models.ItemDetail{
		{ItemName: "Margherita", Groups: groupsNamed("Toppings")},
		{ItemName: "Diavola", Groups: groupsNamed("Heat Level")},
	}

	once := sampleMenu()
	MergeItemDetails(&once, details, MergeFillIfEmpty)

	MergeItemDetails(&menu, details, MergeFillIfEmpty)
	MergeItemDetails(&menu, details, MergeFillIfEmpty)

	assert.Equal(t, once, menu)
	// The duplicate Margherita must still be empty after the replay.
	assert.Empty(t, menu.Categories[1].Items[0].CustomizationGroups)
}

func TestMergeIsOrderIndependent(t *testing.T) {
	a := models.ItemDetail{ItemName: "Margherita", Groups: groupsNamed("Toppings")}
	b := models.ItemDetail{ItemName: "Diavola", Groups: groupsNamed("Heat Level")}

	menuAB := sampleMenu()
	MergeItemDetails(&menuAB, []models.ItemDetail{a, b}, MergeFillIfEmpty)

	menuBA := sampleMenu()
	MergeItemDetails(&menuBA, []models.ItemDetail{b, a}, MergeFillIfEmpty)

	assert.Equal(t, menuAB, menuBA)
}

func TestMergeUnknownItemIsNoOp(t *testing.T) {
	menu := sampleMenu()
	before := sampleMenu()

	MergeItemDetail(&menu, models.ItemDetail{ItemName: "Calzone", Groups: groupsNamed("Fillings")}, MergeFillIfEmpty)

	assert.Equal(t, before, menu)
}

func TestMergeEmptyNameIsNoOp(t *testing.T) {
	menu := sampleMenu()
	before := sampleMenu()

	MergeItemDetail(&menu, models.ItemDetail{Groups: groupsNamed("Toppings")}, MergeFillIfEmpty)

	assert.Equal(t, before, menu)
}

func TestMergeDoesNotOverwritePopulatedGroups(t *testing.T) {
	menu := sampleMenu()
	MergeItemDetail(&menu, models.ItemDetail{ItemName: "Diavola", Groups: groupsNamed("Heat Level")}, MergeFillIfEmpty)
	MergeItemDetail(&menu, models.ItemDetail{ItemName: "Diavola", Groups: groupsNamed("Replaced")}, MergeFillIfEmpty)

	require.Len(t, menu.Categories[0].Items[1].CustomizationGroups, 1)
	assert.Equal(t, "Heat Level", menu.Categories[0].Items[1].CustomizationGroups[0].Name)
}

func TestMergeOverwritePolicyReplacesGroups(t *testing.T) {
	menu := sampleMenu()
	MergeItemDetail(&menu, models.ItemDetail{ItemName: "Diavola", Groups: groupsNamed("Heat Level")}, MergeOverwrite)
	MergeItemDetail(&menu, models.ItemDetail{ItemName: "Diavola", Groups: groupsNamed("Replaced")}, MergeOverwrite)

	require.Len(t, menu.Categories[0].Items[1].CustomizationGroups, 1)
	assert.Equal(t, "Replaced", menu.Categories[0].Items[1].CustomizationGroups[0].Name)
}
