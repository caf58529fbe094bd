package services

import (
	"MenuScout/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemModalHTML = `
<div data-testid="ItemModal">
	<h2 class="Text-sc-1nm69d8-0 dtvoNG"><span>Margherita</span></h2>
	<div role="group">
		<h3 class="Text-sc-1nm69d8-0 hBnZXN">Toppings</h3>
		<span class="Text-sc-1nm69d8-0 gFJzBa">Optional</span>
		<span class="Text-sc-1nm69d8-0 gFJzBa">Select up to 3</span>
		<div class="sc-724a33a-8 kXqwzy">
			<span class="Text-sc-1nm69d8-0 ZNLaC">Extra Cheese</span>
			<span class="Text-sc-1nm69d8-0 dCneXH">240 cal</span>
			<span class="Text-sc-1nm69d8-0 dCneXH">+US$1.25</span>
		</div>
		<div class="sc-724a33a-8 kXqwzy">
			<span class="Text-sc-1nm69d8-0 ZNLaC">Basil</span>
			<span class="Text-sc-1nm69d8-0 dCneXH">5 cal</span>
		</div>
	</div>
	<div role="group">
		<h3 class="Text-sc-1nm69d8-0 hBnZXN">Choose a Size</h3>
		<label>
			<span class="Text-sc-1nm69d8-0">Large</span>
			<span class="Text-sc-1nm69d8-0 dCneXH">+$4.00</span>
		</label>
	</div>
</div>`

func TestParseItemModalDetail(t *testing.T) {
	detail, err := ParseItemDetail(DoorDash, itemModalHTML)
	require.NoError(t, err)

	assert.Equal(t, "Margherita", detail.ItemName)
	require.Len(t, detail.Groups, 2)

	toppings := detail.Groups[0]
	assert.Equal(t, "Toppings", toppings.Name)
	assert.Equal(t, 0, toppings.SelectionMin)
	assert.Equal(t, 3, toppings.SelectionMax)
	require.Len(t, toppings.Options, 2)

	cheese := toppings.Options[0]
	assert.Equal(t, "Extra Cheese", cheese.Name)
	assert.Equal(t, models.UnlimitedAdd, cheese.MaxQuantity)
	// The delta price is a half-item price, doubled for the combined price.
	assert.Equal(t, 2.5, cheese.Price)
	assert.Equal(t, 1.25, cheese.LeftHalfPrice)
	assert.Equal(t, 1.25, cheese.RightHalfPrice)

	// Calorie-only option has no plus-prefixed span: free.
	basil := toppings.Options[1]
	assert.Equal(t, "Basil", basil.Name)
	assert.Equal(t, 0.0, basil.Price)

	size := detail.Groups[1]
	assert.Equal(t, "Choose a Size", size.Name)
	assert.Equal(t, 0, size.SelectionMax)
	require.Len(t, size.Options, 1)
	assert.Equal(t, "Large", size.Options[0].Name)
	assert.Equal(t, 1, size.Options[0].MaxQuantity)
	assert.Equal(t, 8.0, size.Options[0].Price)
}

const dialogHTML = `
<div role="dialog" aria-label="dialog">
	<h1>Veggie Bowl</h1>
	<img role="presentation" src="https://img.example/veggie.jpg"/>
	<div data-testid="customization-pick-many">
		<div>
			<div>Choose Toppings</div>
			<div>Choose up to 2</div>
		</div>
		<label><div><div><div><div>
			<div>Avocado</div>
			<div>120 cal</div>
			<div>+$2.00</div>
		</div></div></div></div></label>
		<label><div><div><div><div>
			<div>Corn</div>
		</div></div></div></div></label>
	</div>
	<div data-testid="customization-pick-one">
		<div>
			<div>Choose a Base</div>
			<div>Choose 1</div>
		</div>
		<label><div><div><div><div>
			<div>Quinoa</div>
			<div>180 cal</div>
			<div>$1.50</div>
		</div></div></div></div></label>
	</div>
</div>`

func TestParseDialogDetail(t *testing.T) {
	detail, err := ParseItemDetail(UberEats, dialogHTML)
	require.NoError(t, err)

	assert.Equal(t, "Veggie Bowl", detail.ItemName)
	assert.Equal(t, "https://img.example/veggie.jpg", detail.ImageURL)
	require.Len(t, detail.Groups, 2)

	toppings := detail.Groups[0]
	assert.Equal(t, "Choose Toppings", toppings.Name)
	assert.Equal(t, 2, toppings.SelectionMax)
	require.Len(t, toppings.Options, 2)

	avocado := toppings.Options[0]
	assert.Equal(t, "Avocado", avocado.Name)
	assert.Equal(t, 1, avocado.MaxQuantity)
	// Left and right halves read from the same token and summed.
	assert.Equal(t, 2.0, avocado.LeftHalfPrice)
	assert.Equal(t, 2.0, avocado.RightHalfPrice)
	assert.Equal(t, 4.0, avocado.Price)

	// Missing price cell defaults to a free option.
	assert.Equal(t, 0.0, toppings.Options[1].Price)

	base := detail.Groups[1]
	assert.Equal(t, "Choose a Base", base.Name)
	assert.Equal(t, 1, base.SelectionMax)
	require.Len(t, base.Options, 1)
	assert.Equal(t, "Quinoa", base.Options[0].Name)
	assert.Equal(t, 3.0, base.Options[0].Price)
}

func TestParseItemDetailEmptyOverlay(t *testing.T) {
	detail, err := ParseItemDetail(DoorDash, "<div></div>")
	require.NoError(t, err)
	assert.Equal(t, "", detail.ItemName)
	assert.Empty(t, detail.Groups)
}
