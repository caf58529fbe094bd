package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadSlicesToOuterBraces(t *testing.T) {
	raw := `window.__DATA__ = {"store":{"name":"Roma"}}; init();`
	got, err := SanitizePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"store":{"name":"Roma"}}`, got)
}

func TestSanitizePayloadRepairsBadEscapes(t *testing.T) {
	raw := `{"path":"C:\pizza\menu"}`
	got, err := SanitizePayload(raw)
	require.NoError(t, err)

	tree, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, `C:\pizza\menu`, tree["path"])
	assert.Contains(t, got, `\\p`)
}

func TestSanitizePayloadDecodesUnicodeEscapes(t *testing.T) {
	tree, err := ParsePayload(`{"name":"Caf\u00e9 Ol\u00e9"}`)
	require.NoError(t, err)
	assert.Equal(t, "Café Olé", tree["name"])
}

func TestSanitizePayloadKeepsStructuralEscapes(t *testing.T) {
	// \u0022 is a quote; decoding it literally would corrupt the JSON.
	tree, err := ParsePayload(`{"quote":"say \u0022hi\u0022"}`)
	require.NoError(t, err)
	assert.Equal(t, `say "hi"`, tree["quote"])
}

func TestSanitizePayloadNoBraces(t *testing.T) {
	_, err := SanitizePayload("var nothing = 1;")
	assert.Error(t, err)
}

func TestParsePayloadReportsSnippetOnFailure(t *testing.T) {
	tree, err := ParsePayload(`{"a": !!broken!!}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	// The empty tree still comes back usable.
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestLookupHelpersDefaultOnMissing(t *testing.T) {
	tree := map[string]interface{}{
		"store": map[string]interface{}{
			"name": "Roma",
			"lat":  40.7,
			"tags": []interface{}{"pizza"},
		},
	}

	assert.Equal(t, "Roma", getString(getMap(tree, "store"), "name"))
	assert.Equal(t, 40.7, getFloat(getMap(tree, "store"), "lat"))
	assert.Len(t, getSlice(getMap(tree, "store"), "tags"), 1)

	// Absent paths degrade to empty containers, never errors.
	assert.Empty(t, getMap(tree, "missing"))
	assert.Nil(t, getSlice(tree, "missing"))
	assert.Equal(t, "", getString(tree, "missing"))
	assert.Equal(t, 0.0, getFloat(tree, "missing"))
	assert.Nil(t, getPath(tree, "store", "deeper", "gone"))
}

func TestGetFloatCoercesStrings(t *testing.T) {
	m := map[string]interface{}{"lat": "40.7", "bad": "north"}
	assert.Equal(t, 40.7, getFloat(m, "lat"))
	assert.Equal(t, 0.0, getFloat(m, "bad"))
}
