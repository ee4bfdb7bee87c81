package storetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllOrderEndsWithGeneral(t *testing.T) {
	cats := All()
	require.Len(t, cats, 9)
	assert.Equal(t, Fashion, cats[0])
	assert.Equal(t, General, cats[len(cats)-1])
	assert.NotContains(t, Specific(), General)

	cats[0] = "mutated"
	assert.Equal(t, Fashion, All()[0])
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Category{
		"fashion":       Fashion,
		" Beauty ":      Beauty,
		"home-garden":   HomeGarden,
		"Home Garden":   HomeGarden,
		"home & garden": HomeGarden,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := Parse("pets")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "👗 Fashion Stores", Fashion.DisplayName("en"))
	assert.Equal(t, "🛒 متجر عام", General.DisplayName("ar"))
	assert.Equal(t, "👗 Fashion Stores", Fashion.DisplayName("fr"))
	assert.Equal(t, "pets", Category("pets").DisplayName("en"))
}

func TestPriorityAndFallback(t *testing.T) {
	assert.Less(t, Fashion.Priority(), Electronics.Priority())
	assert.Equal(t, -1, Category("pets").Priority())
	assert.Equal(t, General, Category("pets").OrGeneral())
	assert.Equal(t, Food, Food.OrGeneral())
}
