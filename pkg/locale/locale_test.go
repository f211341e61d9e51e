package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/seo-ai/pkg/model"
)

func TestParse(t *testing.T) {
	l, err := Parse("TR")
	require.NoError(t, err)
	assert.Equal(t, Turkish, l)

	l, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default, l)

	_, err = Parse("de")
	assert.Error(t, err)
}

func TestTablesAreComplete(t *testing.T) {
	for _, l := range []Locale{English, Turkish} {
		m := l.Messages()
		assert.NotEmpty(t, m.ConnectionError, l)
		assert.NotEmpty(t, m.FixUnavailable, l)
		assert.NotEmpty(t, m.FixPlaceholder, l)
		for _, mod := range model.Modules() {
			assert.NotEmpty(t, m.ModuleTitles[mod], "%s %s", l, mod)
			assert.NotEmpty(t, m.ModuleDescriptions[mod], "%s %s", l, mod)
		}
		for _, s := range model.Severities() {
			assert.NotEmpty(t, m.SeverityLabels[s], "%s %s", l, s)
		}
	}
}

func TestSteps(t *testing.T) {
	steps := English.Messages().Steps("https://shop.example")
	require.Len(t, steps, 6)
	assert.Equal(t, "Connecting to https://shop.example...", steps[0])
	assert.Equal(t, "Parsing HTML structure...", steps[1])
}
