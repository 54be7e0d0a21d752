package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_sorted_and_include_default(t *testing.T) {
	names := ThemeNames()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestSetTheme_rebuilds_kind_colors(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)
	SetTheme(p)

	assert.Equal(t, p.Success, KindColor("success"))
	assert.Equal(t, p.Error, KindColor("error"))
	assert.Equal(t, p.Warning, KindColor("warning"))
	assert.Equal(t, p.Primary, KindColor("info"))
	assert.Equal(t, p.Primary, KindColor("bogus"))
}

func TestKindIcon(t *testing.T) {
	assert.Equal(t, IconNotifyError, KindIcon("error"))
	assert.Equal(t, IconNotifyInfo, KindIcon(""))
}

func TestGlamourStyle_uses_palette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	require.NotNil(t, cfg.Link.Color)
}
