// Package ui provides the PalletStack pattern editor.
//
// This file defines a compact Fyne theme for the editor's dense side panels.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PalletStackTheme wraps the default Fyne theme with compact sizing overrides.
// A theme without a fixed variant follows the system setting.
type PalletStackTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool
}

// NewPalletStackTheme creates a theme that follows the system variant.
func NewPalletStackTheme() *PalletStackTheme {
	return &PalletStackTheme{base: theme.DefaultTheme()}
}

// NewPalletStackThemeWithVariant creates a theme pinned to a light or dark variant.
func NewPalletStackThemeWithVariant(variant fyne.ThemeVariant) *PalletStackTheme {
	return &PalletStackTheme{base: theme.DefaultTheme(), variant: variant, fixed: true}
}

// ThemeForName maps the configured theme name ("light", "dark", "system").
func ThemeForName(name string) *PalletStackTheme {
	switch name {
	case "light":
		return NewPalletStackThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewPalletStackThemeWithVariant(theme.VariantDark)
	default:
		return NewPalletStackTheme()
	}
}

// Color delegates to the base theme, using the pinned variant if any.
func (t *PalletStackTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *PalletStackTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *PalletStackTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *PalletStackTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
