package ui

// Theme is the colour scheme preference. The zero value means dark.
type Theme string

const (
	ThemeDark  Theme = ""
	ThemeLight Theme = "light"
)

// ParseTheme accepts the stored preference; anything but "light" is dark.
func ParseTheme(raw string) Theme {
	if raw == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// BodyClass is the css class applied to <body>.
func (t Theme) BodyClass() string {
	if t == ThemeLight {
		return "light-mode"
	}
	return ""
}

// ToggleIcon is the glyph of the theme button: the moon offers dark, the sun offers light.
func (t Theme) ToggleIcon() string {
	if t == ThemeLight {
		return "🌙"
	}
	return "☀️"
}
