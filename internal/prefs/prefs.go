// Package prefs defines the user preference enums and their coercion rules.
package prefs

// Theme values accepted by the site.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultTheme = ThemeLight
)

// Language values accepted by the site.
const (
	LanguageEnglish = "en"
	LanguageFrench  = "fr"

	DefaultLanguage = LanguageEnglish
)

// Preferences holds the resolved theme and language for a visitor.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// Defaults returns the preferences applied to new users and anonymous visitors.
func Defaults() Preferences {
	return Preferences{Theme: DefaultTheme, Language: DefaultLanguage}
}

// ValidTheme reports whether the value is a known theme.
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

// ValidLanguage reports whether the value is a known language.
func ValidLanguage(language string) bool {
	return language == LanguageEnglish || language == LanguageFrench
}

// NormalizeTheme coerces out-of-enum values to the default theme.
// Unknown values are replaced, never rejected.
func NormalizeTheme(theme string) string {
	if ValidTheme(theme) {
		return theme
	}
	return DefaultTheme
}

// NormalizeLanguage coerces out-of-enum values to the default language.
func NormalizeLanguage(language string) string {
	if ValidLanguage(language) {
		return language
	}
	return DefaultLanguage
}

// Normalize coerces both fields of a preference pair.
func Normalize(p Preferences) Preferences {
	return Preferences{
		Theme:    NormalizeTheme(p.Theme),
		Language: NormalizeLanguage(p.Language),
	}
}
