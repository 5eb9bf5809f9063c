package i18n

// Config lists the locales a translator serves.
type Config struct {
	DefaultLocale string   `json:"default_locale"`
	Locales       []string `json:"locales"`
}

// DefaultLocale is used when neither the caller nor the bundle names one.
const DefaultLocale = "en"
