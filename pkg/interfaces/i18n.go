package interfaces

// Translator resolves a message key for a locale. Implementations return the
// key itself when no translation exists so callers always get printable text.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}
