package i18n

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// Service exposes a translator and its default locale.
type Service interface {
	Translator() interfaces.Translator
	DefaultLocale() string
}

type NoOpService struct{}

func NewNoOpService() Service {
	return NoOpService{}
}

func (NoOpService) Translator() interfaces.Translator {
	return noopTranslator{}
}

func (NoOpService) DefaultLocale() string {
	return ""
}

type noopTranslator struct{}

func (noopTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	return key, nil
}

type inMemoryService struct {
	defaultLocale string
	catalog       map[string]map[string]string
}

// NewInMemoryService indexes translations by normalised locale.
func NewInMemoryService(cfg Config, translations map[string]map[string]string) (Service, error) {
	defaultLocale := normalizeLocale(cfg.DefaultLocale)
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}

	catalog := make(map[string]map[string]string, len(translations))
	for locale, messages := range translations {
		code := normalizeLocale(locale)
		if code == "" {
			return nil, fmt.Errorf("i18n: empty locale code in translations")
		}
		entries := catalog[code]
		if entries == nil {
			entries = make(map[string]string, len(messages))
			catalog[code] = entries
		}
		for key, value := range messages {
			entries[key] = value
		}
	}

	return &inMemoryService{defaultLocale: defaultLocale, catalog: catalog}, nil
}

// NewDefaultService serves the embedded bundle.
func NewDefaultService() (Service, error) {
	bundle, err := DefaultBundle()
	if err != nil {
		return nil, err
	}
	return NewInMemoryService(bundle.Config, bundle.Translations)
}

func (s *inMemoryService) Translator() interfaces.Translator {
	return s
}

func (s *inMemoryService) DefaultLocale() string {
	return s.defaultLocale
}

// Translate resolves key for locale, then its regional parent, then the
// default locale. Unknown keys return the key unchanged.
func (s *inMemoryService) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range s.candidates(locale) {
		if message, ok := s.catalog[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(message, args...), nil
			}
			return message, nil
		}
	}
	return key, nil
}

func (s *inMemoryService) candidates(locale string) []string {
	code := normalizeLocale(locale)
	out := make([]string, 0, 3)
	if code != "" {
		out = append(out, code)
		if idx := strings.Index(code, "-"); idx > 0 {
			out = append(out, code[:idx])
		}
	}
	return append(out, s.defaultLocale)
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}
