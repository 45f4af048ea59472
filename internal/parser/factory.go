package parser

import (
	"fmt"

	"veridoc/internal/config"
	"veridoc/internal/domain"
	"veridoc/internal/port"
)

// ProviderFactory is a function that creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)

// registry of parser provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewParser creates a DocumentParser from a provider config using the
// registered factory. A missing API key fails here, at startup, before any
// upload is consumed.
func NewParser(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: %w", cfg.Provider, domain.ErrMissingAPIKey)
	}
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
