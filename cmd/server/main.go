package main

import (
	"fmt"
	"log"

	"veridoc/internal/config"
	"veridoc/internal/extract"
	"veridoc/internal/handler"
	"veridoc/internal/imageproc"
	"veridoc/internal/parser"
	"veridoc/internal/parser/claude"
	"veridoc/internal/parser/gemini"
	"veridoc/internal/parser/openai"
	"veridoc/internal/pdfproc"
	"veridoc/internal/port"
	"veridoc/internal/router"
	"veridoc/internal/service"
	"veridoc/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	parser.RegisterProvider("openai", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return openai.NewParser(cfg), nil
	})
	parser.RegisterProvider("claude", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return claude.NewParser(cfg), nil
	})
	parser.RegisterProvider("gemini", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return gemini.NewParser(cfg), nil
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registerProviders()

	// Build the parser chain: primary, plus fallback if a secondary provider
	// is configured. Missing credentials fail here, before the server binds.
	primary, err := parser.NewParser(&cfg.Parser.Primary)
	if err != nil {
		return fmt.Errorf("failed to initialize primary parser: %w", err)
	}
	docParser := primary
	if secondaryCfg := cfg.Parser.SecondaryConfig(); secondaryCfg != nil {
		secondary, err := parser.NewParser(secondaryCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize secondary parser: %w", err)
		}
		if cfg.Parser.Strategy == "merge" {
			docParser = parser.NewMergeParser(primary, secondary)
			log.Printf("parser merge enabled: %s + %s", cfg.Parser.Primary.Provider, secondaryCfg.Provider)
		} else {
			docParser = parser.NewFallbackParser(
				[]port.DocumentParser{primary, secondary},
				[]string{cfg.Parser.Primary.Provider, secondaryCfg.Provider},
			)
			log.Printf("parser fallback enabled: %s -> %s", cfg.Parser.Primary.Provider, secondaryCfg.Provider)
		}
	}

	// Initialize processing stages
	normalizer, err := imageproc.NewNormalizer(cfg.Image)
	if err != nil {
		return fmt.Errorf("failed to initialize image normalizer: %w", err)
	}
	pdfProcessor := pdfproc.NewProcessor(cfg.PDF)
	extractor := extract.NewService(docParser, cfg.Parser.NeutralConfidence)
	engine := validator.NewEngine(validator.NewPassportRegistry())

	// Initialize services and handlers
	pipeline := service.NewPipelineService(normalizer, pdfProcessor, extractor, engine, cfg)
	extractH := handler.NewExtractHandler(pipeline)
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(cfg, extractH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
