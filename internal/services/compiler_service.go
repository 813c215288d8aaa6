package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"github.com/pumpjaine/pumpjaine-backend/internal/utils"
)

// CompileRequest selects a template and optionally overrides the compiler
// settings. Force bypasses the cache read but still writes the fresh result.
type CompileRequest struct {
	TemplateName string                  `json:"template_name" validate:"required"`
	Settings     *utils.CompilerSettings `json:"settings,omitempty"`
	Force        bool                    `json:"force"`
}

// CompileResponse is the artifact handed back for deployment, with cache
// provenance and timing.
type CompileResponse struct {
	TemplateName string                 `json:"template_name"`
	Rarity       models.RarityKey       `json:"rarity"`
	ABI          json.RawMessage        `json:"abi"`
	Bytecode     string                 `json:"bytecode"`
	SourceHash   string                 `json:"source_hash"`
	Settings     utils.CompilerSettings `json:"settings"`
	Cached       bool                   `json:"cached"`
	DurationMS   int64                  `json:"duration_ms"`
}

// CompileFailure carries compiler diagnostics back to the client. It is data
// about the submitted source, not an internal fault.
type CompileFailure struct {
	TemplateName string
	Diagnostics  string
}

func (e *CompileFailure) Error() string {
	return fmt.Sprintf("compile %s failed: %s", e.TemplateName, e.Diagnostics)
}

// CompilerStatus describes the compiler configuration and lifetime counters.
type CompilerStatus struct {
	SupportedVersions  []string               `json:"supported_versions"`
	SupportedEVM       []string               `json:"supported_evm_versions"`
	DefaultSettings    utils.CompilerSettings `json:"default_settings"`
	TotalCompilations  int64                  `json:"total_compilations"`
	FailedCompilations int64                  `json:"failed_compilations"`
	CacheServed        int64                  `json:"cache_served"`
	AverageCompileMS   int64                  `json:"average_compile_ms"`
	LastCompilation    *string                `json:"last_compilation,omitempty"`
	LastCompileFailure *string                `json:"last_compile_failure,omitempty"`
}

// CompilerService compiles seeded templates through the solc bindings with a
// read-through compilation cache in front.
type CompilerService interface {
	Compile(req CompileRequest) (*CompileResponse, error)
	Status() (*CompilerStatus, error)
	ClearCache() (int64, error)
}

type compilerService struct {
	templates TemplateService
	cache     CacheService

	compiles    atomic.Int64
	failures    atomic.Int64
	cacheServed atomic.Int64
	totalMS     atomic.Int64
	lastOK      atomic.Pointer[string]
	lastFail    atomic.Pointer[string]
}

// NewCompilerService creates a new CompilerService.
func NewCompilerService(templates TemplateService, cache CacheService) CompilerService {
	return &compilerService{templates: templates, cache: cache}
}

// Compile resolves a template, serves from the cache when the hash matches,
// and otherwise runs solc and stores the artifact. Cache write failures are
// logged and swallowed; a compiled artifact is never withheld because the
// cache was unavailable.
func (s *compilerService) Compile(req CompileRequest) (*CompileResponse, error) {
	template, err := s.templates.ByName(req.TemplateName)
	if err != nil {
		return nil, err
	}
	source, err := s.templates.Source(template)
	if err != nil {
		return nil, err
	}

	settings := utils.DefaultCompilerSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := utils.ValidateCompilerSettings(settings); err != nil {
		return nil, fmt.Errorf("%s: %w", err, ErrValidation)
	}

	sourceHash := utils.SourceHash(source, settings)

	if !req.Force {
		if entry, err := s.cache.Get(sourceHash); err == nil {
			s.cacheServed.Add(1)
			return &CompileResponse{
				TemplateName: template.Name,
				Rarity:       template.Rarity,
				ABI:          json.RawMessage(entry.ABI),
				Bytecode:     entry.Bytecode,
				SourceHash:   sourceHash,
				Settings:     settings,
				Cached:       true,
			}, nil
		} else if !errors.Is(err, ErrNotFound) {
			log.Printf("cache read failed for %s: %v", template.Name, err)
		}
	}

	started := time.Now()
	result, err := utils.CompileSolidity(source, template.Name, settings)
	elapsed := time.Since(started)
	if err != nil {
		s.failures.Add(1)
		failedAt := time.Now().Format(time.RFC3339)
		s.lastFail.Store(&failedAt)
		return nil, &CompileFailure{TemplateName: template.Name, Diagnostics: err.Error()}
	}

	s.compiles.Add(1)
	s.totalMS.Add(elapsed.Milliseconds())
	compiledAt := time.Now().Format(time.RFC3339)
	s.lastOK.Store(&compiledAt)

	abiJSON, err := json.Marshal(result.ABI)
	if err != nil {
		return nil, fmt.Errorf("encode ABI for %s: %w", template.Name, err)
	}
	metadata, _ := json.Marshal(settings)

	entry := &models.CompilationCache{
		TemplateID: template.ID,
		SourceHash: sourceHash,
		ABI:        string(abiJSON),
		Bytecode:   result.Bytecode,
		Metadata:   string(metadata),
		CompiledAt: time.Now(),
	}
	if err := s.cache.Put(entry); err != nil {
		log.Printf("cache write failed for %s: %v", template.Name, err)
	}

	return &CompileResponse{
		TemplateName: template.Name,
		Rarity:       template.Rarity,
		ABI:          abiJSON,
		Bytecode:     result.Bytecode,
		SourceHash:   sourceHash,
		Settings:     settings,
		Cached:       false,
		DurationMS:   elapsed.Milliseconds(),
	}, nil
}

// Status reports the supported configuration and the process-lifetime compile
// counters.
func (s *compilerService) Status() (*CompilerStatus, error) {
	status := &CompilerStatus{
		SupportedVersions:  utils.SupportedCompilerVersions,
		SupportedEVM:       utils.SupportedEVMVersions,
		DefaultSettings:    utils.DefaultCompilerSettings(),
		TotalCompilations:  s.compiles.Load(),
		FailedCompilations: s.failures.Load(),
		CacheServed:        s.cacheServed.Load(),
		LastCompilation:    s.lastOK.Load(),
		LastCompileFailure: s.lastFail.Load(),
	}
	if status.TotalCompilations > 0 {
		status.AverageCompileMS = s.totalMS.Load() / status.TotalCompilations
	}
	return status, nil
}

// ClearCache drops every cached artifact.
func (s *compilerService) ClearCache() (int64, error) {
	return s.cache.Clear()
}
