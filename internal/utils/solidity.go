package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rxtech-lab/solc-go"
)

// CompilerSettings are the knobs that affect compiled output. Any change to
// any field changes the source hash, so differently-configured builds never
// collide in the cache.
type CompilerSettings struct {
	Version    string `json:"version"`
	EVMVersion string `json:"evmVersion"`
	Optimizer  bool   `json:"optimizer"`
	Runs       int    `json:"runs"`
}

// DefaultCompilerSettings matches the chain target: solc 0.8.30 on cancun
// with the optimizer at 200 runs.
func DefaultCompilerSettings() CompilerSettings {
	return CompilerSettings{
		Version:    "0.8.30",
		EVMVersion: "cancun",
		Optimizer:  true,
		Runs:       200,
	}
}

var (
	// SupportedCompilerVersions are the solc releases this backend will load.
	SupportedCompilerVersions = []string{"0.8.20", "0.8.30"}
	// SupportedEVMVersions are the accepted EVM targets.
	SupportedEVMVersions = []string{"cancun", "paris", "shanghai"}
)

// ValidateCompilerSettings rejects versions and targets outside the supported
// set before any compiler is loaded.
func ValidateCompilerSettings(settings CompilerSettings) error {
	if !contains(SupportedCompilerVersions, settings.Version) {
		return fmt.Errorf("unsupported compiler version: %s", settings.Version)
	}
	if !contains(SupportedEVMVersions, settings.EVMVersion) {
		return fmt.Errorf("unsupported EVM version: %s", settings.EVMVersion)
	}
	if settings.Runs < 1 || settings.Runs > 10000 {
		return fmt.Errorf("optimizer runs must be between 1 and 10000")
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// SourceHash derives the cache key for a compilation: sha256 over the source
// text and every setting that affects output.
func SourceHash(sourceCode string, settings CompilerSettings) string {
	input, _ := json.Marshal(struct {
		Source   string           `json:"source"`
		Settings CompilerSettings `json:"settings"`
	}{Source: sourceCode, Settings: settings})

	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

// CompilationResult is the artifact a successful compile produces for one
// contract.
type CompilationResult struct {
	ContractName string
	ABI          any
	Bytecode     string
}

// CompileSolidity compiles a single-file contract with the requested settings
// and returns the artifact for contractName. Compiler diagnostics come back
// as an error; the caller decides how to surface them.
func CompileSolidity(sourceCode, contractName string, settings CompilerSettings) (CompilationResult, error) {
	compiler, err := solc.NewWithVersion(settings.Version)
	if err != nil {
		return CompilationResult{}, fmt.Errorf("failed to load solc %s: %w", settings.Version, err)
	}

	sourceFile := contractName + ".sol"
	result, err := compiler.CompileWithOptions(&solc.Input{
		Language: "Solidity",
		Sources: map[string]solc.SourceIn{
			sourceFile: {
				Content: sourceCode,
			},
		},
		Settings: solc.Settings{
			EVMVersion: settings.EVMVersion,
			Optimizer: solc.Optimizer{
				Enabled: settings.Optimizer,
				Runs:    settings.Runs,
			},
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": []string{"abi", "evm.bytecode"},
				},
			},
		},
	}, nil)
	if err != nil {
		return CompilationResult{}, err
	}

	if len(result.Errors) > 0 {
		return CompilationResult{}, fmt.Errorf("compilation errors: %v", result.Errors)
	}

	contract, ok := result.Contracts[sourceFile][contractName]
	if !ok {
		return CompilationResult{}, fmt.Errorf("contract %s not found in compilation output", contractName)
	}

	return CompilationResult{
		ContractName: contractName,
		ABI:          contract.ABI,
		Bytecode:     contract.EVM.Bytecode.Object,
	}, nil
}
