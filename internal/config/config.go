// Package config loads the optional HCL run configuration. Every setting is
// optional; unset settings are left nil so the command line can fill them in.
//
// Example:
//
//	part       = 2
//	workers    = cpu_count
//	batch_size = 100000
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pborges/almanac/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// File is the decoded run configuration.
type File struct {
	Part      *int `hcl:"part,optional"`
	Workers   *int `hcl:"workers,optional"`
	BatchSize *int `hcl:"batch_size,optional"`
	Log       *Log `hcl:"log,block"`
}

// Log is the `log` block.
type Log struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// EvalContext exposes the variables a configuration file may reference.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cpu_count": cty.NumberIntVal(int64(runtime.NumCPU())),
		},
	}
}

// Load parses and decodes the configuration file at path.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding config file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	cfg, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, err)
	}

	logger.Debug("Successfully decoded config file.", "path", path)
	return cfg, nil
}

// Parse decodes configuration from memory. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return decode(file)
}

func decode(file *hcl.File) (*File, error) {
	var cfg File
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &cfg); diags.HasErrors() {
		return nil, diags
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (f *File) validate() error {
	if f.Part != nil && *f.Part != 1 && *f.Part != 2 {
		return fmt.Errorf("part must be 1 or 2, got %d", *f.Part)
	}
	if f.Workers != nil && *f.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", *f.Workers)
	}
	if f.BatchSize != nil && *f.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", *f.BatchSize)
	}
	return nil
}
