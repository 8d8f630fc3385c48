// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Codec    string `flag:"codec" desc:"binary codec"`
		Verbose  bool   `flag:"verbose,v" desc:"enable verbose output"`
		Depth    int    `flag:"max-depth" desc:"nesting limit"`
		Untagged string // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--codec", "cbor", "-v", "--max-depth", "42", "input.json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Codec != "cbor" {
		t.Errorf("Codec = %q, want %q", p.Codec, "cbor")
	}
	if !p.Verbose {
		t.Error("Verbose = false, want true")
	}
	if p.Depth != 42 {
		t.Errorf("Depth = %d, want 42", p.Depth)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
	if args := flagSet.Args(); len(args) != 1 || args[0] != "input.json" {
		t.Errorf("Args() = %v, want [input.json]", args)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Format string `flag:"format" default:"jsonc"`
		Depth  int    `flag:"max-depth" default:"512"`
		Hex    bool   `flag:"hex" default:"true"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Format != "jsonc" || p.Depth != 512 || !p.Hex {
		t.Errorf("params = %+v, want defaults", p)
	}
}

func TestBindFlags_EmbeddedStructRecursion(t *testing.T) {
	type shared struct {
		Config string `flag:"config" desc:"config file"`
	}
	type params struct {
		shared
		Hex bool `flag:"hex"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--config", "canon.yaml", "--hex"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Config != "canon.yaml" || !p.Hex {
		t.Errorf("params = %+v", p)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	type badDefault struct {
		Depth int `flag:"max-depth" default:"deep"`
	}
	type unsupported struct {
		Ratio float64 `flag:"ratio"`
	}

	tests := []struct {
		name   string
		params any
	}{
		{"not a pointer", struct{}{}},
		{"pointer to non-struct", new(string)},
		{"bad default", &badDefault{}},
		{"unsupported type", &unsupported{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
			if err := BindFlags(test.params, flagSet); err == nil {
				t.Error("BindFlags succeeded, want error")
			}
		})
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic on invalid params")
		}
	}()
	FlagsFromParams("test", "not a struct")
}

func TestNewCommandLogger(t *testing.T) {
	var buffer bytes.Buffer

	quiet := NewCommandLogger(&buffer, false)
	quiet.Debug("hidden")
	quiet.Warn("shown", "codec", "der")
	if strings.Contains(buffer.String(), "hidden") {
		t.Errorf("debug record written without verbose: %s", buffer.String())
	}
	// A buffer is not a terminal, so records are JSON.
	if !strings.Contains(buffer.String(), `"codec":"der"`) {
		t.Errorf("warn record = %q, want JSON with codec attribute", buffer.String())
	}

	buffer.Reset()
	NewCommandLogger(&buffer, true).Debug("detail")
	if !strings.Contains(buffer.String(), "detail") {
		t.Errorf("verbose logger dropped debug record: %q", buffer.String())
	}
	if IsTerminal(&buffer) {
		t.Error("IsTerminal(buffer) = true")
	}
}
