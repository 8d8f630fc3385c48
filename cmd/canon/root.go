// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/canon/cmd/canon/cli"
	"github.com/bureau-foundation/canon/lib/compress"
	"github.com/bureau-foundation/canon/lib/config"
	"github.com/bureau-foundation/canon/lib/version"
)

// streams are the standard streams commands read from and write to.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func standardStreams() streams {
	return streams{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

func rootCommand(streams streams) *cli.Command {
	return &cli.Command{
		Name:    "canon",
		Summary: "Canonical tagged encoding of structured values",
		Description: `Canon encodes structured documents (JSON, JSONC, YAML) into a canonical
tagged binary form, DER or CBOR, where every value shape carries a fixed
tag identity and mapping keys are sorted. Equal values always produce
equal bytes, so digests of the encoding are stable.`,
		HelpOutput: streams.stderr,
		Subcommands: []*cli.Command{
			encodeCommand(streams),
			decodeCommand(streams),
			hashCommand(streams),
			inspectCommand(streams),
			versionCommand(streams),
		},
		Examples: []cli.Example{
			{
				Description: "Encode a YAML document as hex DER",
				Command:     "canon encode --hex value.yaml",
			},
			{
				Description: "Round trip through CBOR",
				Command:     "canon encode --codec cbor value.json | canon decode --codec cbor",
			},
		},
	}
}

func versionCommand(streams streams) *cli.Command {
	var params struct {
		Full bool `flag:"full" desc:"include Go version and platform"`
	}
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if params.Full {
				fmt.Fprintf(streams.stdout, "canon %s\n", version.Full())
				return nil
			}
			fmt.Fprintf(streams.stdout, "canon %s\n", version.Info())
			return nil
		},
	}
}

// configParams are the flags every encoding command shares.
type configParams struct {
	Config  string `flag:"config" desc:"configuration file (default: $CANON_CONFIG, then built-in defaults)"`
	Codec   string `flag:"codec" desc:"binary codec: der or cbor (overrides config)"`
	Sort    string `flag:"sort" desc:"key ordering: ascending, descending or disabled (overrides config)"`
	Verbose bool   `flag:"verbose,v" desc:"log debug detail to stderr"`
}

// loadConfig resolves the configuration file, applies flag overrides
// and command-specific changes, and validates the result.
func (p *configParams) loadConfig(modify func(*config.Config)) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.Config != "":
		cfg, err = config.LoadFile(p.Config)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if p.Codec != "" {
		cfg.Codec = p.Codec
	}
	if p.Sort != "" {
		cfg.Ordering = p.Sort
	}
	if modify != nil {
		modify(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readInput returns the contents of the single file argument, or of
// stdin when there is none or it is "-", with the name to report.
func readInput(streams streams, args []string) ([]byte, string, error) {
	switch {
	case len(args) > 1:
		return nil, "", fmt.Errorf("expected at most one input file, got %d", len(args))
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(streams.stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "-", nil
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, "", err
		}
		return data, args[0], nil
	}
}

// binaryParams are the flags of commands that read encoded bytes.
type binaryParams struct {
	Hex        bool `flag:"hex" desc:"input is hexadecimal (whitespace ignored)"`
	Compressed bool `flag:"compressed" desc:"input is a compression frame written by encode --compress"`
}

// readBinary reads encoded input and undoes hex and compression framing.
func (p *binaryParams) readBinary(streams streams, args []string) ([]byte, error) {
	data, _, err := readInput(streams, args)
	if err != nil {
		return nil, err
	}
	if p.Hex {
		data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
		if err != nil {
			return nil, fmt.Errorf("decoding hex input: %w", err)
		}
	}
	if p.Compressed {
		data, _, err = compress.Decompress(data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
