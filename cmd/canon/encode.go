// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/canon/cmd/canon/cli"
	"github.com/bureau-foundation/canon/lib/compress"
	"github.com/bureau-foundation/canon/lib/config"
	"github.com/bureau-foundation/canon/lib/valuefile"
)

type encodeParams struct {
	configParams
	Format   string `flag:"format,f" desc:"input format: json, jsonc or yaml (default: from file extension, jsonc for stdin)"`
	Compress string `flag:"compress" desc:"output compression: none, lz4, zstd or auto (overrides config)"`
	Hex      bool   `flag:"hex" desc:"write hexadecimal instead of raw bytes"`
}

func encodeCommand(streams streams) *cli.Command {
	var params encodeParams
	return &cli.Command{
		Name:    "encode",
		Summary: "Encode a document into canonical bytes",
		Description: `Read a JSON, JSONC or YAML document and write its canonical encoding.

Raw bytes are written unless --hex is given or stdout is a terminal.
With --compress the output is a compression frame; decode and inspect
read it back with --compressed. "auto" picks an algorithm by probing
the encoding.`,
		Usage: "canon encode [flags] [file]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Encode with keys in descending order",
				Command:     "canon encode --sort descending --hex value.json",
			},
			{
				Description: "Encode as zstd-compressed CBOR",
				Command:     "canon encode --codec cbor --compress zstd value.yaml > value.cbor.zst",
			},
		},
		Run: func(args []string) error {
			return runEncode(streams, &params, args)
		},
	}
}

func runEncode(streams streams, params *encodeParams, args []string) error {
	cfg, err := params.loadConfig(func(cfg *config.Config) {
		if params.Compress != "" && params.Compress != "auto" {
			cfg.Compression = params.Compress
		}
	})
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger(streams.stderr, params.Verbose).With(
		"command", "encode",
		"codec", cfg.Codec,
		"ordering", cfg.Ordering,
	)

	value, err := readDocument(streams, params.Format, args)
	if err != nil {
		return err
	}

	encoded, err := cfg.Transcoder().Marshal(value)
	if err != nil {
		return err
	}
	logger.Debug("encoded value", "bytes", len(encoded))

	output := encoded
	algorithm, err := cfg.CompressionAlgorithm()
	if err != nil {
		return err
	}
	if params.Compress == "auto" {
		algorithm = compress.Select(encoded)
	}
	// auto always frames, so the output shape does not depend on the data.
	if params.Compress == "auto" || algorithm != compress.None {
		output, err = compress.Compress(encoded, algorithm)
		if err != nil {
			return err
		}
		logger.Debug("compressed output",
			"requested", algorithm.String(),
			"used", compress.Algorithm(output[0]).String(),
			"bytes", len(output),
		)
	}

	if params.Hex || cli.IsTerminal(streams.stdout) {
		_, err = fmt.Fprintln(streams.stdout, hex.EncodeToString(output))
		return err
	}
	_, err = streams.stdout.Write(output)
	return err
}

// readDocument reads and parses the input document. An empty format is
// detected from the file name, and stdin defaults to JSONC.
func readDocument(streams streams, formatName string, args []string) (any, error) {
	data, name, err := readInput(streams, args)
	if err != nil {
		return nil, err
	}

	var format valuefile.Format
	switch {
	case formatName != "":
		format, err = valuefile.ParseFormat(formatName)
		if err != nil {
			return nil, err
		}
	case name == "-":
		format = valuefile.JSONC
	default:
		format = valuefile.DetectFormat(name)
	}

	value, err := valuefile.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}
