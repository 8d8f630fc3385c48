// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/canon/cmd/canon/cli"
	"github.com/bureau-foundation/canon/lib/config"
	"github.com/bureau-foundation/canon/lib/objhash"
)

type hashParams struct {
	configParams
	Format    string `flag:"format,f" desc:"input format: json, jsonc or yaml (default: from file extension, jsonc for stdin)"`
	Algorithm string `flag:"algorithm,a" desc:"digest algorithm (overrides config)"`
	Domain    string `flag:"domain" desc:"BLAKE3 key derivation context (overrides config)"`
	Check     string `flag:"check" desc:"expected hex digest; exit 1 on mismatch"`
}

func hashCommand(streams streams) *cli.Command {
	var params hashParams
	return &cli.Command{
		Name:    "hash",
		Summary: "Print the digest of a document's canonical encoding",
		Description: `Read a document and print the hex digest of its canonical encoding.

The digest covers the uncompressed encoding under the configured codec
and ordering, so documents that differ only in key order or number
formatting hash identically. Supported algorithms: ` + algorithmNames() + `.`,
		Usage: "canon hash [flags] [file]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("hash", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Verify a document against a recorded digest",
				Command:     "canon hash --check 3f1e... value.yaml",
			},
		},
		Run: func(args []string) error {
			cfg, err := params.loadConfig(func(cfg *config.Config) {
				if params.Algorithm != "" {
					cfg.Hash = params.Algorithm
				}
				if params.Domain != "" {
					cfg.HashDomain = params.Domain
				}
			})
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(streams.stderr, params.Verbose).With(
				"command", "hash",
				"algorithm", cfg.Hash,
				"codec", cfg.Codec,
			)

			value, err := readDocument(streams, params.Format, args)
			if err != nil {
				return err
			}
			options, err := cfg.HashOptions()
			if err != nil {
				return err
			}
			hasher := objhash.New(options...)
			if err := hasher.Update(value); err != nil {
				return err
			}
			digest := hasher.HexDigest()
			logger.Debug("hashed document", "digest", digest)
			fmt.Fprintln(streams.stdout, digest)

			if params.Check == "" {
				return nil
			}
			expected, err := objhash.ParseDigest(strings.TrimSpace(params.Check), hasher.Size())
			if err != nil {
				return fmt.Errorf("--check: %w", err)
			}
			if objhash.FormatDigest(expected) != digest {
				fmt.Fprintf(streams.stderr, "digest mismatch: expected %s\n", objhash.FormatDigest(expected))
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func algorithmNames() string {
	var names []string
	for _, algorithm := range objhash.Algorithms() {
		names = append(names, string(algorithm))
	}
	return strings.Join(names, ", ")
}
