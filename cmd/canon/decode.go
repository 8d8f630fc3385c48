// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/canon/cmd/canon/cli"
	"github.com/bureau-foundation/canon/lib/config"
	"github.com/bureau-foundation/canon/lib/transcode"
)

type decodeParams struct {
	configParams
	binaryParams
	StrictKeys bool `flag:"strict-keys" desc:"reject duplicate mapping keys (overrides config)"`
}

func decodeCommand(streams streams) *cli.Command {
	var params decodeParams
	return &cli.Command{
		Name:    "decode",
		Summary: "Decode canonical bytes and print the value",
		Description: `Read a canonical encoding and print the decoded value.

Tuples print as (..), lists as [..], mappings as {k: v}, sets as
set{..}, byte strings as h'..' and complex numbers as complex(re, im).`,
		Usage: "canon decode [flags] [file]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Decode hex DER from the command line",
				Command:     "echo 02012a | canon decode --hex",
			},
		},
		Run: func(args []string) error {
			cfg, err := params.loadConfig(func(cfg *config.Config) {
				if params.StrictKeys {
					cfg.StrictKeys = true
				}
			})
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(streams.stderr, params.Verbose).With(
				"command", "decode",
				"codec", cfg.Codec,
			)

			data, err := params.readBinary(streams, args)
			if err != nil {
				return err
			}
			logger.Debug("decoding", "bytes", len(data))

			value, err := cfg.Transcoder().Unmarshal(data)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(streams.stdout, transcode.Format(value))
			return err
		},
	}
}
