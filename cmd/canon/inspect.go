// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/canon/cmd/canon/cli"
	"github.com/bureau-foundation/canon/lib/codec"
	"github.com/bureau-foundation/canon/lib/config"
	"github.com/bureau-foundation/canon/lib/tagtree"
	"github.com/bureau-foundation/canon/lib/transcode"
)

type inspectParams struct {
	configParams
	binaryParams
	Document bool   `flag:"document,d" desc:"input is a document to encode rather than encoded bytes"`
	Format   string `flag:"format,f" desc:"document format with --document"`
}

func inspectCommand(streams streams) *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Show the tagged node tree of an encoding",
		Description: `Print the tagged node tree behind an encoding, one node per line with
its tag identity, kind and payload. For CBOR the RFC 8949 diagnostic
notation follows.

With --document the input is a JSON, JSONC or YAML document, shown as
the tree it encodes to.`,
		Usage: "canon inspect [flags] [file]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Show how a YAML document is tagged",
				Command:     "canon inspect --document value.yaml",
			},
		},
		Run: func(args []string) error {
			cfg, err := params.loadConfig(nil)
			if err != nil {
				return err
			}

			node, encoded, err := inspectNode(streams, &params, cfg, args)
			if err != nil {
				return err
			}
			if err := tagtree.Dump(streams.stdout, node); err != nil {
				return err
			}
			if cfg.Codec != config.CodecCBOR {
				return nil
			}
			notation, err := codec.Diagnose(encoded)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(streams.stdout, "\nCBOR diagnostic notation:\n%s\n", notation)
			return err
		},
	}
}

// inspectNode returns the node tree and its encoding, from either a
// document or encoded bytes.
func inspectNode(streams streams, params *inspectParams, cfg *config.Config, args []string) (*tagtree.Node, []byte, error) {
	nodeCodec := cfg.NodeCodec()
	if params.Document {
		value, err := readDocument(streams, params.Format, args)
		if err != nil {
			return nil, nil, err
		}
		node, err := transcode.NewEncoder(cfg.TranscodeOptions()).Encode(value)
		if err != nil {
			return nil, nil, err
		}
		encoded, err := nodeCodec.MarshalNode(node)
		if err != nil {
			return nil, nil, err
		}
		return node, encoded, nil
	}

	encoded, err := params.readBinary(streams, args)
	if err != nil {
		return nil, nil, err
	}
	node, err := nodeCodec.UnmarshalNode(encoded)
	if err != nil {
		return nil, nil, err
	}
	return node, encoded, nil
}
