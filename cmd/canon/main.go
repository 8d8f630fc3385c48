// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Canon encodes structured documents into canonical tagged binary
// (DER or CBOR), decodes and inspects such encodings, and computes
// digests that are stable across key order and integer width.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], standardStreams()); err != nil {
		// Commands that print their own failure output return an
		// ExitError. Don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, streams streams) error {
	return rootCommand(streams).Execute(args)
}
