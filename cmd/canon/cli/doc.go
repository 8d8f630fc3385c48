// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the canon binary.
//
// A [Command] tree dispatches on the first positional argument, parses
// flags with github.com/spf13/pflag and suggests the closest command or
// flag name on typos. [FlagsFromParams] binds a tagged params struct to
// a flag set. [NewCommandLogger] builds the slog logger commands write
// diagnostics through, and [ExitError] carries an exit code for
// commands that print their own failure output.
package cli
