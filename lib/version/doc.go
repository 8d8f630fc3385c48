// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for canon
// binaries.
//
// Four package-level variables may be injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/canon/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When GitCommit is not injected, the commit, dirty flag and time are
// read from the VCS stamp in the binary's build info.
//
//   - [Info] -- "0.1.0-dev (abc1234, 2026-02-10T...)" for --version
//   - [Full] -- Info plus Go version and GOOS/GOARCH
//   - [Short] -- just the version number
package version
