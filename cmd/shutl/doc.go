// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for shutl.
//
// This package implements the Cobra command hierarchy: the static
// subcommands (list, new, edit, config, completion) plus the dynamic
// command tree generated from the scripts directory at startup. Every
// discovered script becomes a leaf command whose flags and positional
// arguments mirror the script's metadata block.
package cmd
