// SPDX-License-Identifier: MPL-2.0

// Package discovery scans the scripts directory and builds the command tree.
//
// Every runnable regular file under the root becomes a command; each
// subdirectory contributes a namespace segment, so sub/deploy.sh resolves as
// "sub deploy". Interpreter extensions (sh, py, rb, js) are trimmed from
// command names. A file named ".shutl" inside a subdirectory supplies the
// description for that namespace. Hidden entries are skipped.
//
// Resolution is deterministic: exact path match only. Duplicate resolved
// names are a registration-time error.
package discovery
