// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"fmt"
	"strings"
)

type (
	// attr is a single bracket option: a bare word (`required`, `bool`, ...)
	// or a key:value pair (`default:staging`, `options:a|b|c`).
	attr struct {
		key      string
		value    string
		hasValue bool
	}

	// attrLexer tokenizes the bracket-option list of a directive over the
	// separators `,` (between options), `:` (key/value) and `|` (option-set
	// members). Modeling this as a tiny lexer instead of nested string
	// splitting keeps malformed input detectable: empty keys, empty set
	// members and dangling separators are reported instead of vanishing.
	attrLexer struct {
		input string
		pos   int
	}
)

// parseAttrList tokenizes a comma-separated bracket-option list.
// The input is the text between `[` and `]`, brackets excluded.
func parseAttrList(input string) ([]attr, error) {
	lx := &attrLexer{input: input}
	var attrs []attr

	for {
		a, more, err := lx.next()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
		if !more {
			return attrs, nil
		}
	}
}

// next scans one option. It returns the option and whether a comma
// announced a further one.
func (lx *attrLexer) next() (attr, bool, error) {
	start := lx.pos
	keyEnd := -1

	for lx.pos < len(lx.input) {
		switch lx.input[lx.pos] {
		case ',':
			a, err := lx.emit(start, keyEnd, lx.pos)
			if err != nil {
				return attr{}, false, err
			}
			lx.pos++
			if lx.pos >= len(lx.input) {
				return attr{}, false, fmt.Errorf("dangling ',' at end of option list")
			}
			return a, true, nil
		case ':':
			if keyEnd < 0 {
				keyEnd = lx.pos
			}
			// A second ':' belongs to the value (e.g. default:a:b).
			lx.pos++
		default:
			lx.pos++
		}
	}

	a, err := lx.emit(start, keyEnd, lx.pos)
	return a, false, err
}

// emit builds the attr for input[start:end], with keyEnd marking the first
// ':' inside that span (or -1 for a bare word).
func (lx *attrLexer) emit(start, keyEnd, end int) (attr, error) {
	raw := lx.input[start:end]
	if strings.TrimSpace(raw) == "" {
		return attr{}, fmt.Errorf("empty option in option list")
	}

	if keyEnd < 0 {
		return attr{key: strings.TrimSpace(raw)}, nil
	}

	key := strings.TrimSpace(lx.input[start:keyEnd])
	if key == "" {
		return attr{}, fmt.Errorf("option %q has an empty key", raw)
	}

	return attr{
		key:      key,
		value:    strings.TrimSpace(lx.input[keyEnd+1 : end]),
		hasValue: true,
	}, nil
}

// parseOptionSet tokenizes an `options:` value over `|`.
func parseOptionSet(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("options set must not be empty")
	}

	var members []string
	for _, m := range strings.Split(value, "|") {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, fmt.Errorf("options set contains an empty member")
		}
		members = append(members, m)
	}
	return members, nil
}

// splitDirectiveBody splits a directive body into its description and the
// optional trailing bracket-option list. The option list is the bracketed
// suffix of the line: `Input file [default:in.txt,required]`.
func splitDirectiveBody(body string) (desc, attrs string, hasAttrs bool) {
	body = strings.TrimSpace(body)
	if !strings.HasSuffix(body, "]") {
		return body, "", false
	}

	open := strings.LastIndex(body, "[")
	if open < 0 {
		return body, "", false
	}

	return strings.TrimSpace(body[:open]), body[open+1 : len(body)-1], true
}
