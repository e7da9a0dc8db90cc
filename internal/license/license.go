// Package license keeps the MPL 2.0 header at the top of icon sources.
package license

import (
	"regexp"
	"strings"
)

// Header is the canonical license comment.
const Header = `<!-- This Source Code Form is subject to the terms of the Mozilla Public
   - License, v. 2.0. If a copy of the MPL was not distributed with this
   - file, You can obtain one at http://mozilla.org/MPL/2.0/. -->`

// blockRe matches any prior header regardless of how its lines were broken
// or re-indented, together with the whitespace that follows it.
var blockRe = regexp.MustCompile(`<!--\s*This Source Code Form is subject to the terms of the Mozilla Public[\s\S]*?http://mozilla\.org/MPL/2\.0/\.?\s*-->\s*`)

// Ensure strips every existing header and prepends exactly one.
func Ensure(text string) string {
	stripped := blockRe.ReplaceAllString(text, "")
	var b strings.Builder
	b.Grow(len(Header) + 1 + len(stripped))
	b.WriteString(Header)
	b.WriteByte('\n')
	b.WriteString(stripped)
	return b.String()
}

// Has reports whether text already starts with the canonical header.
func Has(text string) bool {
	return strings.HasPrefix(text, Header+"\n") && len(blockRe.FindAllStringIndex(text, -1)) == 1
}
