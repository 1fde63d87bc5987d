// Package emailparse locates the DKIM-Signature and From headers in raw
// email text. All scanning is case-insensitive and tolerates header
// folding: a header value may continue on following lines that start with
// whitespace, and folded values are unfolded before fields are extracted.
package emailparse

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidTextEncoding   = errors.New("email text is not valid UTF-8")
	ErrFromHeaderNotFound    = errors.New("no From header found")
	ErrDKIMHeaderNotFound    = errors.New("no DKIM-Signature header found")
	ErrSignatureFieldMissing = errors.New("DKIM-Signature has no b= field")
	ErrAddressNotFound       = errors.New("From header contains no address")
)

var (
	// "From:" at input start or directly after a line break.
	fromTokenRe = regexp.MustCompile(`(?i)(?:^|\r\n|\n)(from:)`)

	// A header value runs to the first line break that is not followed by
	// whitespace, i.e. it includes all folded continuation lines.
	dkimHeaderRe = regexp.MustCompile(`(?im)^dkim-signature:((?:[^\r\n]|\r?\n[ \t])+)`)
	fromLineRe   = regexp.MustCompile(`(?im)^(from:(?:[^\r\n]|\r?\n[ \t])+)`)

	angleAddrRe = regexp.MustCompile(`<([^<>]+)>`)
	bareAddrRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+`)

	lineBreakRe  = regexp.MustCompile(`\r?\n`)
	whitespaceRe = regexp.MustCompile(`[ \t\r\n]+`)
)

// LocateFromHeader returns the byte offset of the first "From:" token that
// starts the input or immediately follows a line break. The offset is that
// of the "F".
func LocateFromHeader(b []byte) (int, bool) {
	m := fromTokenRe.FindSubmatchIndex(b)
	if m == nil {
		return 0, false
	}
	return m[2], true
}

// DKIMSignature holds the fields extracted from one DKIM-Signature header.
// Selector and Domain are carried through unvalidated.
type DKIMSignature struct {
	SignatureB64 string // b= value, folding whitespace stripped
	Selector     string // s= value, may be empty
	Domain       string // d= value, may be empty
}

// ExtractDKIMSignature finds the first DKIM-Signature header, unfolds its
// value, and extracts the b=, s= and d= tags. A missing or empty b= tag is
// an error; missing s= and d= tags default to empty strings.
func ExtractDKIMSignature(b []byte) (*DKIMSignature, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidTextEncoding
	}
	m := dkimHeaderRe.FindSubmatch(b)
	if m == nil {
		return nil, ErrDKIMHeaderNotFound
	}
	value := lineBreakRe.ReplaceAllString(string(m[1]), "")

	sig := &DKIMSignature{}
	for _, field := range strings.Split(value, ";") {
		tag, val, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "b":
			// Base64 folded across lines may carry embedded whitespace.
			sig.SignatureB64 = whitespaceRe.ReplaceAllString(val, "")
		case "s":
			sig.Selector = val
		case "d":
			sig.Domain = val
		}
	}
	if sig.SignatureB64 == "" {
		return nil, ErrSignatureFieldMissing
	}
	return sig, nil
}

// FromHeader describes where the From header and the sender address sit in
// the original email text. Offsets and lengths are in bytes; Address is
// lowercased.
type FromHeader struct {
	HeaderStart   int
	HeaderLength  int
	AddressStart  int
	AddressLength int
	Address       string
}

// FindFromHeader locates the first From header line, extracts the sender
// address (angle-bracketed or a bare local@domain token), lowercases it,
// and reports the byte range of its first occurrence in the text.
func FindFromHeader(b []byte) (*FromHeader, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidTextEncoding
	}
	loc := fromLineRe.FindSubmatchIndex(b)
	if loc == nil {
		return nil, ErrFromHeaderNotFound
	}
	line := lineBreakRe.ReplaceAllString(string(b[loc[2]:loc[3]]), "")

	var addr string
	if m := angleAddrRe.FindStringSubmatch(line); m != nil {
		addr = m[1]
	} else if m := bareAddrRe.FindString(line); m != "" {
		addr = m
	} else {
		return nil, ErrAddressNotFound
	}
	addr = strings.ToLower(strings.TrimSpace(addr))

	// Lowercasing the whole text and indexing into it would shift offsets:
	// ToLower grows some non-ASCII characters (U+0130 is 2 bytes, its
	// lowercase form 3). Matching the quoted address case-insensitively
	// over the original bytes keeps the range valid in the original text.
	occurrence := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(addr)).FindIndex(b)
	if occurrence == nil {
		return nil, ErrAddressNotFound
	}
	return &FromHeader{
		HeaderStart:   loc[2],
		HeaderLength:  loc[3] - loc[2],
		AddressStart:  occurrence[0],
		AddressLength: occurrence[1] - occurrence[0],
		Address:       addr,
	}, nil
}
