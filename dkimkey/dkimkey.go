// Package dkimkey resolves DKIM signer public keys. The witness layer only
// needs the signer's RSA modulus as an arbitrary-precision integer; key
// records are fetched from the <selector>._domainkey.<domain> DNS TXT
// location or supplied statically.
package dkimkey

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net"
	"strings"
)

// Resolver supplies the RSA modulus for a selector/domain pair.
type Resolver interface {
	LookupModulus(ctx context.Context, selector, domain string) (*big.Int, error)
}

// DNS resolves key records from DNS TXT. The zero value uses the system
// resolver.
type DNS struct {
	Resolver *net.Resolver
}

func (d *DNS) LookupModulus(ctx context.Context, selector, domain string) (*big.Int, error) {
	r := d.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	name := selector + "._domainkey." + domain
	records, err := r.LookupTXT(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}
	for _, txt := range records {
		n, err := ParseRecordModulus(txt)
		if err == nil {
			return n, nil
		}
	}
	return nil, fmt.Errorf("no usable DKIM key record at %s", name)
}

// ParseRecordModulus extracts the RSA modulus from a DKIM key record of the
// form "v=DKIM1; k=rsa; p=<base64 PKIX public key>". Only RSA keys are
// supported; an absent or empty p= tag means the key was revoked.
func ParseRecordModulus(txt string) (*big.Int, error) {
	var pubB64 string
	for _, field := range strings.Split(txt, ";") {
		tag, val, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "k":
			if val != "" && !strings.EqualFold(val, "rsa") {
				return nil, fmt.Errorf("unsupported key type %q", val)
			}
		case "p":
			// TXT records split across strings may carry spaces.
			pubB64 = strings.ReplaceAll(val, " ", "")
		}
	}
	if pubB64 == "" {
		return nil, errors.New("record has no public key (p= absent or revoked)")
	}
	der, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return nil, fmt.Errorf("decode p=: %w", err)
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA key: %T", key)
	}
	return rsaKey.N, nil
}

// Static maps "selector.domain" to a modulus, for tests and offline use.
type Static map[string]*big.Int

func (s Static) LookupModulus(_ context.Context, selector, domain string) (*big.Int, error) {
	if n, ok := s[selector+"."+domain]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("no key for %s.%s", selector, domain)
}
