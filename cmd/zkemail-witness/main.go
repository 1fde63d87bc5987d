// Command zkemail-witness reads a raw email header file, resolves the DKIM
// signer's RSA public key, and writes the circuit input bundle for the
// proving backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/rs/zerolog"

	"zkemail-witness/dkimkey"
	"zkemail-witness/emailparse"
	"zkemail-witness/inputs"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		emlPath    = flag.String("eml", "", "raw email header file (required)")
		capacity   = flag.Int("capacity", 0, "max header bytes hashed in-circuit (overrides config)")
		format     = flag.String("format", "", "output format, json or cbor (overrides config)")
		outPath    = flag.String("o", "", "output file (default stdout)")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}
	if *capacity > 0 {
		cfg.Capacity = *capacity
	}
	if *format != "" {
		cfg.Format = *format
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		log = log.Level(level)
	}
	if *emlPath == "" {
		log.Fatal().Msg("-eml is required")
	}

	email, err := os.ReadFile(*emlPath)
	if err != nil {
		log.Fatal().Err(err).Msg("read email")
	}

	sig, err := emailparse.ExtractDKIMSignature(email)
	if err != nil {
		log.Fatal().Err(err).Msg("extract DKIM-Signature")
	}
	log.Debug().Str("selector", sig.Selector).Str("domain", sig.Domain).Msg("found signature")

	modulus, err := resolveModulus(cfg, sig)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve signer key")
	}

	bundle, err := inputs.Assemble(email, modulus, cfg.Capacity)
	if err != nil {
		log.Fatal().Err(err).Msg("assemble circuit inputs")
	}
	log.Info().
		Uint64("prehashed", bundle.PartialHash.PrehashedLength).
		Int("remaining", len(bundle.PartialHash.Remaining)).
		Str("from", bundle.From.Address).
		Msg("bundle assembled")

	var out []byte
	switch cfg.Format {
	case "cbor":
		out, err = bundle.ToCBOR()
	default:
		out, err = bundle.MarshalJSON()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("serialize bundle")
	}

	if *outPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
}

func resolveModulus(cfg *Config, sig *emailparse.DKIMSignature) (*big.Int, error) {
	if cfg.KeyRecord != "" {
		return dkimkey.ParseRecordModulus(cfg.KeyRecord)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.DNSTimeoutSeconds)*time.Second)
	defer cancel()
	resolver := &dkimkey.DNS{}
	return resolver.LookupModulus(ctx, sig.Selector, sig.Domain)
}
