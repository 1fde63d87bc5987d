package inputs

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"zkemail-witness/emailparse"
	"zkemail-witness/limbs"
)

// testSignature is a deterministic 2048-bit RSA-sized signature value.
func testSignature() []byte {
	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	return raw
}

func testModulus(t *testing.T) *big.Int {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	buf := make([]byte, 256)
	rng.Read(buf)
	m := new(big.Int).SetBytes(buf)
	m.SetBit(m, 2047, 1)
	m.SetBit(m, 0, 1)
	return m
}

// foldB64 wraps a base64 string the way mail transfer agents fold long
// header values.
func foldB64(s string) string {
	var sb strings.Builder
	for len(s) > 60 {
		sb.WriteString(s[:60])
		sb.WriteString("\r\n ")
		s = s[60:]
	}
	sb.WriteString(s)
	return sb.String()
}

func testEmail(prefixLines int) []byte {
	var sb strings.Builder
	for i := 0; i < prefixLines; i++ {
		sb.WriteString("X-Filler: aaaaaaaaaaaaaaaaaaaaa\r\n")
	}
	sb.WriteString("DKIM-Signature: v=1; a=rsa-sha256; c=relaxed/relaxed; d=example.com;\r\n")
	sb.WriteString(" s=sel1; h=from:to:subject;\r\n")
	sb.WriteString(" bh=47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=;\r\n")
	sb.WriteString(" b=" + foldB64(base64.StdEncoding.EncodeToString(testSignature())) + ";\r\n")
	sb.WriteString("From: Test User <Test@Example.com>\r\n")
	sb.WriteString("To: other@example.com\r\n")
	return []byte(sb.String())
}

func TestLimbGeometryFitsScalarField(t *testing.T) {
	// Every limb must be representable in the field the backend proves
	// over, and the layout must hold a 2048-bit RSA modulus.
	require.Less(t, LimbBits, ecc.BN254.ScalarField().BitLen())
	require.GreaterOrEqual(t, LimbCount*LimbBits, 2048)
}

func TestParseDKIMAndFrom(t *testing.T) {
	modulus := testModulus(t)
	frag, err := ParseDKIMAndFrom(testEmail(0), modulus)
	require.NoError(t, err)

	require.Equal(t, "sel1", frag.Selector)
	require.Equal(t, "example.com", frag.Domain)
	require.Equal(t, "test@example.com", frag.From.Address)

	sig, err := limbs.Decode(frag.SignatureLimbs, LimbBits)
	require.NoError(t, err)
	require.Zero(t, sig.Cmp(new(big.Int).SetBytes(testSignature())))

	mod, err := limbs.Decode(frag.ModulusLimbs, LimbBits)
	require.NoError(t, err)
	require.Zero(t, mod.Cmp(modulus))

	redc, err := limbs.Decode(frag.RedcLimbs, LimbBits)
	require.NoError(t, err)
	r := new(big.Int).Lsh(big.NewInt(1), LimbCount*LimbBits)
	check := new(big.Int).Mul(modulus, redc)
	check.Add(check, big.NewInt(1))
	check.Mod(check, r)
	require.Zero(t, check.Sign())
}

func TestParseDKIMAndFromBadBase64(t *testing.T) {
	email := []byte("DKIM-Signature: v=1; s=sel1; d=example.com; b=!!!not-base64!!!\r\n" +
		"From: test@example.com\r\n")
	_, err := ParseDKIMAndFrom(email, testModulus(t))
	require.ErrorIs(t, err, ErrSignatureDecode)
}

func TestParseDKIMAndFromMissingHeaders(t *testing.T) {
	_, err := ParseDKIMAndFrom([]byte("From: test@example.com\r\n"), testModulus(t))
	require.ErrorIs(t, err, emailparse.ErrDKIMHeaderNotFound)

	email := []byte("DKIM-Signature: v=1; s=sel1; d=example.com; b=QUJD\r\nTo: x@y.example\r\n")
	_, err = ParseDKIMAndFrom(email, testModulus(t))
	require.ErrorIs(t, err, emailparse.ErrFromHeaderNotFound)
}

func TestParseDKIMAndFromModulusTooWide(t *testing.T) {
	tooWide := new(big.Int).Lsh(big.NewInt(1), LimbCount*LimbBits)
	_, err := ParseDKIMAndFrom(testEmail(0), tooWide)
	require.Error(t, err)
}

func TestAssembleShortEmail(t *testing.T) {
	email := testEmail(0)
	bundle, err := Assemble(email, testModulus(t), len(email)+16)
	require.NoError(t, err)
	require.Equal(t, uint64(0), bundle.PartialHash.PrehashedLength)
	require.Equal(t, email, bundle.PartialHash.Remaining)
}

func TestAssembleLongEmail(t *testing.T) {
	email := testEmail(100)
	const capacity = 2560
	require.Greater(t, len(email), capacity)

	bundle, err := Assemble(email, testModulus(t), capacity)
	require.NoError(t, err)
	require.NotZero(t, bundle.PartialHash.PrehashedLength)
	require.Zero(t, bundle.PartialHash.PrehashedLength%64)
	require.Contains(t, string(bundle.PartialHash.Remaining), "From:")
	require.Equal(t, "test@example.com", bundle.From.Address)
}

func TestBundleJSONWireFormat(t *testing.T) {
	email := testEmail(0)
	bundle, err := Assemble(email, testModulus(t), len(email))
	require.NoError(t, err)

	data, err := json.Marshal(bundle)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	for _, key := range []string{
		"hash_state", "remaining", "total_length", "prehashed_length",
		"signature_limbs", "modulus_limbs", "redc_limbs",
		"from_header_start", "from_header_length",
		"from_address_start", "from_address_length", "from_address",
		"selector", "domain",
	} {
		require.Contains(t, wire, key)
	}
	require.Len(t, wire["signature_limbs"], LimbCount)
	// Raw bytes travel hex-encoded.
	require.True(t, strings.HasPrefix(wire["remaining"].(string), "0x"))
}

func TestBundleCBORRoundTrip(t *testing.T) {
	email := testEmail(0)
	bundle, err := Assemble(email, testModulus(t), len(email))
	require.NoError(t, err)

	first, err := bundle.ToCBOR()
	require.NoError(t, err)
	second, err := bundle.ToCBOR()
	require.NoError(t, err)
	require.NotEmpty(t, first)
	require.Equal(t, first, second) // deterministic encoding
}
