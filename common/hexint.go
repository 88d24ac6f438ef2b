package common

import (
	"encoding/hex"
	"math/big"
)

// HexEncode renders x as a lowercase hex string with no "0x" prefix, the
// wire format for every big integer this module serializes. Grounded on
// crypto.ECPoint's custom (Un)MarshalJSON (teacher), generalized from
// marshalling coordinate pairs to marshalling a single integer as text.
func HexEncode(x *big.Int) string {
	return hex.EncodeToString(CanonicalBytes(x))
}

// HexDecode parses the encoding produced by HexEncode. Decoding is
// case-insensitive: encoding/hex accepts both cases, and the reference test
// vectors for this scheme are shipped in uppercase. Odd-length input (no
// leading zero nibble, e.g. "3") is also accepted.
func HexDecode(s string) (*big.Int, error) {
	if len(s)%2 == 1 {
		s = "0" + s
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return FromCanonicalBytes(bz), nil
}
