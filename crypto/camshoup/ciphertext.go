package camshoup

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/go-camshoup/verenc/common"
)

// VerifiableCipherText is a Camenisch-Shoup ciphertext: (u, v, e1..ek),
// k <= the encrypting key's capacity. All elements lie in [0, n²); v is
// always carried in absolute (canonical) form.
type VerifiableCipherText struct {
	u *big.Int
	v *big.Int
	e []*big.Int
}

type ciphertextJSON struct {
	U string   `json:"u"`
	V string   `json:"v"`
	E []string `json:"e"`
}

// Equal reports componentwise equality.
func (ct *VerifiableCipherText) Equal(other *VerifiableCipherText) bool {
	if ct == nil || other == nil {
		return ct == other
	}
	if ct.u.Cmp(other.u) != 0 || ct.v.Cmp(other.v) != 0 || len(ct.e) != len(other.e) {
		return false
	}
	for i := range ct.e {
		if ct.e[i].Cmp(other.e[i]) != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of encrypted components, k.
func (ct *VerifiableCipherText) Len() int { return len(ct.e) }

func (ct *VerifiableCipherText) MarshalJSON() ([]byte, error) {
	e := make([]string, len(ct.e))
	for i, ee := range ct.e {
		e[i] = common.HexEncode(ee)
	}
	return json.Marshal(ciphertextJSON{
		U: common.HexEncode(ct.u),
		V: common.HexEncode(ct.v),
		E: e,
	})
}

func (ct *VerifiableCipherText) UnmarshalJSON(bz []byte) error {
	var aux ciphertextJSON
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}
	u, err := common.HexDecode(aux.U)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding ciphertext.u")
	}
	v, err := common.HexDecode(aux.V)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding ciphertext.v")
	}
	e := make([]*big.Int, len(aux.E))
	for i, s := range aux.E {
		ee, err := common.HexDecode(s)
		if err != nil {
			return errors.Wrapf(err, "camshoup: decoding ciphertext.e[%d]", i)
		}
		e[i] = ee
	}
	ct.u, ct.v, ct.e = u, v, e
	return nil
}

// VerifiableEncryptionProof is a Fiat-Shamir NIZK attesting that a
// VerifiableCipherText was formed from a correctly blinded encryption of
// its hidden plaintexts: (challenge c, response r-hat, responses m-hat).
type VerifiableEncryptionProof struct {
	challenge *big.Int
	r         *big.Int
	m         []*big.Int
}

type proofJSON struct {
	Challenge string   `json:"challenge"`
	R         string   `json:"r"`
	M         []string `json:"m"`
}

// Len returns the number of message responses carried by the proof.
func (p *VerifiableEncryptionProof) Len() int { return len(p.m) }

func (p *VerifiableEncryptionProof) MarshalJSON() ([]byte, error) {
	m := make([]string, len(p.m))
	for i, mi := range p.m {
		m[i] = common.HexEncode(mi)
	}
	return json.Marshal(proofJSON{
		Challenge: common.HexEncode(p.challenge),
		R:         common.HexEncode(p.r),
		M:         m,
	})
}

func (p *VerifiableEncryptionProof) UnmarshalJSON(bz []byte) error {
	var aux proofJSON
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}
	c, err := common.HexDecode(aux.Challenge)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding proof.challenge")
	}
	r, err := common.HexDecode(aux.R)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding proof.r")
	}
	m := make([]*big.Int, len(aux.M))
	for i, s := range aux.M {
		mi, err := common.HexDecode(s)
		if err != nil {
			return errors.Wrapf(err, "camshoup: decoding proof.m[%d]", i)
		}
		m[i] = mi
	}
	p.challenge, p.r, p.m = c, r, m
	return nil
}
