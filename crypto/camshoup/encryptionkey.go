package camshoup

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/go-camshoup/verenc/common"
)

// EncryptionKey is the public half of a Camenisch-Shoup key pair: y1[1..L],
// y2, y3 derived from a DecryptionKey's secret exponents as g^x, plus the
// Group they live in. EncryptionKey encrypts messages and both generates
// and verifies the NIZK proof of correct encryption.
type EncryptionKey struct {
	y1    []*big.Int
	y2    *big.Int
	y3    *big.Int
	group *Group
}

type encryptionKeyJSON struct {
	Y1    []string `json:"y1"`
	Y2    string   `json:"y2"`
	Y3    string   `json:"y3"`
	Group *Group   `json:"group"`
}

// EncryptionKeyFromDecryptionKey derives the public key yj = g^xj from a
// decryption key's secret exponents.
func EncryptionKeyFromDecryptionKey(dk *DecryptionKey) *EncryptionKey {
	grp := dk.group
	y1 := make([]*big.Int, len(dk.x1))
	for i, x := range dk.x1 {
		y1[i] = grp.GPow(x)
	}
	return &EncryptionKey{
		y1:    y1,
		y2:    grp.GPow(dk.x2),
		y3:    grp.GPow(dk.x3),
		group: grp,
	}
}

// Capacity returns L, the maximum number of messages per ciphertext.
func (ek *EncryptionKey) Capacity() int { return len(ek.y1) }

// Group returns the group this key was derived from.
func (ek *EncryptionKey) Group() *Group { return ek.group }

// Encrypt encrypts msgs under a freshly sampled blinding factor, binding
// domain as the hash's domain-separation tag.
func (ek *EncryptionKey) Encrypt(domain []byte, msgs []*big.Int) (*VerifiableCipherText, error) {
	if err := ek.checkMessages(msgs); err != nil {
		return nil, err
	}
	r := ek.group.RandomForEncrypt()
	return ek.encryptWithBlinding(domain, msgs, r), nil
}

// EncryptWithBlinding encrypts msgs using the caller-supplied randomness r
// instead of sampling it. Exposed so callers that need to reproduce or
// audit a specific ciphertext can do so.
func (ek *EncryptionKey) EncryptWithBlinding(domain []byte, msgs []*big.Int, r *big.Int) (*VerifiableCipherText, error) {
	if err := ek.checkMessages(msgs); err != nil {
		return nil, err
	}
	return ek.encryptWithBlinding(domain, msgs, r), nil
}

func (ek *EncryptionKey) checkMessages(msgs []*big.Int) error {
	if len(msgs) > len(ek.y1) {
		return ErrCapacityExceeded
	}
	for i, m := range msgs {
		if m.Cmp(ek.group.n) == 1 {
			return &InvalidMessageError{Index: i}
		}
	}
	return nil
}

func (ek *EncryptionKey) encryptWithBlinding(domain []byte, msgs []*big.Int, r *big.Int) *VerifiableCipherText {
	u := ek.computeU(r)
	e := ek.computeE(msgs, r)
	h := ek.group.Hash(u, e, domain)
	v := ek.computeV(r, h, true)
	return &VerifiableCipherText{u: u, v: v, e: e}
}

func (ek *EncryptionKey) computeU(r *big.Int) *big.Int {
	return ek.group.GPow(r)
}

func (ek *EncryptionKey) computeE(msgs []*big.Int, r *big.Int) []*big.Int {
	grp := ek.group
	e := make([]*big.Int, len(msgs))
	for i, m := range msgs {
		e[i] = grp.Mul(grp.Pow(ek.y1[i], r), grp.HPow(m))
	}
	return e
}

// computeV computes (y2 * y3^hash)^r, applying Abs when applyAbs is true --
// the ciphertext's v is always canonical, but the prover's Schnorr test
// value T.v must not be, or verification will fail against any reference
// implementation that reproduces this asymmetry (see design notes).
func (ek *EncryptionKey) computeV(r, hash *big.Int, applyAbs bool) *big.Int {
	grp := ek.group
	base := grp.Mul(grp.Pow(ek.y3, hash), ek.y2)
	v := grp.Pow(base, r)
	if applyAbs {
		return grp.Abs(v)
	}
	return v
}

// EncryptAndProve encrypts msgs and generates a NIZK proof of correct
// encryption, sampling fresh blinding factors for the proof's commitments.
func (ek *EncryptionKey) EncryptAndProve(nonce []byte, msgs []*big.Int) (*VerifiableCipherText, *VerifiableEncryptionProof, error) {
	blindings := make([]*big.Int, len(msgs))
	for i := range blindings {
		blindings[i] = ek.group.RandomForEncrypt()
	}
	return ek.EncryptAndProveBlindings(nonce, msgs, blindings)
}

// EncryptAndProveBlindings encrypts msgs and generates a NIZK proof using
// caller-supplied blinding factors, none of which may be zero.
func (ek *EncryptionKey) EncryptAndProveBlindings(nonce []byte, msgs, blindings []*big.Int) (*VerifiableCipherText, *VerifiableEncryptionProof, error) {
	if len(msgs) != len(blindings) {
		return nil, nil, ErrLengthMismatch
	}
	if err := ek.checkMessages(msgs); err != nil {
		return nil, nil, err
	}
	for i, b := range blindings {
		if b.Sign() == 0 {
			return nil, nil, &InvalidBlindingError{Index: i}
		}
	}

	grp := ek.group
	r := grp.RandomForEncrypt()
	rTick := grp.RandomForEncrypt()

	ct := ek.encryptWithBlinding(nonce, msgs, r)
	h := grp.Hash(ct.u, ct.e, nonce)
	testValues := ek.ciphertextTestValues(rTick, h, blindings)
	challenge := ek.fiatShamir(nonce, ct, testValues)

	rHat := ek.schnorr(rTick, challenge, r)
	mHat := make([]*big.Int, len(msgs))
	for i, m := range msgs {
		mHat[i] = ek.schnorr(blindings[i], challenge, m)
	}

	return ct, &VerifiableEncryptionProof{challenge: challenge, r: rHat, m: mHat}, nil
}

// ciphertextTestValues computes the Schnorr commitments T as if encrypting
// 2*blindings under randomness 2*rTick, without applying Abs to T.v.
func (ek *EncryptionKey) ciphertextTestValues(rTick, hash *big.Int, blindings []*big.Int) *VerifiableCipherText {
	twoR := new(big.Int).Lsh(rTick, 1)
	twoM := make([]*big.Int, len(blindings))
	for i, b := range blindings {
		twoM[i] = new(big.Int).Lsh(b, 1)
	}
	u := ek.computeU(twoR)
	e := ek.computeE(twoM, twoR)
	v := ek.computeV(twoR, hash, false)
	return &VerifiableCipherText{u: u, v: v, e: e}
}

// schnorr computes tilde - challenge*value, the standard Sigma-protocol
// response. Multiplication is reduced modulo n² (never modulo an unknown
// group order: this is a correctness requirement for Camenisch-Shoup, not
// an oversight -- see design notes), but the subtraction itself is plain
// integer subtraction, matching the reference implementation exactly.
func (ek *EncryptionKey) schnorr(tilde, challenge, value *big.Int) *big.Int {
	return new(big.Int).Sub(tilde, ek.group.Mul(challenge, value))
}

// Verify checks a NIZK proof of correct encryption against ciphertext,
// returning ErrInvalidProof (or ErrCapacityExceeded / ErrLengthMismatch for
// a proof with too many or mismatched responses) on failure and nil on
// success.
func (ek *EncryptionKey) Verify(nonce []byte, ct *VerifiableCipherText, proof *VerifiableEncryptionProof) error {
	if len(proof.m) > len(ek.y1) {
		return ErrCapacityExceeded
	}
	if len(proof.m) != len(ct.e) {
		return ErrLengthMismatch
	}

	grp := ek.group
	twoC := new(big.Int).Lsh(proof.challenge, 1)
	twoR := new(big.Int).Lsh(proof.r, 1)

	uc := grp.Pow(ct.u, twoC)
	gr := grp.GPow(twoR)
	u := grp.Mul(uc, gr)

	e := make([]*big.Int, len(proof.m))
	for i := range proof.m {
		ec := grp.Pow(ct.e[i], twoC)
		yr := grp.Pow(ek.y1[i], twoR)
		hm := grp.HPow(new(big.Int).Lsh(proof.m[i], 1))
		e[i] = grp.Mul(grp.Mul(ec, yr), hm)
	}

	hs := grp.Hash(ct.u, ct.e, nonce)
	vc := grp.Pow(ct.v, twoC)
	y3hs := grp.Pow(ek.y3, hs)
	y2y3hs := grp.Mul(ek.y2, y3hs)
	y2y3hsR := grp.Pow(y2y3hs, twoR)
	v := grp.Mul(vc, y2y3hsR)

	testValues := &VerifiableCipherText{u: u, v: v, e: e}
	challenge := ek.fiatShamir(nonce, ct, testValues)
	if challenge.Cmp(proof.challenge) != 0 {
		return ErrInvalidProof
	}
	return nil
}

// fiatShamir derives the proof challenge from the full public transcript:
// nonce, group parameters, the public key, the ciphertext, and the Schnorr
// test values, each under its own label, in the exact order the scheme
// specifies.
func (ek *EncryptionKey) fiatShamir(nonce []byte, ct, testValues *VerifiableCipherText) *big.Int {
	grp := ek.group
	t := common.NewTranscript("camenisch-shoup verifiable encryption proof")
	t.Append("nonce", nonce)
	t.Append("n", common.CanonicalBytes(grp.n))
	t.Append("g", common.CanonicalBytes(grp.g))
	t.Append("y2", common.CanonicalBytes(ek.y2))
	t.Append("y3", common.CanonicalBytes(ek.y3))
	t.Append("y1", concatBigInts(ek.y1))
	t.Append("ciphertext.u", common.CanonicalBytes(ct.u))
	t.Append("ciphertext.e", concatBigInts(ct.e))
	t.Append("ciphertext.v", common.CanonicalBytes(ct.v))
	t.Append("ciphertext_test.u", common.CanonicalBytes(testValues.u))
	t.Append("ciphertext_test.e", concatBigInts(testValues.e))
	t.Append("ciphertext_test.v", common.CanonicalBytes(testValues.v))

	out := make([]byte, 32)
	t.Challenge("verifiable encryption proof challenge", out)
	return new(big.Int).SetBytes(out)
}

func (ek *EncryptionKey) MarshalJSON() ([]byte, error) {
	y1 := make([]string, len(ek.y1))
	for i, y := range ek.y1 {
		y1[i] = common.HexEncode(y)
	}
	return json.Marshal(encryptionKeyJSON{
		Y1:    y1,
		Y2:    common.HexEncode(ek.y2),
		Y3:    common.HexEncode(ek.y3),
		Group: ek.group,
	})
}

func (ek *EncryptionKey) UnmarshalJSON(bz []byte) error {
	var aux encryptionKeyJSON
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}
	y1 := make([]*big.Int, len(aux.Y1))
	for i, s := range aux.Y1 {
		y, err := common.HexDecode(s)
		if err != nil {
			return errors.Wrapf(err, "camshoup: decoding y1[%d]", i)
		}
		y1[i] = y
	}
	y2, err := common.HexDecode(aux.Y2)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding y2")
	}
	y3, err := common.HexDecode(aux.Y3)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding y3")
	}
	ek.y1, ek.y2, ek.y3, ek.group = y1, y2, y3, aux.Group
	return nil
}
