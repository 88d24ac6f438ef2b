package camshoup

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/go-camshoup/verenc/common"
)

// DecryptionKey holds the secret exponents x1[1..L], x2, x3 that decrypt
// ciphertexts produced under the matching EncryptionKey.
type DecryptionKey struct {
	x1    []*big.Int
	x2    *big.Int
	x3    *big.Int
	group *Group
}

type decryptionKeyJSON struct {
	X1    []string `json:"x1"`
	X2    string   `json:"x2"`
	X3    string   `json:"x3"`
	Group *Group   `json:"group"`
}

// RandomDecryptionKey samples a fresh decryption key supporting up to l
// messages per ciphertext. x1[i], x2, x3 are drawn uniformly from
// [0, n²/4).
func RandomDecryptionKey(l int, group *Group) (*DecryptionKey, error) {
	if l < 1 {
		return nil, errors.New("camshoup: capacity must be >= 1")
	}
	x1 := make([]*big.Int, l)
	for i := range x1 {
		x1[i] = common.RandomInInterval(group.n2d4)
	}
	return &DecryptionKey{
		x1:    x1,
		x2:    common.RandomInInterval(group.n2d4),
		x3:    common.RandomInInterval(group.n2d4),
		group: group,
	}, nil
}

// Capacity returns L, the maximum number of messages per ciphertext.
func (dk *DecryptionKey) Capacity() int { return len(dk.x1) }

// Group returns the group this key was derived from.
func (dk *DecryptionKey) Group() *Group { return dk.group }

// Decrypt recovers the plaintext vector encrypted into ct under the given
// domain separation tag, or fails with one of the sentinel errors in
// errors.go.
func (dk *DecryptionKey) Decrypt(domain []byte, ct *VerifiableCipherText) ([]*big.Int, error) {
	if len(ct.e) > len(dk.x1) {
		return nil, ErrCapacityExceeded
	}

	grp := dk.group
	if ct.v.Cmp(grp.Abs(ct.v)) != 0 {
		return nil, ErrAbsCheckFailed
	}

	h := grp.Hash(ct.u, ct.e, domain)

	// exp = 2*(H*x3 + x2)
	exp := new(big.Int).Mul(h, dk.x3)
	exp.Add(exp, dk.x2)
	exp.Lsh(exp, 1)

	u := grp.Pow(ct.u, exp)
	v := grp.Pow(ct.v, bigTwo)
	if u.Cmp(v) != 0 {
		return nil, ErrConsistencyFailed
	}

	msgs := make([]*big.Int, len(ct.e))
	for i, ee := range ct.e {
		uxi := grp.Pow(ct.u, dk.x1[i])
		uxiInv := common.ModInt(grp.nn).ModInverse(uxi)
		if uxiInv == nil {
			return nil, ErrInvalidCiphertext
		}

		ehat := grp.Mul(uxiInv, ee)
		mhat := grp.Pow(ehat, grp.twoInvTwo)

		check := new(big.Int).Mod(mhat, grp.n)
		if check.Cmp(bigOne) != 0 {
			return nil, &DecryptionFailedError{Index: i}
		}

		mi := new(big.Int).Sub(mhat, bigOne)
		mi.Div(mi, grp.n)
		msgs[i] = mi
	}
	return msgs, nil
}

// Zeroize overwrites every secret exponent with zero. Call once the key is
// no longer needed; there is no finalizer-driven automatic scrubbing
// because Go does not run destructors, so the caller must invoke this
// explicitly at the end of the key's lifetime.
func (dk *DecryptionKey) Zeroize() {
	for _, x := range dk.x1 {
		zeroizeInPlace(x)
	}
	zeroizeInPlace(dk.x2)
	zeroizeInPlace(dk.x3)
}

func (dk *DecryptionKey) MarshalJSON() ([]byte, error) {
	x1 := make([]string, len(dk.x1))
	for i, x := range dk.x1 {
		x1[i] = common.HexEncode(x)
	}
	return json.Marshal(decryptionKeyJSON{
		X1:    x1,
		X2:    common.HexEncode(dk.x2),
		X3:    common.HexEncode(dk.x3),
		Group: dk.group,
	})
}

func (dk *DecryptionKey) UnmarshalJSON(bz []byte) error {
	var aux decryptionKeyJSON
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}
	x1 := make([]*big.Int, len(aux.X1))
	for i, s := range aux.X1 {
		x, err := common.HexDecode(s)
		if err != nil {
			return errors.Wrapf(err, "camshoup: decoding x1[%d]", i)
		}
		x1[i] = x
	}
	x2, err := common.HexDecode(aux.X2)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding x2")
	}
	x3, err := common.HexDecode(aux.X3)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding x3")
	}
	dk.x1, dk.x2, dk.x3, dk.group = x1, x2, x3, aux.Group
	return nil
}
