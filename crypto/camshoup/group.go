// Package camshoup implements Camenisch-Shoup verifiable encryption: a
// Paillier-style cryptosystem whose ciphertexts carry a non-interactive
// zero-knowledge proof that the encrypted plaintexts were formed correctly.
// See Shoup, "A Practical Verifiable Encryption Scheme" and its IBM revised
// writeup (rz3730).
package camshoup

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/go-camshoup/verenc/common"
)

const (
	// groupBitLen is the bit length of each safe prime in a randomly
	// generated Group, matching the 1024-bit choice of the original Rust
	// implementation.
	groupBitLen = 1024

	safePrimeConcurrency = 2
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// Group holds the public Paillier-style modulus and its precomputed
// derived values, plus the two generators g and h used throughout
// Camenisch-Shoup encryption, decryption, and proof verification.
//
// A Group is immutable after construction. p and q are never stored.
type Group struct {
	g, h      *big.Int
	n         *big.Int
	nn        *big.Int
	n2d2      *big.Int
	n2d4      *big.Int
	nd4       *big.Int
	twoInvTwo *big.Int
}

type groupJSON struct {
	G string `json:"g"`
	N string `json:"n"`
}

// RandomGroup samples two independent 1024-bit safe primes and constructs a
// Group from them. The search runs concurrently and respects ctx
// cancellation, grounded on common.GetRandomSafePrimesConcurrent.
func RandomGroup(ctx context.Context) (*Group, error) {
	sgps, err := common.GetRandomSafePrimesConcurrent(ctx, groupBitLen, 2, safePrimeConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "camshoup: safe prime generation failed")
	}
	p, q := sgps[0].SafePrime(), sgps[1].SafePrime()
	g, err := WithSafePrimesUnchecked(p, q)
	// p and q are local to this call; overwrite their backing words before
	// they go out of scope, matching the decryption key's scrubbing policy.
	zeroizeInPlace(p)
	zeroizeInPlace(q)
	return g, err
}

// WithSafePrimes constructs a Group from p and q, rejecting the call unless
// both are prime. Safeness of p and q (that (p-1)/2 and (q-1)/2 are also
// prime) is the caller's responsibility to assert; it is not checked here.
func WithSafePrimes(p, q *big.Int) (*Group, error) {
	if !p.ProbablyPrime(30) || !q.ProbablyPrime(30) {
		return nil, ErrNotPrime
	}
	return WithSafePrimesUnchecked(p, q)
}

// WithSafePrimesUnchecked constructs a Group from p and q without checking
// primality or safeness; it only rejects p == q.
func WithSafePrimesUnchecked(p, q *big.Int) (*Group, error) {
	if p.Cmp(q) == 0 {
		return nil, ErrEqualPrimes
	}

	n := new(big.Int).Mul(p, q)
	twoInv := new(big.Int).ModInverse(bigTwo, n)
	if twoInv == nil {
		return nil, ErrConstructionFailed
	}

	nn := new(big.Int).Mul(n, n)
	twoNN := new(big.Int).Lsh(nn, 1)
	gTick := common.RandomInInterval(nn)
	g := new(big.Int).Exp(gTick, twoNN, nn)

	return newGroupFromDerived(g, n), nil
}

// newGroupFromDerived recomputes every derived field from (g, n), used both
// by construction and by deserialization so the two paths can never drift
// out of sync.
func newGroupFromDerived(g, n *big.Int) *Group {
	nn := new(big.Int).Mul(n, n)
	n2d2 := new(big.Int).Rsh(nn, 1)
	n2d4 := new(big.Int).Rsh(n2d2, 1)
	nd4 := new(big.Int).Rsh(n, 2)
	h := new(big.Int).Add(n, bigOne)
	twoInv := new(big.Int).ModInverse(bigTwo, n)
	twoInvTwo := new(big.Int).Lsh(twoInv, 1)

	return &Group{
		g:         g,
		h:         h,
		n:         n,
		nn:        nn,
		n2d2:      n2d2,
		n2d4:      n2d4,
		nd4:       nd4,
		twoInvTwo: twoInvTwo,
	}
}

// NewKeys derives a fresh (EncryptionKey, DecryptionKey) pair supporting up
// to L messages per ciphertext.
func (grp *Group) NewKeys(l int) (*EncryptionKey, *DecryptionKey, error) {
	dk, err := RandomDecryptionKey(l, grp)
	if err != nil {
		return nil, nil, err
	}
	return EncryptionKeyFromDecryptionKey(dk), dk, nil
}

// Pow computes a^e mod n².
func (grp *Group) Pow(a, e *big.Int) *big.Int {
	return common.ModInt(grp.nn).Exp(a, e)
}

// Mul computes a*b mod n².
func (grp *Group) Mul(a, b *big.Int) *big.Int {
	return common.ModInt(grp.nn).Mul(a, b)
}

// GPow computes g^e mod n².
func (grp *Group) GPow(e *big.Int) *big.Int {
	return grp.Pow(grp.g, e)
}

// HPow computes h^e mod n².
func (grp *Group) HPow(e *big.Int) *big.Int {
	return grp.Pow(grp.h, e)
}

// Abs returns the canonical representative of a in the quotient
// Z/n²Z / {±1}: a mod n² if that is <= n²/2, else n² minus it.
func (grp *Group) Abs(a *big.Int) *big.Int {
	t := new(big.Int).Mod(a, grp.nn)
	if t.Cmp(grp.n2d2) == 1 {
		return new(big.Int).Sub(grp.nn, t)
	}
	return t
}

// RandomForEncrypt samples uniformly from [1, n/4).
func (grp *Group) RandomForEncrypt() *big.Int {
	return common.RandomNonZeroInInterval(grp.nd4)
}

// RandomValue samples uniformly from [1, n²/4).
func (grp *Group) RandomValue() *big.Int {
	return common.RandomNonZeroInInterval(grp.n2d4)
}

// Hash computes H(u, e, domain) as specified: a transcript under context
// label "encryption hash generation", absorbing u, e (concatenated in
// index order), and domain under labels "u", "e", "domain", then extracting
// 64 bytes under label "encryption hash output".
func (grp *Group) Hash(u *big.Int, e []*big.Int, domain []byte) *big.Int {
	t := common.NewTranscript("encryption hash generation")
	t.Append("u", common.CanonicalBytes(u))
	t.Append("e", concatBigInts(e))
	t.Append("domain", domain)

	out := make([]byte, 64)
	t.Challenge("encryption hash output", out)
	return new(big.Int).SetBytes(out)
}

// N returns the group modulus n = p*q.
func (grp *Group) N() *big.Int { return grp.n }

// NN returns n².
func (grp *Group) NN() *big.Int { return grp.nn }

// G returns the generator g.
func (grp *Group) G() *big.Int { return grp.g }

// H returns the generator h = n+1.
func (grp *Group) H() *big.Int { return grp.h }

// Equal reports whether two groups have identical public values, including
// derived fields -- used to test that deserialization recomputes them
// consistently.
func (grp *Group) Equal(other *Group) bool {
	if grp == nil || other == nil {
		return grp == other
	}
	return grp.g.Cmp(other.g) == 0 &&
		grp.h.Cmp(other.h) == 0 &&
		grp.n.Cmp(other.n) == 0 &&
		grp.nn.Cmp(other.nn) == 0 &&
		grp.n2d2.Cmp(other.n2d2) == 0 &&
		grp.n2d4.Cmp(other.n2d4) == 0 &&
		grp.nd4.Cmp(other.nd4) == 0 &&
		grp.twoInvTwo.Cmp(other.twoInvTwo) == 0
}

// MarshalJSON persists only (g, n); every derived field is recomputed on
// load.
func (grp *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupJSON{
		G: common.HexEncode(grp.g),
		N: common.HexEncode(grp.n),
	})
}

func (grp *Group) UnmarshalJSON(bz []byte) error {
	var aux groupJSON
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}
	g, err := common.HexDecode(aux.G)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding group.g")
	}
	n, err := common.HexDecode(aux.N)
	if err != nil {
		return errors.Wrap(err, "camshoup: decoding group.n")
	}
	twoInv := new(big.Int).ModInverse(bigTwo, n)
	if twoInv == nil {
		return ErrConstructionFailed
	}
	*grp = *newGroupFromDerived(g, n)
	return nil
}

func concatBigInts(vals []*big.Int) []byte {
	out := make([]byte, 0)
	for _, v := range vals {
		out = append(out, common.CanonicalBytes(v)...)
	}
	return out
}

// zeroizeInPlace overwrites the backing words of a secret big.Int with
// zero. big.Int has no public API for this; Bits()/SetBits() is the only
// way to reach the underlying storage without allocating a fresh value
// whose old copy would remain live in memory until the GC reclaims it.
func zeroizeInPlace(x *big.Int) {
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
}
