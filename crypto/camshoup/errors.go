package camshoup

import "fmt"

// Sentinel errors for the scheme-level failure conditions that carry no
// per-index context. Compare with errors.Is.
var (
	// ErrConstructionFailed is returned by Group construction when 2⁻¹ mod n
	// does not exist.
	ErrConstructionFailed = fmt.Errorf("camshoup: group construction failed: 2 has no inverse mod n")

	// ErrNotPrime is returned by WithSafePrimes when either input is not prime.
	ErrNotPrime = fmt.Errorf("camshoup: p or q is not prime")

	// ErrEqualPrimes is returned when p == q.
	ErrEqualPrimes = fmt.Errorf("camshoup: p and q must be distinct")

	// ErrCapacityExceeded is returned by Encrypt/Decrypt/Verify when the
	// number of messages, ciphertext elements, or proof responses exceeds
	// the key's capacity L.
	ErrCapacityExceeded = fmt.Errorf("camshoup: capacity exceeded")

	// ErrLengthMismatch is returned by the prover/verifier when message and
	// blinding counts, or proof-response and ciphertext-element counts, differ.
	ErrLengthMismatch = fmt.Errorf("camshoup: length mismatch")

	// ErrAbsCheckFailed is returned by Decrypt when the ciphertext's v is
	// not in canonical (absolute-value) form.
	ErrAbsCheckFailed = fmt.Errorf("camshoup: ciphertext v is not canonical")

	// ErrConsistencyFailed is returned by Decrypt when the Cramer-Shoup
	// style tag check u^(2(Hx3+x2)) = v^2 fails.
	ErrConsistencyFailed = fmt.Errorf("camshoup: ciphertext consistency check failed")

	// ErrInvalidCiphertext is returned by Decrypt when a required modular
	// inverse does not exist during message extraction.
	ErrInvalidCiphertext = fmt.Errorf("camshoup: ciphertext is invalid")

	// ErrInvalidProof is returned by Verify when the recomputed challenge
	// does not match the proof's challenge.
	ErrInvalidProof = fmt.Errorf("camshoup: invalid proof")
)

// InvalidMessageError reports that msgs[Index] exceeded the group modulus.
type InvalidMessageError struct{ Index int }

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("camshoup: message %d is not valid", e.Index)
}

// InvalidBlindingError reports that blindings[Index] was zero.
type InvalidBlindingError struct{ Index int }

func (e *InvalidBlindingError) Error() string {
	return fmt.Sprintf("camshoup: blinding %d is invalid (zero)", e.Index)
}

// DecryptionFailedError reports that component Index failed the final
// m-hat mod n == 1 validity check.
type DecryptionFailedError struct{ Index int }

func (e *DecryptionFailedError) Error() string {
	return fmt.Sprintf("camshoup: decryption failed for message %d", e.Index)
}
