package common

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Transcript is a STROBE/Merlin-style labeled transcript: a context label
// seeds the state, every absorbed field is bound to a label, and challenges
// are squeezed to an arbitrary requested length. Every absorbed label and
// field is length-prefixed, and the state is an incrementally updated
// extendable-output function, so a single transcript can absorb a variable
// number of fields and then yield a challenge of any requested length.
type Transcript struct {
	state sha3.ShakeHash
}

// NewTranscript starts a transcript under the given context label.
func NewTranscript(contextLabel string) *Transcript {
	t := &Transcript{state: sha3.NewShake256()}
	t.frame("context", []byte(contextLabel))
	return t
}

// Append absorbs data under a label. Order and labels are part of the wire
// protocol: callers on both sides of a proof must absorb in lockstep.
func (t *Transcript) Append(label string, data []byte) {
	t.frame(label, data)
}

// AppendUint64 absorbs a little-endian length- and label-framed integer.
func (t *Transcript) AppendUint64(label string, v uint64) {
	bz := make([]byte, 8)
	binary.LittleEndian.PutUint64(bz, v)
	t.frame(label, bz)
}

// Challenge squeezes len(out) bytes of output bound to the given label.
// Once output has been squeezed, the underlying SHAKE state accepts no
// further writes: a later Append or Challenge on the same transcript
// panics. This library takes exactly one challenge per transcript.
func (t *Transcript) Challenge(label string, out []byte) {
	t.frame("challenge:"+label, nil)
	if _, err := t.state.Read(out); err != nil {
		// sha3.ShakeHash.Read never returns an error; guard documented for
		// completeness rather than left unhandled.
		panic(err)
	}
}

// frame absorbs a label and its associated data, each prefixed with its
// byte length, so that no sequence of (label, data) pairs can be confused
// with a different sequence that happens to concatenate to the same bytes.
func (t *Transcript) frame(label string, data []byte) {
	lenBz := make([]byte, 8)
	binary.LittleEndian.PutUint64(lenBz, uint64(len(label)))
	_, _ = t.state.Write(lenBz)
	_, _ = t.state.Write([]byte(label))
	binary.LittleEndian.PutUint64(lenBz, uint64(len(data)))
	_, _ = t.state.Write(lenBz)
	_, _ = t.state.Write(data)
}
