package dfa

import (
	"encoding/binary"

	"github.com/coregx/dfamatch/internal/conv"
)

// minimize merges equivalent states of a raw DFA by partition refinement.
//
// States start out partitioned by accept entry and by which language, if
// any, they are the start of. Each round regroups states by their current
// class and the classes their transitions reach, so classes only ever split.
// The result is the Myhill-Nerode partition, except that start states of
// different languages are kept apart even when their languages coincide, so
// every language keeps a start state of its own.
func minimize[M comparable](raw *rawDFA[M]) *rawDFA[M] {
	n := len(raw.states)
	if n == 0 {
		return raw
	}

	startTag := make([]int32, n)
	for i := range startTag {
		startTag[i] = -1
	}
	for lang, s := range raw.starts {
		if startTag[s] < 0 {
			startTag[s] = conv.IntToInt32(lang)
		}
	}

	// Initial partition: accept entry and start tag.
	class := make([]int32, n)
	numClasses := 0
	{
		index := make(map[[2]int32]int32)
		for i, st := range raw.states {
			key := [2]int32{st.acceptIndex, startTag[i]}
			id, ok := index[key]
			if !ok {
				id = conv.IntToInt32(len(index))
				index[key] = id
			}
			class[i] = id
		}
		numClasses = len(index)
	}
	newClass := make([]int32, n)
	for {
		index := make(map[string]int32)
		var sig []byte
		for i, st := range raw.states {
			sig = appendSignature(sig[:0], class[i], st.transitions, class)
			id, ok := index[string(sig)]
			if !ok {
				id = conv.IntToInt32(len(index))
				index[string(sig)] = id
			}
			newClass[i] = id
		}
		class, newClass = newClass, class
		if len(index) == numClasses {
			break
		}
		numClasses = len(index)
	}

	// Transcribe one representative per class. Class ids were assigned in
	// order of first appearance, so scanning states in order visits
	// representatives in class order.
	out := &rawDFA[M]{
		states:  make([]rawState, numClasses),
		accepts: raw.accepts,
		starts:  make([]int32, len(raw.starts)),
	}
	done := make([]bool, numClasses)
	for i, st := range raw.states {
		c := class[i]
		if done[c] {
			continue
		}
		done[c] = true
		out.states[c] = rawState{
			acceptIndex: st.acceptIndex,
			transitions: mapClasses(st.transitions, class),
		}
	}
	for lang, s := range raw.starts {
		out.starts[lang] = class[s]
	}
	return out
}

// appendSignature encodes the current class of a state together with its
// outgoing transitions mapped to target classes. Adjacent ranges reaching
// the same class are merged so equivalent states sign identically no matter
// how their ranges were split.
func appendSignature(sig []byte, ownClass int32, transitions []rawTransition, class []int32) []byte {
	sig = binary.LittleEndian.AppendUint32(sig, uint32(ownClass))
	for _, tr := range mapClasses(transitions, class) {
		sig = binary.LittleEndian.AppendUint16(sig, tr.first)
		sig = binary.LittleEndian.AppendUint16(sig, tr.last)
		sig = binary.LittleEndian.AppendUint32(sig, uint32(tr.target))
	}
	return sig
}

func mapClasses(transitions []rawTransition, class []int32) []rawTransition {
	var out []rawTransition
	for _, tr := range transitions {
		target := class[tr.target]
		if n := len(out); n > 0 &&
			out[n-1].target == target &&
			int(out[n-1].last)+1 == int(tr.first) {
			out[n-1].last = tr.last
			continue
		}
		out = append(out, rawTransition{first: tr.first, last: tr.last, target: target})
	}
	return out
}
