package dfa

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/coregx/dfamatch/internal/conv"
)

// Wire format, little-endian: magic, version, state count, start state
// count, start states, byte length of the gob-encoded accept table, the
// table itself, then per state the accept index, the boundary node count,
// the boundary nodes and the interval targets.
const (
	serialMagic   uint16 = 0xDFA1
	serialVersion uint16 = 1
)

// Serialize encodes the DFA into a self-contained byte payload.
// Accept values are encoded with encoding/gob, so M must be gob-encodable.
func Serialize[M comparable](d *DFA[M]) ([]byte, error) {
	var blob bytes.Buffer
	if err := gob.NewEncoder(&blob).Encode(d.accepts); err != nil {
		return nil, &Error{Kind: Serialization, Message: "encoding accept table", Cause: err}
	}

	buf := make([]byte, 0, 16+blob.Len()+len(d.states)*16)
	buf = binary.LittleEndian.AppendUint16(buf, serialMagic)
	buf = binary.LittleEndian.AppendUint16(buf, serialVersion)
	buf = binary.LittleEndian.AppendUint32(buf, conv.IntToUint32(len(d.states)))
	buf = binary.LittleEndian.AppendUint32(buf, conv.IntToUint32(len(d.starts)))
	for _, s := range d.starts {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s))
	}
	buf = binary.LittleEndian.AppendUint32(buf, conv.IntToUint32(blob.Len()))
	buf = append(buf, blob.Bytes()...)

	for _, st := range d.states {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(st.acceptIndex))
		buf = binary.LittleEndian.AppendUint32(buf, conv.IntToUint32(len(st.nodes)))
		for _, n := range st.nodes {
			buf = binary.LittleEndian.AppendUint16(buf, n)
		}
		for _, t := range st.targets {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(t))
		}
	}
	return buf, nil
}

// Deserialize decodes a payload produced by Serialize. Every index in the
// payload is validated; corrupted input yields an error matching
// ErrMalformed, never a panic.
func Deserialize[M comparable](data []byte) (*DFA[M], error) {
	r := &payloadReader{data: data}

	if magic := r.u16(); magic != serialMagic {
		return nil, malformed("bad magic", nil)
	}
	if version := r.u16(); version != serialVersion {
		return nil, malformed("unsupported version", nil)
	}
	numStates := int(r.u32())
	numStarts := int(r.u32())
	if r.err || numStates > len(data) || numStarts > len(data) {
		return nil, malformed("implausible counts", nil)
	}

	starts := make([]int32, numStarts)
	for i := range starts {
		s := r.u32()
		if int(s) >= numStates {
			return nil, malformed("start state out of range", nil)
		}
		starts[i] = int32(s)
	}

	blobLen := int(r.u32())
	if r.err || blobLen > len(data) {
		return nil, malformed("truncated payload", nil)
	}
	blob := r.bytes(blobLen)
	if r.err {
		return nil, malformed("truncated payload", nil)
	}
	var accepts []M
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&accepts); err != nil {
		return nil, malformed("decoding accept table", err)
	}

	states := make([]packedState, numStates)
	for i := range states {
		acceptIndex := int32(r.u32())
		if acceptIndex < noTarget || int(acceptIndex) >= len(accepts) {
			return nil, malformed("accept index out of range", nil)
		}
		numNodes := int(r.u32())
		if r.err || numNodes > 0x10000 {
			return nil, malformed("boundary count out of range", nil)
		}
		var nodes []uint16
		if numNodes > 0 {
			nodes = make([]uint16, numNodes)
			for j := range nodes {
				nodes[j] = r.u16()
			}
		}
		targets := make([]int32, numNodes+1)
		for j := range targets {
			t := int32(r.u32())
			if t < noTarget || int(t) >= numStates {
				return nil, malformed("target state out of range", nil)
			}
			targets[j] = t
		}
		if r.err {
			return nil, malformed("truncated payload", nil)
		}
		states[i] = packedState{nodes: nodes, targets: targets, acceptIndex: acceptIndex}
	}
	if !r.done() {
		return nil, malformed("trailing bytes", nil)
	}

	return &DFA[M]{states: states, accepts: accepts, starts: starts}, nil
}

func malformed(msg string, cause error) error {
	return &Error{Kind: Serialization, Message: "malformed DFA payload: " + msg, Cause: cause}
}

// payloadReader is a bounds-checked cursor over the payload. After any
// overrun, err is set and reads return zero.
type payloadReader struct {
	data []byte
	pos  int
	err  bool
}

func (r *payloadReader) u16() uint16 {
	if r.pos+2 > len(r.data) {
		r.err = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *payloadReader) u32() uint32 {
	if r.pos+4 > len(r.data) {
		r.err = true
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *payloadReader) bytes(n int) []byte {
	if n < 0 || r.pos+n > len(r.data) {
		r.err = true
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *payloadReader) done() bool {
	return !r.err && r.pos == len(r.data)
}
