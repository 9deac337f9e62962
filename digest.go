package dfamatch

import (
	"bytes"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"encoding/gob"
)

var digestEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// digest computes the cache key for a build request: a base-32 SHA-256
// over the language count and then, in pattern insertion order, each
// included accept group's pattern count, its language-membership bitmap
// (omitted when there is only one language), its pattern signatures and its gob-encoded accept value, with a zero
// terminator and a resolver-presence marker.
//
// It reports false when the request has no stable encoding, which happens
// when a pattern embeds an opaque Matchable or an accept value is not
// gob-encodable. Such builds simply bypass the cache.
func (b *Builder[M]) digest(languages [][]M, hasResolver bool) (string, bool) {
	h := sha256.New()
	buf := make([]byte, 0, 256)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(languages)))

	for _, accept := range b.order {
		patList := b.patterns[accept]
		if len(patList) == 0 {
			continue
		}
		included := false
		for _, language := range languages {
			if containsAccept(language, accept) {
				included = true
				break
			}
		}
		if !included {
			continue
		}

		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(patList)))
		if len(languages) > 1 {
			var bits uint32
			for i, language := range languages {
				if i > 0 && i&31 == 0 {
					buf = binary.LittleEndian.AppendUint32(buf, bits)
					bits = 0
				}
				if containsAccept(language, accept) {
					bits |= 1 << (i & 31)
				}
			}
			buf = binary.LittleEndian.AppendUint32(buf, bits)
		}

		for _, p := range patList {
			sig, ok := p.Signature(nil)
			if !ok {
				return "", false
			}
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sig)))
			buf = append(buf, sig...)
		}

		var blob bytes.Buffer
		if err := gob.NewEncoder(&blob).Encode(accept); err != nil {
			return "", false
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(blob.Len()))
		buf = append(buf, blob.Bytes()...)

		h.Write(buf)
		buf = buf[:0]
	}

	buf = binary.LittleEndian.AppendUint32(buf, 0)
	if hasResolver {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	h.Write(buf)

	return digestEncoding.EncodeToString(h.Sum(nil)), true
}
