package hoverlate

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Key builds a cache key from a text and language pair. An empty
// sourceLang means "source not specified" and yields a key distinct
// from any key with a source, including an explicit empty one elsewhere
// in the tuple.
//
// Each field is length-prefixed, so no choice of delimiter characters
// inside text or language codes can make two distinct tuples collide:
// ("a|b|c", "ja", "") and ("a", "ja", "b|c") produce different keys.
func Key(text, targetLang, sourceLang string) string {
	var b strings.Builder
	b.Grow(len(text) + len(targetLang) + len(sourceLang) + 16)
	writeField(&b, text)
	writeField(&b, targetLang)
	if sourceLang == "" {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
		writeField(&b, sourceLang)
	}
	return b.String()
}

func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// HashKey returns a fixed-length hex digest of Key's output. Use it
// where key length matters (redis keys for large comment blocks); the
// collision-freedom of Key carries over up to SHA-256 collisions.
func HashKey(text, targetLang, sourceLang string) string {
	sum := sha256.Sum256([]byte(Key(text, targetLang, sourceLang)))
	return hex.EncodeToString(sum[:])
}
