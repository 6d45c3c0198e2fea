// Package ident allocates human-readable record identifiers such as
// APT-20260302143005. Identifiers are timestamp-derived with a process-local
// counter so that records created within the same second stay distinct.
package ident

import (
	"fmt"
	"sync"
	"time"
)

type state struct {
	lastBase string
	seq      int
}

var (
	mu       sync.Mutex
	byPrefix = map[string]*state{}
)

// New returns an identifier of the form PREFIX-YYYYMMDDHHMMSS, suffixed with
// a counter when the same prefix and second repeat within this process.
// Uniqueness is tracked per prefix, so interleaved prefixes never collide.
func New(prefix string, now time.Time) string {
	base := fmt.Sprintf("%s-%s", prefix, now.UTC().Format("20060102150405"))

	mu.Lock()
	defer mu.Unlock()

	st, ok := byPrefix[prefix]
	if !ok {
		st = &state{}
		byPrefix[prefix] = st
	}
	if base == st.lastBase {
		st.seq++
		return fmt.Sprintf("%s-%d", base, st.seq)
	}
	st.lastBase = base
	st.seq = 0
	return base
}
