package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UUID generates a random (version 4) UUID string.
func UUID() string {
	return uuid.NewString()
}

// Short generates a 16-character random hex ID.
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Crockford base32, no I, L, O or U.
const ulidEncoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const ulidLen = 26

var (
	ulidMu      sync.Mutex
	ulidLastMs  int64
	ulidCounter uint16
)

// ULID generates a 26-character lexicographically sortable identifier:
// 10 characters of millisecond timestamp followed by 16 of randomness.
// IDs generated within the same millisecond stay unique through a counter
// mixed into the random part.
func ULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	now := time.Now().UnixMilli()
	if now == ulidLastMs {
		ulidCounter++
		if ulidCounter == 0 {
			for now == ulidLastMs {
				time.Sleep(time.Millisecond)
				now = time.Now().UnixMilli()
			}
			ulidLastMs = now
		}
	} else {
		ulidLastMs = now
		ulidCounter = 0
	}

	return encodeULID(now, ulidCounter)
}

func encodeULID(ms int64, counter uint16) string {
	var out [ulidLen]byte

	for i := 9; i >= 0; i-- {
		out[i] = ulidEncoding[ms&0x1F]
		ms >>= 5
	}

	var entropy [10]byte
	_, _ = rand.Read(entropy[:])
	entropy[0] ^= byte(counter >> 8)
	entropy[1] ^= byte(counter)

	// 80 bits of entropy, 5 bits per character, most significant first.
	var acc uint64
	bits := 0
	pos := 10
	for _, b := range entropy {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = ulidEncoding[(acc>>uint(bits))&0x1F]
			pos++
		}
	}

	return string(out[:])
}

// IsValidULID reports whether s is a well-formed ULID.
func IsValidULID(s string) bool {
	if len(s) != ulidLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(ulidEncoding, s[i]) < 0 {
			return false
		}
	}
	return true
}

// ULIDTime extracts the timestamp encoded in a ULID.
func ULIDTime(ulid string) (time.Time, error) {
	if !IsValidULID(ulid) {
		return time.Time{}, fmt.Errorf("invalid ULID: %s", ulid)
	}

	var ms int64
	for i := 0; i < 10; i++ {
		ms = ms<<5 | int64(strings.IndexByte(ulidEncoding, ulid[i]))
	}
	return time.UnixMilli(ms), nil
}
