package utils

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Slugify lowercases the title, replaces every run of non-alphanumeric
// characters with a single hyphen and strips leading/trailing hyphens.
// The result may be empty when the title contains no alphanumerics.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// lastStamp remembers the most recent suffix so that two posts created in
// the same millisecond still get distinct slugs.
var lastStamp atomic.Int64

// slugStamp returns the current millisecond timestamp, bumped past the
// previous stamp when the clock has not advanced. Strictly increasing per
// process, so uniqueness needs no retry loop.
func slugStamp() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

// UniqueSlug derives a globally unique slug for a new post by appending a
// monotonic millisecond stamp to the slugified title. The repository still
// enforces uniqueness and surfaces a conflict if a collision ever occurs
// across processes.
func UniqueSlug(title string) string {
	base := Slugify(title)
	suffix := strconv.FormatInt(slugStamp(), 10)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
