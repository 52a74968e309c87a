// Package frequency classifies vocabulary by how common a term is in everyday
// usage. Card records carry a free-form label; Normalize maps any label,
// including legacy and unknown ones, onto a closed set of buckets.
package frequency

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBucket is returned by Parse for labels that are not bucket names.
var ErrUnknownBucket = errors.New("unknown frequency bucket")

// Bucket is a usage-frequency band. Lower buckets are more common words.
type Bucket uint8

// Buckets from most to least common. The zero value is not a bucket.
const (
	Top500 Bucket = iota + 1
	Top1000
	Top3000
	Top5000
	Beyond10000
)

// All lists every bucket in rank order.
var All = []Bucket{Top500, Top1000, Top3000, Top5000, Beyond10000}

var labels = map[Bucket]string{
	Top500:      "Top 500",
	Top1000:     "Top 1000",
	Top3000:     "Top 3000",
	Top5000:     "Top 5000",
	Beyond10000: "10000+",
}

var identifiers = map[string]Bucket{
	"Top500":      Top500,
	"Top1000":     Top1000,
	"Top3000":     Top3000,
	"Top5000":     Top5000,
	"Beyond10000": Beyond10000,
}

// legacy labels written by the first version of the importer
var legacy = map[string]Bucket{
	"High":   Top1000,
	"Medium": Top3000,
	"Low":    Beyond10000,
}

// String returns the canonical label stored on cards.
func (b Bucket) String() string {
	if label, ok := labels[b]; ok {
		return label
	}
	return fmt.Sprintf("Bucket(%d)", uint8(b))
}

// Rank returns the 1-based position of b in the ordering. Unknown values
// rank with Beyond10000.
func (b Bucket) Rank() int {
	if b < Top500 || b > Beyond10000 {
		return int(Beyond10000)
	}
	return int(b)
}

// Rank returns the rank of the bucket a raw card label normalizes to.
func Rank(label string) int {
	return Normalize(label).Rank()
}

// Normalize maps a raw label to a bucket. It never fails: empty, unknown and
// unrecognized labels fall back to Beyond10000.
func Normalize(label string) Bucket {
	if label == "" {
		return Beyond10000
	}
	if b, ok := lookupCanonical(label); ok {
		return b
	}
	if b, ok := legacy[label]; ok {
		return b
	}
	return Beyond10000
}

// Parse is the strict form of Normalize used for user supplied filters. It
// accepts canonical labels, bucket identifiers and legacy labels.
func Parse(label string) (Bucket, error) {
	label = strings.TrimSpace(label)
	if b, ok := lookupCanonical(label); ok {
		return b, nil
	}
	if b, ok := legacy[label]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBucket, label)
}

func lookupCanonical(label string) (Bucket, bool) {
	for b, l := range labels {
		if l == label {
			return b, true
		}
	}
	b, ok := identifiers[label]
	return b, ok
}

// Set is a set of buckets.
type Set uint8

// NewSet returns a set containing buckets.
func NewSet(buckets ...Bucket) Set {
	var s Set
	for _, b := range buckets {
		s = s.Add(b)
	}
	return s
}

// AllSet contains every bucket.
func AllSet() Set {
	return NewSet(All...)
}

// Add returns s with b added.
func (s Set) Add(b Bucket) Set {
	if b < Top500 || b > Beyond10000 {
		return s
	}
	return s | 1<<b
}

// Has reports whether b is in s.
func (s Set) Has(b Bucket) bool {
	return s&(1<<b) != 0
}

// IsEmpty reports whether s has no buckets.
func (s Set) IsEmpty() bool {
	return s == 0
}

// Buckets lists the members of s in rank order.
func (s Set) Buckets() []Bucket {
	out := make([]Bucket, 0, len(All))
	for _, b := range All {
		if s.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

// Labels lists the canonical labels of the members of s in rank order.
func (s Set) Labels() []string {
	buckets := s.Buckets()
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.String()
	}
	return out
}

// ParseSet parses a list of labels. An empty list yields the empty set.
func ParseSet(labels []string) (Set, error) {
	var s Set
	for _, label := range labels {
		b, err := Parse(label)
		if err != nil {
			return 0, err
		}
		s = s.Add(b)
	}
	return s, nil
}
