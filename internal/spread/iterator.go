package spread

import (
	"math/rand"

	"github.com/Faultbox/meshburst/pkg/math"
)

// Iterator walks a profile set in fragment traversal order. The profile a
// fragment gets depends only on its rank, never on its position.
type Iterator struct {
	profiles  []Profile
	index     int
	iteration int
	total     int
}

// NewIterator prepares bucketing of total fragments over profiles.
// An empty set is replaced by Default.
func NewIterator(profiles []Profile, total int) *Iterator {
	return &Iterator{profiles: Resolve(profiles), total: total}
}

// Resolve returns the set actually sampled from.
func Resolve(profiles []Profile) []Profile {
	if len(profiles) == 0 {
		return []Profile{Default()}
	}
	return profiles
}

// Next returns the profile for the next fragment and its index in the set.
func (it *Iterator) Next() (Profile, int) {
	it.iteration++
	fraction := float32(it.iteration) / float32(it.total)
	for fraction > it.profiles[it.index].Quantity && it.index < len(it.profiles)-1 {
		it.index++
	}
	return it.profiles[it.index], it.index
}

// PreviewSamples is the number of directions Preview draws.
const PreviewSamples = 100

// PreviewSample is one direction drawn by Preview.
type PreviewSample struct {
	Profile   int
	Direction math.Vec3
}

// Preview draws n directions with a generator seeded to 0, so the result is
// stable across calls and never disturbs runtime sampling.
func Preview(profiles []Profile, main math.Vec3, n int) []PreviewSample {
	rng := rand.New(rand.NewSource(0))
	it := NewIterator(profiles, n)

	out := make([]PreviewSample, n)
	for i := range out {
		p, idx := it.Next()
		out[i] = PreviewSample{Profile: idx, Direction: p.Direction(rng, main)}
	}
	return out
}
