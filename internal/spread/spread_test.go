package spread

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Faultbox/meshburst/pkg/math"
)

// fixedRand always returns the same value.
type fixedRand float32

func (f fixedRand) Float32() float32 { return float32(f) }

func TestIteratorBucketing(t *testing.T) {
	profiles := []Profile{
		{Quantity: 0.3, ConeRadius: Range{0, 1}, Force: Range{1, 2}},
		{Quantity: 1.0, ConeRadius: Range{0, 1}, Force: Range{1, 2}},
	}
	tests := []struct {
		n        int
		boundary int // first index in profile 1
	}{
		{1, 0},
		{10, 3},
		{37, 11},
		{100, 30},
		{1000, 300},
	}

	for _, tt := range tests {
		it := NewIterator(profiles, tt.n)
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < tt.n; i++ {
			p, idx := it.Next()
			// Sampling must not influence bucketing.
			p.Sample(rng, math.Vec3Forward)

			want := 0
			if i >= tt.boundary {
				want = 1
			}
			if idx != want {
				t.Errorf("n=%d fragment %d: got profile %d, want %d", tt.n, i, idx, want)
			}
		}
	}
}

func TestIteratorSkipsExhaustedProfiles(t *testing.T) {
	profiles := []Profile{{Quantity: 0.1}, {Quantity: 0.15}, {Quantity: 1}}
	it := NewIterator(profiles, 4)

	want := []int{2, 2, 2, 2}
	for i, w := range want {
		if _, idx := it.Next(); idx != w {
			t.Errorf("fragment %d: got profile %d, want %d", i, idx, w)
		}
	}
}

func TestIteratorClampsToLast(t *testing.T) {
	profiles := []Profile{{Quantity: 0.5}, {Quantity: 0.6}}
	it := NewIterator(profiles, 10)
	var last int
	for i := 0; i < 10; i++ {
		_, last = it.Next()
	}
	if last != 1 {
		t.Errorf("last profile should extend to the end, got %d", last)
	}
}

func TestIteratorEmptySetUsesDefault(t *testing.T) {
	it := NewIterator(nil, 5)
	p, idx := it.Next()
	if idx != 0 || p != Default() {
		t.Errorf("empty set should yield Default, got %+v at %d", p, idx)
	}
}

func TestDirectionIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	main := math.Vec3{X: 0.3, Y: 1, Z: -0.2}
	p := Default()
	for i := 0; i < 200; i++ {
		d := p.Direction(rng, main)
		if l := d.Length(); l < 0.999 || l > 1.001 {
			t.Fatalf("sample %d has length %v", i, l)
		}
	}
}

func TestDirectionZeroRadiusFollowsMain(t *testing.T) {
	p := Profile{ConeRadius: Range{0, 0}, RingDistance: 2, Angle: Range{0, 360}}
	main := math.Vec3{X: 1, Y: 2, Z: 2}

	got := p.Direction(fixedRand(0.5), main)
	if got.Distance(main.Normalize()) > 0.0001 {
		t.Errorf("zero radius should return main direction, got %v", got)
	}
}

func TestDirectionRingPoint(t *testing.T) {
	// Radius 1 at 90 degrees around forward is up; no ring distance keeps it there.
	p := Profile{ConeRadius: Range{1, 1}, Angle: Range{90, 90}}
	got := p.Direction(fixedRand(0), math.Vec3Forward)
	if got.Distance(math.Vec3Up) > 0.0001 {
		t.Errorf("expected up, got %v", got)
	}
}

func TestSampleForceInRange(t *testing.T) {
	p := Default()
	p.Force = Range{2, 5}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		_, f := p.Sample(rng, math.Vec3Up)
		if f < 2 || f > 5 {
			t.Fatalf("force %v outside [2,5]", f)
		}
	}
}

func TestValidate(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Errorf("default profile should validate: %v", err)
	}

	p.Force = Range{3, 1}
	if err := p.Validate(); !errors.Is(err, ErrInvertedRange) {
		t.Errorf("expected ErrInvertedRange, got %v", err)
	}
	if err := ValidateSet([]Profile{Default(), p}); !errors.Is(err, ErrInvertedRange) {
		t.Errorf("expected ErrInvertedRange from set, got %v", err)
	}
}

func TestPreviewIsDeterministic(t *testing.T) {
	profiles := []Profile{{Quantity: 0.5, ConeRadius: Range{0, 1}, RingDistance: 1, Angle: Range{0, 360}}, Default()}
	a := Preview(profiles, math.Vec3Up, PreviewSamples)
	b := Preview(profiles, math.Vec3Up, PreviewSamples)

	if len(a) != PreviewSamples {
		t.Fatalf("expected %d samples, got %d", PreviewSamples, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between calls: %v vs %v", i, a[i], b[i])
		}
	}
	if a[0].Profile != 0 || a[PreviewSamples-1].Profile != 1 {
		t.Errorf("unexpected bucketing: first %d, last %d", a[0].Profile, a[PreviewSamples-1].Profile)
	}
}
