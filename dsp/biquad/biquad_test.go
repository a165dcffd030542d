package biquad

import (
	"math"
	"testing"
)

func TestIdentityPassesThrough(t *testing.T) {
	s := NewSection(Identity())
	for _, x := range []float64{0, 1, -2, 3.5} {
		if got := s.ProcessSample(x); got != x {
			t.Fatalf("got %v, want %v", got, x)
		}
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.3, B2: 0.1, A1: -0.4, A2: 0.05}

	perSample := NewSection(c)
	block := NewSection(c)

	in := make([]float64, 64)
	for i := range in {
		in[i] = math.Sin(0.3 * float64(i))
	}

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = perSample.ProcessSample(x)
	}

	buf := append([]float64(nil), in...)
	block.ProcessBlock(buf)

	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: block=%v sample=%v", i, buf[i], want[i])
		}
	}
}

func TestChainCascadesSections(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.5}
	chain := NewChain([]Coefficients{c, c})

	s1 := NewSection(c)
	s2 := NewSection(c)

	for i := 0; i < 16; i++ {
		x := float64(i%5) - 2
		want := s2.ProcessSample(s1.ProcessSample(x))
		if got := chain.ProcessSample(x); math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got, want)
		}
	}

	if chain.NumSections() != 2 {
		t.Fatalf("NumSections=%d, want 2", chain.NumSections())
	}
}

func TestResetClearsState(t *testing.T) {
	c := Coefficients{B0: 1, A1: -0.5}
	s := NewSection(c)

	first := s.ProcessSample(1)
	s.ProcessSample(1)
	s.Reset()
	if got := s.ProcessSample(1); got != first {
		t.Fatalf("after reset got %v, want %v", got, first)
	}
}
