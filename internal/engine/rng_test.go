package engine

import "testing"

func TestFloatsDeterminism(t *testing.T) {
	seeds := Seeds{Server: "abc123", Client: "def456"}

	f1 := Floats(seeds, 42, 16)
	f2 := Floats(seeds, 42, 16)

	for i := range f1 {
		if f1[i] != f2[i] {
			t.Fatalf("float %d differs: %f != %f", i, f1[i], f2[i])
		}
	}
}

func TestFloatsRange(t *testing.T) {
	seeds := Seeds{Server: "server", Client: "client"}

	for _, f := range Floats(seeds, 1, 1000) {
		if f < 0 || f >= 1 {
			t.Fatalf("float out of [0,1): %f", f)
		}
	}
}

func TestFloatsNonceChangesStream(t *testing.T) {
	seeds := Seeds{Server: "server", Client: "client"}

	f1 := Floats(seeds, 1, 8)
	f2 := Floats(seeds, 2, 8)

	same := true
	for i := range f1 {
		if f1[i] != f2[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different nonces produced identical streams")
	}
}

func TestIntnBounds(t *testing.T) {
	src := NewSource(Seeds{Server: "s", Client: "c"}, 0)

	for i := 0; i < 1000; i++ {
		v := src.Intn(52)
		if v < 0 || v > 51 {
			t.Fatalf("Intn(52) out of range: %d", v)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	src := NewSource(Seeds{Server: "s", Client: "c"}, 7)

	vals := make([]int, 52)
	for i := range vals {
		vals[i] = i
	}
	src.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })

	seen := make(map[int]bool, len(vals))
	for _, v := range vals {
		if seen[v] {
			t.Fatalf("value %d appears twice after shuffle", v)
		}
		seen[v] = true
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 distinct values, got %d", len(seen))
	}
}

func TestShuffleDeterminism(t *testing.T) {
	shuffled := func() []int {
		src := NewSource(Seeds{Server: "fixed", Client: "seeds"}, 3)
		vals := make([]int, 20)
		for i := range vals {
			vals[i] = i
		}
		src.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
		return vals
	}

	a, b := shuffled(), shuffled()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle not reproducible at index %d: %d != %d", i, a[i], b[i])
		}
	}
}
