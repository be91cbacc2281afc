package descent

import (
	"errors"
	"math/big"
	"testing"
)

func TestPair_Normalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pair        Pair
		want        Pair
		wantSwapped bool
	}{
		{"already ordered", PairOf(2, 8), PairOf(2, 8), false},
		{"reversed", PairOf(8, 2), PairOf(2, 8), true},
		{"diagonal", PairOf(3, 3), PairOf(3, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, swapped := tt.pair.Normalized()
			if !got.Equal(tt.want) {
				t.Errorf("Normalized() = %s, want %s", got, tt.want)
			}
			if swapped != tt.wantSwapped {
				t.Errorf("Normalized() swapped = %v, want %v", swapped, tt.wantSwapped)
			}
			if !got.IsNormalized() {
				t.Errorf("Normalized() result %s is not normalized", got)
			}
		})
	}
}

func TestPair_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pair    Pair
		wantErr bool
	}{
		{"valid", PairOf(0, 5), false},
		{"negative x", PairOf(-1, 5), true},
		{"negative y", PairOf(1, -5), true},
		{"missing x", Pair{Y: big.NewInt(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.pair.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWitness) {
				t.Errorf("Validate() error = %v, want ErrInvalidWitness", err)
			}
		})
	}
}

func TestPair_CloneIsDeep(t *testing.T) {
	t.Parallel()

	p := PairOf(2, 8)
	c := p.Clone()
	c.X.SetInt64(100)

	if p.X.Int64() != 2 {
		t.Errorf("Clone shares storage: original X = %s", p.X)
	}
}

func TestPair_String(t *testing.T) {
	t.Parallel()

	if got := PairOf(8, 30).String(); got != "(8, 30)" {
		t.Errorf("String() = %q, want %q", got, "(8, 30)")
	}
}

func TestPair_Measure(t *testing.T) {
	t.Parallel()

	p := PairOf(8, 30)
	m := p.Measure()
	m.SetInt64(0)

	if p.Y.Int64() != 30 {
		t.Errorf("Measure() aliases Y: Y = %s", p.Y)
	}
	if !PairOf(4, 4).OnDiagonal() {
		t.Error("OnDiagonal() = false for (4, 4)")
	}
}

func TestParsePair(t *testing.T) {
	t.Parallel()

	p, err := ParsePair("123456789012345678901234567890", "7")
	if err != nil {
		t.Fatalf("ParsePair() error = %v", err)
	}
	if p.X.String() != "123456789012345678901234567890" || p.Y.Int64() != 7 {
		t.Errorf("ParsePair() = %s", p)
	}

	for _, in := range [][2]string{{"x", "1"}, {"1", ""}, {"1.5", "2"}} {
		if _, err := ParsePair(in[0], in[1]); err == nil {
			t.Errorf("ParsePair(%q, %q) expected error", in[0], in[1])
		}
	}
}
