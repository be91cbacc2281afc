package result

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/descent/domain/descent"
)

func TestKey_IgnoresOrder(t *testing.T) {
	a := Key("imo1988-q6", descent.PairOf(8, 30))
	b := Key("imo1988-q6", descent.PairOf(30, 8))
	if a != b {
		t.Errorf("Key() = %q and %q, want equal", a, b)
	}
	if a != "imo1988-q6/8/30" {
		t.Errorf("Key() = %q, want %q", a, "imo1988-q6/8/30")
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  *Record
		wantErr bool
	}{
		{"valid", &Record{Problem: "p", Witness: descent.PairOf(1, 2)}, false},
		{"nil", nil, true},
		{"missing problem", &Record{Witness: descent.PairOf(1, 2)}, true},
		{"negative witness", &Record{Problem: "p", Witness: descent.PairOf(-1, 2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Validate() error = %v, want ErrInvalidRecord", err)
			}
		})
	}
}

func TestListFilter(t *testing.T) {
	records := []*Record{
		{Problem: "a", Status: descent.RunStatusCompleted, Kind: descent.KindOnDiagonal},
		{Problem: "a", Status: descent.RunStatusFailed},
		{Problem: "b", Status: descent.RunStatusCompleted, Kind: descent.KindBase},
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   int
	}{
		{"empty filter", ListFilter{}, 3},
		{"by problem", ListFilter{Problem: "a"}, 2},
		{"by status", ListFilter{Status: []descent.RunStatus{descent.RunStatusCompleted}}, 2},
		{"by kind", ListFilter{Kinds: []descent.Kind{descent.KindBase}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := 0
			for _, r := range records {
				if tt.filter.Matches(r) {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("matches = %d, want %d", got, tt.want)
			}
		})
	}

	if got := len((ListFilter{Offset: 1, Limit: 1}).Page(records)); got != 1 {
		t.Errorf("Page(offset 1, limit 1) = %d records, want 1", got)
	}
	if got := len((ListFilter{Offset: 5}).Page(records)); got != 0 {
		t.Errorf("Page(offset 5) = %d records, want 0", got)
	}
}

func TestSortRecords(t *testing.T) {
	records := []*Record{
		{Problem: "imo1988-q6", Witness: descent.PairOf(30, 8)},
		{Problem: "divisor-plus-one", Witness: descent.PairOf(2, 5)},
		{Problem: "imo1988-q6", Witness: descent.PairOf(1, 1)},
		{Problem: "imo1988-q6", Witness: descent.PairOf(2, 8)},
	}

	SortRecords(records)

	want := []string{
		"divisor-plus-one/2/5",
		"imo1988-q6/1/1",
		"imo1988-q6/2/8",
		"imo1988-q6/8/30",
	}
	for i, r := range records {
		if r.Key() != want[i] {
			t.Errorf("records[%d] = %s, want %s", i, r.Key(), want[i])
		}
	}
}
