package tabular

import (
	"errors"
	"strings"
	"testing"
)

func TestReadColumns(t *testing.T) {
	in := "Channel, Counts, Extra\n0, 10, x1\n1, 12.5, x2\n2, 3, x3\n"

	cols, err := ReadColumns(strings.NewReader(in), "counts", "channel")
	if err != nil {
		t.Fatalf("ReadColumns: %v", err)
	}

	counts := cols[0]
	channels := cols[1]

	wantCounts := []float64{10, 12.5, 3}
	wantChannels := []float64{0, 1, 2}

	for i := range wantCounts {
		if counts[i] != wantCounts[i] {
			t.Fatalf("counts[%d] = %v, want %v", i, counts[i], wantCounts[i])
		}
		if channels[i] != wantChannels[i] {
			t.Fatalf("channels[%d] = %v, want %v", i, channels[i], wantChannels[i])
		}
	}
}

func TestReadColumnsMissing(t *testing.T) {
	in := "a,b\n1,2\n"

	_, err := ReadColumns(strings.NewReader(in), "c")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestReadColumnsBadNumber(t *testing.T) {
	in := "a\n1\nnope\n"

	_, err := ReadColumns(strings.NewReader(in), "a")
	if err == nil {
		t.Fatal("expected parse error")
	}
}
