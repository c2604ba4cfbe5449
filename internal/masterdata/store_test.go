package masterdata

import (
	"errors"
	"fmt"
	"testing"
)

func TestBatchCreateFallsBackPerRow(t *testing.T) {
	rows := []string{"alpha", "poison", "beta"}

	var batchCalls, rowCalls int
	create := func(dest interface{}) (int64, error) {
		switch d := dest.(type) {
		case *[]string:
			batchCalls++
			return 0, errors.New("batch insert failed")
		case *string:
			rowCalls++
			if *d == "poison" {
				return 0, errors.New("value too long for column")
			}
			return 1, nil
		default:
			t.Fatalf("unexpected dest type %T", dest)
			return 0, nil
		}
	}

	created, err := batchCreate(rows, create)
	if err != nil {
		t.Fatal(err)
	}
	if batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1", batchCalls)
	}
	if rowCalls != 3 {
		t.Errorf("row fallback calls = %d, want 3", rowCalls)
	}
	// The poison row is absorbed, not raised; the good rows still land.
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
}

func TestBatchCreateChunksLargeInputs(t *testing.T) {
	rows := make([]int, BatchSize+500)
	for i := range rows {
		rows[i] = i
	}

	var batchCalls int
	var sizes []int
	create := func(dest interface{}) (int64, error) {
		chunk, ok := dest.(*[]int)
		if !ok {
			t.Fatalf("unexpected dest type %T", dest)
		}
		batchCalls++
		sizes = append(sizes, len(*chunk))
		return int64(len(*chunk)), nil
	}

	created, err := batchCreate(rows, create)
	if err != nil {
		t.Fatal(err)
	}
	if batchCalls != 2 {
		t.Fatalf("batch calls = %d, want 2 (sizes %v)", batchCalls, sizes)
	}
	if sizes[0] != BatchSize || sizes[1] != 500 {
		t.Errorf("chunk sizes = %v", sizes)
	}
	if created != int64(len(rows)) {
		t.Errorf("created = %d, want %d", created, len(rows))
	}
}

func TestBatchCreateHealthyBatchSkipsFallback(t *testing.T) {
	rows := []string{"alpha", "beta"}

	var rowCalls int
	create := func(dest interface{}) (int64, error) {
		if _, ok := dest.(*string); ok {
			rowCalls++
			return 0, fmt.Errorf("fallback must not run for a healthy batch")
		}
		// Pretend one of the two already existed.
		return 1, nil
	}

	created, err := batchCreate(rows, create)
	if err != nil {
		t.Fatal(err)
	}
	if rowCalls != 0 {
		t.Errorf("row fallback ran %d times on a healthy batch", rowCalls)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
}
