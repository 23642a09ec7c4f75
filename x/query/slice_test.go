package query

import (
	"testing"

	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

func TestSliceNearest(t *testing.T) {
	d, err := ring.New(1, 0, 16, 4*4, 16, 8, false)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	rc := rangecache.New(8)
	d.RegisterInvalidator(rc)

	for _, v := range []float32{0, 10, 20, 30, 40, 50} {
		d.Insert([]float32{v})
	}

	res := Slice(d, rc, 0, 22, 4)
	if !res.Found || res.Value != 20 {
		t.Fatalf("Slice(22) = %+v, want value 20", res)
	}

	res = Slice(d, rc, 0, 999, 4)
	if !res.Found || res.Value != 50 {
		t.Fatalf("Slice(999) = %+v, want closest value 50", res)
	}
}
