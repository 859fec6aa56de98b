package query

import (
	"math/rand/v2"

	"github.com/momentics/numaq/config"
	"github.com/momentics/numaq/vam"
)

// Generate allocates R and S and fills them with synthetic data: a/b
// uniform in [1,10000], fk uniform in [0, 3*sSize), pk the identity
// permutation 0..sSize-1. elemsPerSegment sizes every column's segments;
// pass DefaultElemsPerSegment absent an overriding configuration.
func Generate(a *vam.NumaAllocator, rSize, sSize uint64, elemsPerSegment int, mm *config.MemoryMap) (Tables, error) {
	ra, err := vam.Vmalloc[int64](a, int(rSize), segBytesFor[int64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Tables{}, err
	}
	rb, err := vam.Vmalloc[int64](a, int(rSize), segBytesFor[int64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Tables{}, err
	}
	rfk, err := vam.Vmalloc[uint32](a, int(rSize), segBytesFor[uint32](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Tables{}, err
	}
	spk, err := vam.Vmalloc[uint32](a, int(sSize), segBytesFor[uint32](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Tables{}, err
	}

	fillUniformInt64(ra, 1, 10000)
	fillUniformInt64(rb, 1, 10000)
	fkBound := uint32(3 * sSize)
	if fkBound == 0 {
		fkBound = 1
	}
	fillUniformUint32(rfk, 0, fkBound)
	fillIdentityUint32(spk)

	return Tables{
		R: TableR{A: ra, B: rb, FK: rfk, N: rSize},
		S: TableS{PK: spk, M: sSize},
	}, nil
}

func fillUniformInt64(p vam.SegPtr[int64], lo, hi int64) {
	span := hi - lo + 1
	for i := 0; i < p.Size(); i++ {
		v := lo + rand.Int64N(span)
		_ = p.Set(i, v)
	}
}

func fillUniformUint32(p vam.SegPtr[uint32], lo, hi uint32) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i := 0; i < p.Size(); i++ {
		v := lo + rand.Uint32N(span)
		_ = p.Set(i, v)
	}
}

func fillIdentityUint32(p vam.SegPtr[uint32]) {
	for i := 0; i < p.Size(); i++ {
		_ = p.Set(i, uint32(i))
	}
}
