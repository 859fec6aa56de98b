package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrowColumnsCoversEveryColumn(t *testing.T) {
	alloc := testAlloc()
	mm := testMemMap()

	tables, err := Generate(alloc, 20, 5, DefaultElemsPerSegment, mm)
	require.NoError(t, err)

	cols, err := tables.ArrowColumns()
	require.NoError(t, err)
	require.Len(t, cols, 4)

	require.Equal(t, int(tables.R.N), cols["r.a"].Len())
	require.Equal(t, int(tables.R.N), cols["r.b"].Len())
	require.Equal(t, int(tables.R.N), cols["r.fk"].Len())
	require.Equal(t, int(tables.S.M), cols["s.pk"].Len())

	for _, arr := range cols {
		arr.Release()
	}
}
