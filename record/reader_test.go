package record

import (
	"testing"

	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/section"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) (Reader, *Writer) {
	t.Helper()

	engine := endian.GetLittleEndianEngine()
	w := NewWriter(engine)
	w.Append(100, 1, 1, 0, section.AccessNone, []byte("alpha"))
	w.Append(200, 2, 1, 0, section.AccessNone, []byte("beta"))
	w.Append(300, 1, 1, 0, section.AccessNone, []byte("gamma"))

	idx, err := ParseIndex(w.IndexBytes(), engine)
	require.NoError(t, err)
	require.Len(t, idx.Entries, 3)

	return NewReader(w.Data(), idx, engine), w
}

func TestWriterReaderRoundTrip(t *testing.T) {
	r, _ := buildSample(t)

	rec, err := r.At(1)
	require.NoError(t, err)
	require.Equal(t, int64(200), rec.StartTime())
	require.Equal(t, uint32(2), rec.TypeCode())
	require.Equal(t, []byte("beta"), rec.Body)
}

func TestIndexSearch(t *testing.T) {
	r, _ := buildSample(t)

	require.Equal(t, 0, r.Index.Search(0))
	require.Equal(t, 1, r.Index.Search(150))
	require.Equal(t, 2, r.Index.Search(201))
	require.Equal(t, 3, r.Index.Search(301))
}

func TestFromTimeWithFilter(t *testing.T) {
	r, _ := buildSample(t)

	var got []int64
	for _, rec := range r.FromTime(150, NewIncludeFilter(1)) {
		got = append(got, rec.StartTime())
	}
	require.Equal(t, []int64{300}, got)
}

func TestAllNoFilter(t *testing.T) {
	r, _ := buildSample(t)

	var got []int64
	for _, rec := range r.All(TypeFilter{}) {
		got = append(got, rec.StartTime())
	}
	require.Equal(t, []int64{100, 200, 300}, got)
}

func TestExcludeFilter(t *testing.T) {
	r, _ := buildSample(t)

	f := NewExcludeFilter(2)
	var got []uint32
	for _, rec := range r.All(f) {
		got = append(got, rec.TypeCode())
	}
	require.Equal(t, []uint32{1, 1}, got)
}

func TestAt_OutOfRange(t *testing.T) {
	r, _ := buildSample(t)

	_, err := r.At(-1)
	require.Error(t, err)
	_, err = r.At(99)
	require.Error(t, err)
}

func TestParseIndex_StopsAtSentinel(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	w := NewWriter(engine)
	w.Append(1, 1, 1, 0, section.AccessNone, []byte("x"))

	data := w.IndexBytes()
	data = append(data, data[:section.RecordIndexEntryBytes]...) // garbage past sentinel

	idx, err := ParseIndex(data, engine)
	require.NoError(t, err)
	require.Len(t, idx.Entries, 1)
}
