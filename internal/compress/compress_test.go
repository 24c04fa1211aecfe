package compress

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": None, "none": None, "zstd": Zstd, "ZSTD": Zstd, " zstd ": Zstd} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseKind("lz4")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "none", None.String())
	require.Equal(t, "zstd", Zstd.String())
	require.False(t, None.Enabled())
	require.True(t, Zstd.Enabled())
}

func TestForUnknown(t *testing.T) {
	_, err := For(None)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestZstdRoundTrip(t *testing.T) {
	codec, err := For(Zstd)
	require.NoError(t, err)

	src := bytes.Repeat([]byte("PX 1 2 FF0000FF\n"), 4096)
	out, err := codec.Compress(src)
	require.NoError(t, err)
	require.Less(t, len(out), len(src)/10, "repetitive pixel text should compress well")

	back, err := codec.Decompress(out)
	require.NoError(t, err)
	require.Equal(t, src, back)
}

func TestZstdEmpty(t *testing.T) {
	codec, err := For(Zstd)
	require.NoError(t, err)

	out, err := codec.Compress(nil)
	require.NoError(t, err)

	back, err := codec.Decompress(out)
	require.NoError(t, err)
	require.Empty(t, back)
}

func TestZstdConcurrent(t *testing.T) {
	codec, err := For(Zstd)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src := bytes.Repeat([]byte{byte(i)}, 10000+i)
			out, err := codec.Compress(src)
			if err != nil {
				errs <- err
				return
			}
			back, err := codec.Decompress(out)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(src, back) {
				errs <- fmt.Errorf("round trip mismatch for worker %d", i)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
