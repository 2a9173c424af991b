package codec

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridforge.dev/internal/world"
)

func sampleWorld(t *testing.T) *world.World {
	t.Helper()
	tiles := make([]world.Tile, 100*100)
	for i := range tiles {
		tiles[i] = world.Tile{Kind: world.Grass}
	}
	tiles[0] = world.Tile{Kind: world.Street, Content: world.Bank, HasContent: true}
	tiles[101] = world.Tile{Kind: world.Grass, Content: world.Tree, HasContent: true}
	tiles[9999] = world.Tile{Kind: world.Lava}
	return world.NewWorld(100, 100, tiles)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	w := sampleWorld(t)
	got, err := Decode(Encode(w))
	require.NoError(t, err)
	assert.True(t, w.Equal(got))
}

func TestEncodeHeader(t *testing.T) {
	data := Encode(sampleWorld(t))
	assert.Equal(t, []byte("GFRG"), data[:4])
	assert.Equal(t, []byte{0, 1}, data[4:6], "version 1, big-endian")
	assert.Equal(t, []byte{0, 0, 0, 100}, data[6:10])
	assert.Equal(t, []byte{0, 0, 0, 100}, data[10:14])
}

func TestDecodeBadMagic(t *testing.T) {
	data := Encode(sampleWorld(t))
	data[0] = 'X'
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	data := Encode(sampleWorld(t))
	data[5] = 2
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeRejectsOversizedDimensions(t *testing.T) {
	// A bare header whose dimensions promise far more cells than the input
	// carries must fail typed, not attempt the allocation.
	header := func(width, height uint32) []byte {
		data := []byte("GFRG")
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint32(data, width)
		data = binary.BigEndian.AppendUint32(data, height)
		return data
	}

	_, err := Decode(header(0xFFFFFFFF, 0xFFFFFFFF))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode(header(100000, 100000))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeTruncated(t *testing.T) {
	data := Encode(sampleWorld(t))

	_, err := Decode(data[:10])
	assert.ErrorIs(t, err, ErrTruncated, "header cut short")

	_, err = Decode(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrTruncated, "cell stream cut short")

	// Cell 0 carries content; cutting after its flag byte leaves a
	// dangling content marker.
	_, err = Decode(data[:headerSize+2])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeCorrupt(t *testing.T) {
	t.Run("unknown kind tag", func(t *testing.T) {
		data := Encode(sampleWorld(t))
		data[headerSize] = 200
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("unknown content tag", func(t *testing.T) {
		data := Encode(sampleWorld(t))
		data[headerSize+2] = 200 // cell 0 content byte
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("invalid content flag", func(t *testing.T) {
		data := Encode(sampleWorld(t))
		data[headerSize+1] = 7
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		data := append(Encode(sampleWorld(t)), 0, 0)
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("undersized dimensions", func(t *testing.T) {
		data := Encode(sampleWorld(t))
		data[9] = 99 // width 99
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestSaveLoad(t *testing.T) {
	w := sampleWorld(t)
	path := filepath.Join(t.TempDir(), "sample.world")

	require.NoError(t, Save(w, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.True(t, w.Equal(got))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.world"))
	assert.Error(t, err)
}
