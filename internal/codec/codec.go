// Package codec persists completed worlds in a small versioned binary
// layout:
//
//	magic "GFRG" | version u16 | width u32 | height u32
//	per cell, row-major: kind u8 | content flag u8 | content u8 (flag=1 only)
//
// Integers are big-endian. Decoding malformed input fails with a typed
// error; there is no best-effort recovery.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"gridforge.dev/internal/world"
)

const (
	formatVersion = 1
	headerSize    = 4 + 2 + 4 + 4
)

var magic = [4]byte{'G', 'F', 'R', 'G'}

// Decode error taxonomy. Save and Load additionally surface filesystem
// errors unchanged.
var (
	ErrBadMagic           = errors.New("codec: bad magic")
	ErrUnsupportedVersion = errors.New("codec: unsupported format version")
	ErrTruncated          = errors.New("codec: truncated input")
	ErrCorrupt            = errors.New("codec: corrupt input")
)

// Encode serializes a completed world.
func Encode(w *world.World) []byte {
	tiles := w.Tiles()
	buf := make([]byte, 0, headerSize+len(tiles)*3)

	buf = append(buf, magic[:]...)
	buf = binary.BigEndian.AppendUint16(buf, formatVersion)
	buf = binary.BigEndian.AppendUint32(buf, w.Width())
	buf = binary.BigEndian.AppendUint32(buf, w.Height())

	for _, t := range tiles {
		buf = append(buf, byte(t.Kind))
		if t.HasContent {
			buf = append(buf, 1, byte(t.Content))
		} else {
			buf = append(buf, 0)
		}
	}
	return buf
}

// Decode reconstructs a world from its encoded form.
func Decode(data []byte) (*world.World, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", ErrTruncated, len(data), headerSize)
	}
	if [4]byte(data[:4]) != magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, data[:4])
	}
	version := binary.BigEndian.Uint16(data[4:6])
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)", ErrUnsupportedVersion, version, formatVersion)
	}
	width := binary.BigEndian.Uint32(data[6:10])
	height := binary.BigEndian.Uint32(data[10:14])
	if width < world.MinDimension || height < world.MinDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d below minimum", ErrCorrupt, width, height)
	}

	// The header dimensions bound the allocation below, so they must be
	// proven against the body length first. Cells need at least two bytes
	// each; comparing in uint64 keeps the arithmetic overflow-free for any
	// 32-bit dimensions.
	cells := uint64(width) * uint64(height)
	if uint64(len(data)-headerSize)/2 < cells {
		return nil, fmt.Errorf("%w: %d bytes of cell data for %dx%d cells",
			ErrTruncated, len(data)-headerSize, width, height)
	}

	tiles := make([]world.Tile, 0, cells)
	pos := headerSize
	for i := 0; i < int(cells); i++ {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: cell %d", ErrTruncated, i)
		}
		t := world.Tile{Kind: world.TileKind(data[pos])}
		if !t.Kind.Valid() {
			return nil, fmt.Errorf("%w: unknown tile kind tag %d at cell %d", ErrCorrupt, data[pos], i)
		}
		switch data[pos+1] {
		case 0:
			pos += 2
		case 1:
			if pos+3 > len(data) {
				return nil, fmt.Errorf("%w: cell %d content", ErrTruncated, i)
			}
			t.Content = world.ContentKind(data[pos+2])
			t.HasContent = true
			if !t.Content.Valid() {
				return nil, fmt.Errorf("%w: unknown content tag %d at cell %d", ErrCorrupt, data[pos+2], i)
			}
			pos += 3
		default:
			return nil, fmt.Errorf("%w: content flag %d at cell %d", ErrCorrupt, data[pos+1], i)
		}
		tiles = append(tiles, t)
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data)-pos)
	}

	return world.NewWorld(width, height, tiles), nil
}

// Save encodes a world to a file.
func Save(w *world.World, path string) error {
	if err := os.WriteFile(path, Encode(w), 0644); err != nil {
		return fmt.Errorf("writing world file: %w", err)
	}
	return nil
}

// Load reads and decodes a world file.
func Load(path string) (*world.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file: %w", err)
	}
	return Decode(data)
}
