package world

import "fmt"

// TileKind identifies the terrain of a single cell. The simulation gives
// these tags their meaning; here they only carry placement rules.
type TileKind uint8

const (
	DeepWater TileKind = iota
	ShallowWater
	Sand
	Grass
	Street
	Hill
	Mountain
	Snow
	Lava

	numTileKinds
)

// ContentKind identifies an object or resource placed on top of terrain.
type ContentKind uint8

const (
	Rock ContentKind = iota
	Tree
	Garbage
	Fire
	Coin
	Bin
	Crate
	Bank
	Water

	numContentKinds
)

// Tile is one grid cell: a terrain kind plus optional content.
type Tile struct {
	Kind       TileKind
	Content    ContentKind
	HasContent bool
}

// kindProps holds the placement rules attached to a terrain kind.
type kindProps struct {
	walk bool
	cost int
	hold uint16 // bitmask over ContentKind
}

func holdMask(contents ...ContentKind) uint16 {
	var m uint16
	for _, c := range contents {
		m |= 1 << c
	}
	return m
}

var tileKindProps = [numTileKinds]kindProps{
	DeepWater:    {walk: false, cost: 0, hold: holdMask(Water)},
	ShallowWater: {walk: true, cost: 5, hold: holdMask(Water)},
	Sand:         {walk: true, cost: 3, hold: holdMask(Rock, Garbage, Coin, Bin, Crate)},
	Grass:        {walk: true, cost: 1, hold: holdMask(Rock, Tree, Garbage, Fire, Coin, Bin, Crate, Bank)},
	Street:       {walk: true, cost: 0, hold: holdMask(Rock, Garbage, Coin, Bin, Bank)},
	Hill:         {walk: true, cost: 5, hold: holdMask(Rock, Tree, Garbage, Fire, Coin, Bin, Crate)},
	Mountain:     {walk: true, cost: 10, hold: holdMask(Rock, Garbage, Coin, Bin, Crate)},
	Snow:         {walk: true, cost: 3, hold: holdMask(Rock, Garbage, Coin, Crate)},
	Lava:         {walk: false, cost: 0, hold: 0},
}

// Valid reports whether k is a recognized terrain tag.
func (k TileKind) Valid() bool {
	return k < numTileKinds
}

// Walkable reports whether the simulation can traverse this terrain.
func (k TileKind) Walkable() bool {
	return k.Valid() && tileKindProps[k].walk
}

// Cost returns the traversal cost of this terrain.
func (k TileKind) Cost() int {
	if !k.Valid() {
		return 0
	}
	return tileKindProps[k].cost
}

// CanHold reports whether content c may be placed on terrain k. This is the
// default prerequisite rule; stages may declare a stricter one.
func (k TileKind) CanHold(c ContentKind) bool {
	return k.Valid() && c.Valid() && tileKindProps[k].hold&(1<<c) != 0
}

func (k TileKind) String() string {
	switch k {
	case DeepWater:
		return "deep_water"
	case ShallowWater:
		return "shallow_water"
	case Sand:
		return "sand"
	case Grass:
		return "grass"
	case Street:
		return "street"
	case Hill:
		return "hill"
	case Mountain:
		return "mountain"
	case Snow:
		return "snow"
	case Lava:
		return "lava"
	}
	return fmt.Sprintf("tile_kind(%d)", uint8(k))
}

// ParseTileKind maps a descriptor name to its TileKind tag.
func ParseTileKind(name string) (TileKind, error) {
	for k := TileKind(0); k < numTileKinds; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unrecognized tile kind %q", name)
}

// ParseContentKind maps a descriptor name to its ContentKind tag.
func ParseContentKind(name string) (ContentKind, error) {
	for c := ContentKind(0); c < numContentKinds; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unrecognized content kind %q", name)
}

// Valid reports whether c is a recognized content tag.
func (c ContentKind) Valid() bool {
	return c < numContentKinds
}

func (c ContentKind) String() string {
	switch c {
	case Rock:
		return "rock"
	case Tree:
		return "tree"
	case Garbage:
		return "garbage"
	case Fire:
		return "fire"
	case Coin:
		return "coin"
	case Bin:
		return "bin"
	case Crate:
		return "crate"
	case Bank:
		return "bank"
	case Water:
		return "water"
	}
	return fmt.Sprintf("content_kind(%d)", uint8(c))
}
