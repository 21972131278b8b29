/*
   CasPack - MSX cassette image packager
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of CasPack.

   CasPack is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   CasPack is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with CasPack. If not, see <http://www.gnu.org/licenses/>.
*/

package cas

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// SyncMarker separates the blocks of a CAS container. Blocks written by this
// package always start on an 8 byte boundary.
const SyncMarker = "\x1f\xa6\xde\xba\xcc\x13\x7d\x74"

const (
	// MarkerLength is the length of the sync marker
	MarkerLength = len(SyncMarker)
	// Alignment of block starts within a container
	Alignment = 8
	// PilotLength is the number of type bytes at the start of a file header
	PilotLength = 10
	// NameLength is the length of the name field following the pilot
	NameLength = 6
	// HeaderLength is the payload length of a file header block
	HeaderLength = PilotLength + NameLength
	// AddressLength is the length of the load, end & start address triple
	// at the start of a binary data block
	AddressLength = 6
)

// pilot bytes of the file headers
const (
	PilotBin   byte = 0xd0
	PilotBasic byte = 0xd3
	PilotASCII byte = 0xea
)

//
type Block struct {
	data []byte
}

// NewBlock creates a block with a copy of the given payload.
func NewBlock(payload []byte) *Block {
	b := &Block{data: make([]byte, len(payload))}
	copy(b.data, payload)
	return b
}

// Data returns the payload of the block, i.e. the bytes following the sync
// marker. The returned slice must not be modified.
func (b *Block) Data() []byte {
	return b.data
}

// Len returns the serialized length of the block, including sync marker.
func (b *Block) Len() int {
	return MarkerLength + len(b.data)
}

// Bytes returns the serialized block, sync marker followed by payload.
func (b *Block) Bytes() []byte {
	ret := make([]byte, 0, b.Len())
	ret = append(ret, SyncMarker...)
	return append(ret, b.data...)
}

// IsHeader returns true if this block is the header of a binary file, i.e.
// its payload starts with ten 0xD0 bytes followed by a name field.
func (b *Block) IsHeader() bool {
	return b.HeaderType() == TypeBin
}

// IsFileHeader returns true if this block is the header of any named file
// type, binary, BASIC, or ASCII.
func (b *Block) IsFileHeader() bool {
	return b.HeaderType() != TypeCustom
}

// HeaderType returns the type of file announced by this block if it is a
// file header, TypeCustom otherwise.
func (b *Block) HeaderType() FileType {

	if len(b.data) < HeaderLength {
		return TypeCustom
	}

	var typ FileType
	switch b.data[0] {
	case PilotBin:
		typ = TypeBin
	case PilotBasic:
		typ = TypeBasic
	case PilotASCII:
		typ = TypeASCII
	default:
		return TypeCustom
	}

	for _, p := range b.data[1:PilotLength] {
		if p != b.data[0] {
			return TypeCustom
		}
	}

	return typ
}

// Name returns the name field of a file header block.
func (b *Block) Name() (string, error) {
	if !b.IsFileHeader() {
		return "", fmt.Errorf("%w: not a file header", ErrMalformed)
	}
	n := b.data[PilotLength:HeaderLength]
	if !utf8.Valid(n) {
		return "", fmt.Errorf("%w: file name %q is not text", ErrMalformed, n)
	}
	return string(n), nil
}

// ScanBlocks locates all sync markers in data and splits it into blocks. Each
// block spans from the end of a marker to the start of the next one, or to
// the end of data for the last marker. Bytes before the first marker are not
// part of any block. Without markers, no blocks are returned.
func ScanBlocks(data []byte) []*Block {

	marker := []byte(SyncMarker)
	var offsets []int

	for pos := 0; ; {
		ix := bytes.Index(data[pos:], marker)
		if ix < 0 {
			break
		}
		offsets = append(offsets, pos+ix)
		pos += ix + MarkerLength
	}

	blocks := make([]*Block, len(offsets))

	for ix, off := range offsets {
		end := len(data)
		if ix < len(offsets)-1 {
			end = offsets[ix+1]
		}
		blocks[ix] = NewBlock(data[off+MarkerLength : end])
	}

	return blocks
}

// headerBlock creates a file header block of the given type
func headerBlock(pilot byte, name Name) *Block {
	data := make([]byte, HeaderLength)
	for ix := 0; ix < PilotLength; ix++ {
		data[ix] = pilot
	}
	copy(data[PilotLength:], name[:])
	return &Block{data: data}
}
