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
	"encoding/binary"
	"strings"
)

// BinID is the first byte of a stand-alone MSX binary file. It is not stored
// on tape.
const BinID byte = 0xfe

// EOF is the filler byte that ends an ASCII file on tape.
const EOF byte = 0x1a

// ChunkLength is the size of an ASCII data block.
const ChunkLength = 256

//
type FileType int

const (
	TypeCustom FileType = iota
	TypeBin
	TypeBasic
	TypeASCII
)

//
func (t FileType) String() string {
	switch t {
	case TypeBin:
		return "bin"
	case TypeBasic:
		return "basic"
	case TypeASCII:
		return "ascii"
	}
	return "custom"
}

// Extension returns the file name extension used when extracting files of
// this type, including the leading dot. Custom files have no extension.
func (t FileType) Extension() string {
	switch t {
	case TypeBin:
		return ".bin"
	case TypeBasic:
		return ".bas"
	case TypeASCII:
		return ".asc"
	}
	return ""
}

// File is a file stored on a tape. It is implemented by *Bin, *Basic, *ASCII,
// and *Custom only.
type File interface {

	// Type returns the type of the file
	Type() FileType

	// Name returns the name as stored on tape, including padding spaces;
	// empty for custom files
	Name() string

	// Size returns the length of the file payload
	Size() int

	// Extract returns the file as it would be stored on disk
	Extract() []byte

	sealed()
}

// FileName returns the name of f with padding removed, suitable for use as
// a file system name. Returns an empty string for custom files.
func FileName(f File) string {
	return strings.TrimRight(f.Name(), " \x00")
}

// --- binary ------------------------------------------------------------------

//
func NewBin(name string, load, end, start uint16, data []byte) *Bin {
	return &Bin{name: name, load: load, end: end, start: start, data: data}
}

//
type Bin struct {
	name  string
	load  uint16
	end   uint16
	start uint16
	data  []byte
}

func (b *Bin) sealed() {}

//
func (b *Bin) Type() FileType {
	return TypeBin
}

//
func (b *Bin) Name() string {
	return b.name
}

//
func (b *Bin) Size() int {
	return len(b.data)
}

//
func (b *Bin) LoadAddress() uint16 {
	return b.load
}

//
func (b *Bin) EndAddress() uint16 {
	return b.end
}

//
func (b *Bin) StartAddress() uint16 {
	return b.start
}

// Data returns the program bytes, without the address header.
func (b *Bin) Data() []byte {
	return b.data
}

// Extract returns the binary in MSX BLOAD format, i.e. ID byte, addresses,
// and program bytes.
func (b *Bin) Extract() []byte {
	ret := make([]byte, 0, 1+AddressLength+len(b.data))
	ret = append(ret, BinID)
	ret = append(ret, b.addresses()...)
	return append(ret, b.data...)
}

//
func (b *Bin) addresses() []byte {
	ret := make([]byte, AddressLength)
	binary.LittleEndian.PutUint16(ret[0:], b.load)
	binary.LittleEndian.PutUint16(ret[2:], b.end)
	binary.LittleEndian.PutUint16(ret[4:], b.start)
	return ret
}

// --- BASIC -------------------------------------------------------------------

//
func NewBasic(name string, data []byte) *Basic {
	return &Basic{name: name, data: data}
}

// Basic is a tokenized BASIC program.
type Basic struct {
	name string
	data []byte
}

func (b *Basic) sealed() {}

//
func (b *Basic) Type() FileType {
	return TypeBasic
}

//
func (b *Basic) Name() string {
	return b.name
}

//
func (b *Basic) Size() int {
	return len(b.data)
}

//
func (b *Basic) Data() []byte {
	return b.data
}

//
func (b *Basic) Extract() []byte {
	return b.data
}

// --- ASCII -------------------------------------------------------------------

//
func NewASCII(name string, chunks [][]byte) *ASCII {
	return &ASCII{name: name, chunks: chunks}
}

// ASCII is a text file, stored in chunks of 256 bytes. The last chunk is
// filled up with EOF bytes.
type ASCII struct {
	name   string
	chunks [][]byte
}

func (a *ASCII) sealed() {}

//
func (a *ASCII) Type() FileType {
	return TypeASCII
}

//
func (a *ASCII) Name() string {
	return a.name
}

// Size returns the length of all chunks, including EOF filler.
func (a *ASCII) Size() int {
	size := 0
	for _, c := range a.chunks {
		size += len(c)
	}
	return size
}

//
func (a *ASCII) Chunks() [][]byte {
	return a.chunks
}

// Extract returns the text up to the first EOF byte. Alignment zeros following
// a full chunk are dropped.
func (a *ASCII) Extract() []byte {
	var buf bytes.Buffer
	for _, c := range a.chunks {
		if ix := bytes.IndexByte(c, EOF); ix > -1 {
			buf.Write(c[:ix])
			break
		}
		if len(c) > ChunkLength { // alignment zeros
			c = c[:ChunkLength]
		}
		buf.Write(c)
	}
	return buf.Bytes()
}

// --- custom ------------------------------------------------------------------

//
func NewCustom(data []byte) *Custom {
	return &Custom{data: data}
}

// Custom is an unclassified block, kept as is.
type Custom struct {
	data []byte
}

func (c *Custom) sealed() {}

//
func (c *Custom) Type() FileType {
	return TypeCustom
}

//
func (c *Custom) Name() string {
	return ""
}

//
func (c *Custom) Size() int {
	return len(c.data)
}

//
func (c *Custom) Data() []byte {
	return c.data
}

//
func (c *Custom) Extract() []byte {
	return c.data
}
