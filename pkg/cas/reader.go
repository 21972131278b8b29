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
	"fmt"
)

// FileReader decodes the files of a tape one by one. Use it like this:
//
//	rd := tape.Files()
//	for rd.Next() {
//		f := rd.File()
//		...
//	}
//	if err := rd.Err(); err != nil {
//		...
//	}
//
// A reader cannot be rewound. To start over, get a new reader from the tape.
type FileReader struct {
	blocks []*Block
	ix     int
	file   File
	err    error
}

// Next decodes the next file. It returns false when there are no more files,
// or decoding failed.
func (r *FileReader) Next() bool {

	r.file = nil

	if r.err != nil || r.ix >= len(r.blocks) {
		return false
	}

	var consumed int
	r.file, consumed, r.err = decodeFile(r.blocks[r.ix:], r.ix)
	if r.err != nil {
		r.file = nil
		return false
	}

	r.ix += consumed
	return true
}

// File returns the file decoded by the last call to Next.
func (r *FileReader) File() File {
	return r.file
}

// Err returns the error that stopped decoding, if any.
func (r *FileReader) Err() error {
	return r.err
}

// decodeFile decodes the file starting at the first of the given blocks, and
// returns the number of blocks that make up the file. Position is the index
// of the first block within the tape, for error messages.
func decodeFile(blocks []*Block, pos int) (File, int, error) {

	head := blocks[0]
	typ := head.HeaderType()

	if typ == TypeCustom {
		return NewCustom(head.Data()), 1, nil
	}

	name, err := head.Name()
	if err != nil {
		return nil, 0, fmt.Errorf("block %d: %w", pos, err)
	}

	if len(blocks) < 2 {
		return nil, 0, fmt.Errorf("%w: %s file '%s' at block %d has no data block",
			ErrMalformed, typ, name, pos)
	}

	switch typ {

	case TypeBin:
		data := blocks[1].Data()
		if len(data) < AddressLength {
			return nil, 0, fmt.Errorf(
				"%w: data block of binary file '%s' at block %d too short: %d bytes",
				ErrMalformed, name, pos+1, len(data))
		}
		return NewBin(name,
			binary.LittleEndian.Uint16(data[0:]),
			binary.LittleEndian.Uint16(data[2:]),
			binary.LittleEndian.Uint16(data[4:]),
			data[AddressLength:]), 2, nil

	case TypeBasic:
		return NewBasic(name, blocks[1].Data()), 2, nil
	}

	// ASCII: chunks up to the one containing EOF, next file header, next block
	// that is not a chunk, or end of tape, whichever comes first
	var chunks [][]byte
	consumed := 1
	for _, b := range blocks[1:] {
		if b.IsFileHeader() || !isChunk(b.Data()) {
			break
		}
		chunks = append(chunks, b.Data())
		consumed++
		if bytes.IndexByte(b.Data(), EOF) > -1 {
			break
		}
	}

	if len(chunks) == 0 {
		return nil, 0, fmt.Errorf("%w: ASCII file '%s' at block %d has no data block",
			ErrMalformed, name, pos)
	}

	return NewASCII(name, chunks), consumed, nil
}

// isChunk tells whether data can be a chunk of an ASCII file: the last chunk
// holding EOF, or a full chunk, possibly followed by alignment zeros.
func isChunk(data []byte) bool {

	if bytes.IndexByte(data, EOF) > -1 {
		return true
	}

	if len(data) < ChunkLength || len(data) >= ChunkLength+Alignment {
		return false
	}

	for _, b := range data[ChunkLength:] {
		if b != 0 {
			return false
		}
	}

	return true
}
