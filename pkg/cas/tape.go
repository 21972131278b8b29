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
	"io"

	log "github.com/sirupsen/logrus"
)

// New creates an empty tape.
func New() *Tape {
	return &Tape{}
}

// Decode creates a tape from the bytes of a CAS container. All files on the
// tape are decoded once to verify the framing, so that iterating over the
// files of the returned tape will not fail.
func Decode(data []byte) (*Tape, error) {

	t := &Tape{}
	for _, b := range ScanBlocks(data) {
		t.append(b)
	}
	log.WithField("blocks", len(t.blocks)).Debug("scanned container")

	count := 0
	rd := t.Files()
	for rd.Next() {
		count++
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}

	log.WithField("files", count).Debug("decoded container")
	return t, nil
}

// Read reads a complete CAS container from r and decodes it.
func Read(r io.Reader) (*Tape, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Tape is an ordered sequence of blocks. It can only be extended by appending
// blocks, existing blocks are never changed.
type Tape struct {
	blocks []*Block
	length int
}

// Blocks returns the blocks of this tape. The returned slice must not be
// modified.
func (t *Tape) Blocks() []*Block {
	return t.blocks
}

// Len returns the serialized length of this tape.
func (t *Tape) Len() int {
	return t.length
}

// Offsets returns the start offsets of all blocks within the serialized tape.
func (t *Tape) Offsets() []int {
	ret := make([]int, len(t.blocks))
	off := 0
	for ix, b := range t.blocks {
		ret[ix] = off
		off += b.Len()
	}
	return ret
}

// Bytes serializes this tape.
func (t *Tape) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(t.Len())
	t.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the serialized tape to w.
func (t *Tape) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, b := range t.blocks {
		n, err := w.Write(b.Bytes())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Files returns a reader for the files on this tape, starting at the first
// block. Every call returns a fresh reader.
func (t *Tape) Files() *FileReader {
	return &FileReader{blocks: t.blocks}
}

// ReadFiles decodes all files on this tape.
func (t *Tape) ReadFiles() ([]File, error) {
	var ret []File
	rd := t.Files()
	for rd.Next() {
		ret = append(ret, rd.File())
	}
	return ret, rd.Err()
}

// AppendBin appends a binary file. data is the content of an MSX binary file,
// i.e. load, end & start addresses followed by the program, optionally
// preceded by the binary ID byte. Returns the number of zero bytes added to
// keep the tape aligned.
func (t *Tape) AppendBin(name Name, data []byte) (int, error) {

	if len(data) > 0 && data[0] == BinID {
		data = data[1:]
	}

	if len(data) < AddressLength {
		return 0, fmt.Errorf(
			"%w: binary file '%s' is shorter than its address header",
			ErrInvalidData, name)
	}

	t.append(headerBlock(PilotBin, name))
	return t.appendAligned(data), nil
}

// AppendBasic appends a tokenized BASIC program. Returns the number of zero
// bytes added to keep the tape aligned.
func (t *Tape) AppendBasic(name Name, data []byte) (int, error) {
	t.append(headerBlock(PilotBasic, name))
	return t.appendAligned(data), nil
}

// AppendASCII appends a text file. The text is filled up with EOF bytes to a
// multiple of 256 bytes and stored in one block per 256 bytes. Returns the
// number of bytes added. An empty text is stored as one chunk of EOF bytes.
func (t *Tape) AppendASCII(name Name, data []byte) (int, error) {

	fill := 0
	if r := len(data) % ChunkLength; r > 0 || len(data) == 0 {
		fill = ChunkLength - r
	}

	padded := make([]byte, len(data)+fill)
	copy(padded, data)
	for ix := len(data); ix < len(padded); ix++ {
		padded[ix] = EOF
	}

	t.append(headerBlock(PilotASCII, name))

	for off := 0; off < len(padded)-ChunkLength; off += ChunkLength {
		t.append(&Block{data: padded[off : off+ChunkLength]})
	}
	// the last chunk also restores alignment of tapes that were not aligned
	// to begin with
	pad := t.appendAligned(padded[len(padded)-ChunkLength:])

	log.WithFields(log.Fields{
		"name":   name.String(),
		"filler": fill,
		"zeros":  pad}).Debug("appended ASCII file")

	return fill + pad, nil
}

// AppendCustom appends data as a single block without file header. Returns the
// number of zero bytes added to keep the tape aligned.
func (t *Tape) AppendCustom(data []byte) (int, error) {
	return t.appendAligned(data), nil
}

// appendAligned appends a block containing data, adding zero bytes to its end
// so that the next block will start at an aligned position.
func (t *Tape) appendAligned(data []byte) int {

	end := t.Len() + MarkerLength + len(data)
	pad := 0
	if r := end % Alignment; r > 0 {
		pad = Alignment - r
	}

	payload := make([]byte, len(data)+pad)
	copy(payload, data)
	t.append(&Block{data: payload})

	log.WithFields(log.Fields{
		"length":  len(data),
		"padding": pad}).Trace("appended block")

	return pad
}

//
func (t *Tape) append(b *Block) {
	t.blocks = append(t.blocks, b)
	t.length += b.Len()
}
