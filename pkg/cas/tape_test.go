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
	"errors"
	"testing"
)

//
func TestDecodeEmpty(t *testing.T) {
	tape, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	files, err := tape.ReadFiles()
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
	if len(tape.Bytes()) != 0 {
		t.Errorf("serialized empty tape has %d bytes", len(tape.Bytes()))
	}
}

//
func TestDecodeBin(t *testing.T) {

	data := join(
		[]byte(SyncMarker),
		pilot(PilotBin),
		[]byte("FOOBAR"),
		[]byte(SyncMarker),
		[]byte{0x00, 0x80, 0x08, 0x80, 0x00, 0x00},
		[]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	tape, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	files, err := tape.ReadFiles()
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}

	bin, ok := files[0].(*Bin)
	if !ok {
		t.Fatalf("got %T, want *Bin", files[0])
	}
	if bin.Name() != "FOOBAR" {
		t.Errorf("name = %q, want FOOBAR", bin.Name())
	}
	if bin.LoadAddress() != 0x8000 || bin.EndAddress() != 0x8008 ||
		bin.StartAddress() != 0x0000 {
		t.Errorf("addresses = %#x, %#x, %#x", bin.LoadAddress(),
			bin.EndAddress(), bin.StartAddress())
	}
	if want := []byte{1, 2, 3, 4, 5, 6, 7}; !bytes.Equal(bin.Data(), want) {
		t.Errorf("data = % x, want % x", bin.Data(), want)
	}

	if !bytes.Equal(tape.Bytes(), data) {
		t.Errorf("serialized tape differs from input")
	}
}

//
func TestDecodeMalformed(t *testing.T) {

	m := []byte(SyncMarker)

	tests := []struct {
		name string
		data []byte
	}{
		{"bin without data", join(m, pilot(PilotBin), []byte("FOOBAR"))},
		{"basic without data", join(m, pilot(PilotBasic), []byte("FOOBAR"))},
		{"ascii without data", join(m, pilot(PilotASCII), []byte("FOOBAR"))},
		{"ascii followed by header", join(m, pilot(PilotASCII), []byte("FOOBAR"),
			m, pilot(PilotBin), []byte("BAR   "), m, make([]byte, 6))},
		{"short bin data", join(m, pilot(PilotBin), []byte("FOOBAR"),
			m, []byte{0, 0x80})},
		{"name not text", join(m, pilot(PilotBin), []byte{'F', 0xff, 0xfe, 'B', 'A', 'R'},
			m, make([]byte, 8))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tape, err := Decode(tc.data)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
			if tape != nil {
				t.Error("Decode() returned partial tape")
			}
		})
	}
}

//
func TestFilesRestartable(t *testing.T) {

	tape := New()
	foo, _ := NewName("foo")
	mustPad(t)(tape.AppendBasic(foo, []byte{1, 2, 3}))
	mustPad(t)(tape.AppendCustom([]byte{4, 5}))

	for run := 0; run < 2; run++ {
		count := 0
		rd := tape.Files()
		for rd.Next() {
			count++
		}
		if rd.Err() != nil {
			t.Fatalf("run %d: error = %v", run, rd.Err())
		}
		if count != 2 {
			t.Errorf("run %d: got %d files, want 2", run, count)
		}
		if rd.Next() {
			t.Errorf("run %d: exhausted reader yields more files", run)
		}
	}
}

//
func TestAppendRoundTrip(t *testing.T) {

	name, _ := NewName("game")
	text := []byte("10 PRINT \"HELLO\"\r\n20 GOTO 10\r\n")
	program := join([]byte{BinID, 0x00, 0x90, 0x04, 0x90, 0x00, 0x90},
		[]byte{0xc9, 0x00, 0x00, 0x00, 0xc9})

	tape := New()
	if pad, err := tape.AppendBin(name, program); err != nil {
		t.Fatalf("AppendBin() error = %v", err)
	} else if pad != 5 { // header 24, data block 8 + 6 + 5
		t.Errorf("AppendBin() padding = %d, want 5", pad)
	}
	if pad, err := tape.AppendBasic(name, []byte{0xff, 1, 2, 3, 4, 5, 6, 7}); err != nil {
		t.Fatalf("AppendBasic() error = %v", err)
	} else if pad != 0 {
		t.Errorf("AppendBasic() padding = %d, want 0", pad)
	}
	if pad, err := tape.AppendASCII(name, text); err != nil {
		t.Fatalf("AppendASCII() error = %v", err)
	} else if pad != ChunkLength-len(text) {
		t.Errorf("AppendASCII() padding = %d, want %d", pad, ChunkLength-len(text))
	}
	if pad, err := tape.AppendCustom([]byte{1, 2, 3}); err != nil {
		t.Fatalf("AppendCustom() error = %v", err)
	} else if pad != 5 {
		t.Errorf("AppendCustom() padding = %d, want 5", pad)
	}

	decoded, err := Decode(tape.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	files, err := decoded.ReadFiles()
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("got %d files, want 4", len(files))
	}

	bin := files[0].(*Bin)
	if bin.Name() != "game  " || bin.LoadAddress() != 0x9000 ||
		bin.EndAddress() != 0x9004 || bin.StartAddress() != 0x9000 {
		t.Errorf("unexpected binary header: %q %#x %#x %#x", bin.Name(),
			bin.LoadAddress(), bin.EndAddress(), bin.StartAddress())
	}
	if want := []byte{0xc9, 0, 0, 0, 0xc9, 0, 0, 0, 0, 0}; !bytes.Equal(bin.Data(), want) {
		t.Errorf("binary data = % x, want % x", bin.Data(), want)
	}
	if !bytes.HasPrefix(bin.Extract(), program) {
		t.Errorf("extracted binary = % x, want prefix % x", bin.Extract(), program)
	}

	basic := files[1].(*Basic)
	if want := []byte{0xff, 1, 2, 3, 4, 5, 6, 7}; !bytes.Equal(basic.Data(), want) {
		t.Errorf("basic data = % x, want % x", basic.Data(), want)
	}

	ascii := files[2].(*ASCII)
	if len(ascii.Chunks()) != 1 || len(ascii.Chunks()[0]) != ChunkLength {
		t.Errorf("unexpected ASCII chunks: %d", len(ascii.Chunks()))
	}
	if !bytes.Equal(ascii.Extract(), text) {
		t.Errorf("ASCII text = %q, want %q", ascii.Extract(), text)
	}
	if FileName(ascii) != "game" {
		t.Errorf("FileName() = %q, want game", FileName(ascii))
	}

	custom := files[3].(*Custom)
	if want := []byte{1, 2, 3, 0, 0, 0, 0, 0}; !bytes.Equal(custom.Data(), want) {
		t.Errorf("custom data = % x, want % x", custom.Data(), want)
	}
}

//
func TestAppendAlignment(t *testing.T) {

	name, _ := NewName("x")
	tape := New()

	for size := 0; size < 20; size++ {
		data := bytes.Repeat([]byte{0x55}, size)

		before := tape.Len()
		pad, _ := tape.AppendCustom(data)
		if pad < 0 || pad >= Alignment {
			t.Fatalf("custom size %d: padding %d out of range", size, pad)
		}
		if got := tape.Len() - before - MarkerLength - size; got != pad {
			t.Errorf("custom size %d: %d bytes inserted, %d reported", size, got, pad)
		}

		if _, err := tape.AppendBasic(name, data); err != nil {
			t.Fatal(err)
		}
		if _, err := tape.AppendBin(name, append(make([]byte, 6), data...)); err != nil {
			t.Fatal(err)
		}
		if _, err := tape.AppendASCII(name, data); err != nil {
			t.Fatal(err)
		}
	}

	for ix, off := range tape.Offsets() {
		if off%Alignment != 0 {
			t.Errorf("block %d starts at unaligned offset %d", ix, off)
		}
	}
	if tape.Len()%Alignment != 0 {
		t.Errorf("tape length %d not aligned", tape.Len())
	}
}

//
func TestAppendRealignsUnalignedTape(t *testing.T) {

	name, _ := NewName("x")

	tape, err := Decode(join([]byte(SyncMarker), []byte{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}

	pad, _ := tape.AppendASCII(name, []byte("abc"))
	if pad != ChunkLength-3+5 {
		t.Errorf("padding = %d, want %d", pad, ChunkLength-3+5)
	}
	if tape.Len()%Alignment != 0 {
		t.Errorf("tape length %d not aligned", tape.Len())
	}
}

//
func TestAppendASCIIPadding(t *testing.T) {

	name, _ := NewName("text")

	tests := []struct {
		size    int
		padding int
		chunks  int
	}{
		// empty text still gets one chunk of EOF filler, so padding is 256
		// rather than 0; a header without chunk would not decode
		{0, 256, 1},
		{1, 255, 1},
		{255, 1, 1},
		{256, 0, 1},
		{257, 255, 2},
		{1000, 24, 4},
	}

	for _, tc := range tests {
		tape := New()
		pad, err := tape.AppendASCII(name, bytes.Repeat([]byte{'a'}, tc.size))
		if err != nil {
			t.Fatal(err)
		}
		if pad != tc.padding {
			t.Errorf("size %d: padding = %d, want %d", tc.size, pad, tc.padding)
		}
		if n := len(tape.Blocks()) - 1; n != tc.chunks {
			t.Errorf("size %d: %d chunks, want %d", tc.size, n, tc.chunks)
		}
		files, err := tape.ReadFiles()
		if err != nil {
			t.Fatal(err)
		}
		if got := len(files[0].Extract()); got != tc.size {
			t.Errorf("size %d: extracted %d bytes", tc.size, got)
		}
		for ix, b := range tape.Blocks()[1:] {
			if len(b.Data()) != ChunkLength {
				t.Errorf("size %d: chunk %d has %d bytes", tc.size, ix, len(b.Data()))
			}
		}
	}
}

//
func TestDecodeASCIIFollowedByCustom(t *testing.T) {

	name, _ := NewName("text")
	text := bytes.Repeat([]byte{'A'}, ChunkLength)
	custom := []byte("CUSTOMDATA")

	aligned := New()
	unaligned, err := Decode(join([]byte(SyncMarker), []byte{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		tape    *Tape
		padding int
		types   []FileType
	}{
		{"aligned", aligned, 0, []FileType{TypeASCII, TypeCustom}},
		{"unaligned", unaligned, 5, []FileType{TypeCustom, TypeASCII, TypeCustom}},
	}

	for _, tc := range tests {

		pad, err := tc.tape.AppendASCII(name, text)
		if err != nil {
			t.Fatal(err)
		}
		if pad != tc.padding {
			t.Errorf("%s: ASCII padding = %d, want %d", tc.name, pad, tc.padding)
		}
		if _, err := tc.tape.AppendCustom(custom); err != nil {
			t.Fatal(err)
		}

		decoded, err := Decode(tc.tape.Bytes())
		if err != nil {
			t.Fatalf("%s: Decode() error = %v", tc.name, err)
		}
		files, err := decoded.ReadFiles()
		if err != nil {
			t.Fatalf("%s: ReadFiles() error = %v", tc.name, err)
		}

		if len(files) != len(tc.types) {
			t.Fatalf("%s: decoded %d files, want %d", tc.name, len(files), len(tc.types))
		}
		for ix, f := range files {
			if f.Type() != tc.types[ix] {
				t.Errorf("%s: file %d is %v, want %v", tc.name, ix, f.Type(), tc.types[ix])
			}
		}

		last := len(files) - 1
		if got := files[last-1].Extract(); !bytes.Equal(got, text) {
			t.Errorf("%s: extracted text has %d bytes, want %d",
				tc.name, len(got), len(text))
		}
		if got := files[last].Extract(); !bytes.HasPrefix(got, custom) {
			t.Errorf("%s: custom data = %q, want prefix %q", tc.name, got, custom)
		}
	}
}

//
func TestAppendBinInvalid(t *testing.T) {
	name, _ := NewName("x")
	tape := New()
	for _, data := range [][]byte{nil, {BinID}, {BinID, 1, 2, 3, 4, 5}} {
		if _, err := tape.AppendBin(name, data); !errors.Is(err, ErrInvalidData) {
			t.Errorf("AppendBin(% x) error = %v, want ErrInvalidData", data, err)
		}
	}
	if len(tape.Blocks()) != 0 {
		t.Errorf("failed append left %d blocks", len(tape.Blocks()))
	}
}

//
func mustPad(t *testing.T) func(int, error) {
	return func(_ int, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
}
