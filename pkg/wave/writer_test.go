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

package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

//
func TestWriteEmpty(t *testing.T) {

	out, err := Bytes(nil)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	if len(out) != HeaderLength {
		t.Fatalf("WAVE file has %d bytes, want %d", len(out), HeaderLength)
	}

	le := binary.LittleEndian

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"riff", string(out[0:4]), "RIFF"},
		{"riff size", le.Uint32(out[4:8]), uint32(HeaderLength - 8)},
		{"wave", string(out[8:12]), "WAVE"},
		{"fmt", string(out[12:16]), "fmt "},
		{"fmt size", le.Uint32(out[16:20]), uint32(16)},
		{"format", le.Uint16(out[20:22]), uint16(1)},
		{"channels", le.Uint16(out[22:24]), uint16(1)},
		{"sample rate", le.Uint32(out[24:28]), uint32(SampleRate)},
		{"byte rate", le.Uint32(out[28:32]), uint32(SampleRate)},
		{"block align", le.Uint16(out[32:34]), uint16(1)},
		{"bits", le.Uint16(out[34:36]), uint16(8)},
		{"data", string(out[36:40]), "data"},
		{"data size", le.Uint32(out[40:44]), uint32(0)},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

//
func TestWriteSamples(t *testing.T) {

	samples := Encode([]*block{{data: []byte{0x1f, 0xa6}, header: true}})
	out, err := Bytes(samples)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	if len(out) != HeaderLength+len(samples) {
		t.Fatalf("WAVE file has %d bytes, want %d",
			len(out), HeaderLength+len(samples))
	}
	if !bytes.Equal(out[HeaderLength:], samples) {
		t.Error("WAVE data differs from samples")
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(len(out)-8) {
		t.Errorf("riff size = %d, want %d", got, len(out)-8)
	}

	dec := wav.NewDecoder(bytes.NewReader(out))
	if !dec.IsValidFile() {
		t.Fatal("decoder does not accept WAVE file")
	}
	if dec.SampleRate != SampleRate || dec.NumChans != 1 || dec.BitDepth != 8 {
		t.Errorf("format = %d Hz, %d channels, %d bits",
			dec.SampleRate, dec.NumChans, dec.BitDepth)
	}

	var buf *audio.IntBuffer
	buf, err = dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if len(buf.Data) != len(samples) {
		t.Errorf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
}

//
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

//
func TestWriteError(t *testing.T) {
	if err := Write(failingWriter{}, []byte{Silence, Silence}); err == nil {
		t.Error("Write() to failing writer succeeded")
	}
}
