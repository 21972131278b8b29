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
	"math"

	log "github.com/sirupsen/logrus"
)

// signal parameters of the MSX cassette interface
const (
	Baud       = 1200
	SampleRate = 43200

	// pulse frequencies in Hz
	ShortPulse = 2400
	LongPulse  = 1200

	// header lengths in pulses
	ShortHeader = 4000
	LongHeader  = 16000

	// sample value representing zero amplitude
	Silence byte = 0x80
)

// Block is a tape block as seen by the encoder.
type Block interface {
	// Data returns the block payload, without sync marker
	Data() []byte
	// IsFileHeader returns whether the block starts a named file
	IsFileHeader() bool
}

// Pulse synthesizes one sine wave cycle at the given frequency as 8 bit
// unsigned PCM samples. Frequencies below 1200 Hz and non-positive rates yield
// no samples.
func Pulse(freq, sampleRate, baud int) []byte {

	div := baud * (freq / 1200)
	if div <= 0 {
		return nil
	}

	length := sampleRate / div
	if length <= 0 {
		return nil
	}

	ret := make([]byte, length)
	scale := 2 * math.Pi / float64(length)

	for ix := range ret {
		v := math.Sin(scale*float64(ix)) * 127
		ret[ix] = byte(int8(v)) ^ 0x80
	}

	return ret
}

// NewEncoder creates an encoder using 1200 baud at 43200 samples per second.
func NewEncoder() *Encoder {
	return &Encoder{
		baud:       Baud,
		sampleRate: SampleRate,
		short:      Pulse(ShortPulse, SampleRate, Baud),
		long:       Pulse(LongPulse, SampleRate, Baud),
	}
}

// Encoder turns tape blocks into a cassette signal. Silences, headers, and
// data are appended to an internal sample buffer, which can be retrieved with
// Samples and written out as WAVE with Write.
type Encoder struct {
	baud       int
	sampleRate int
	short      []byte
	long       []byte
	buffer     []byte
}

// Samples returns the samples encoded so far.
func (e *Encoder) Samples() []byte {
	return e.buffer
}

// SampleRate returns the sample rate of the encoded signal.
func (e *Encoder) SampleRate() int {
	return e.sampleRate
}

// WriteSilence writes n samples of silence. Returns the number of samples
// written.
func (e *Encoder) WriteSilence(n int) int {
	for ix := 0; ix < n; ix++ {
		e.buffer = append(e.buffer, Silence)
	}
	return n
}

// WriteShortSilence writes one second of silence.
func (e *Encoder) WriteShortSilence() int {
	return e.WriteSilence(e.sampleRate)
}

// WriteLongSilence writes two seconds of silence.
func (e *Encoder) WriteLongSilence() int {
	return e.WriteSilence(2 * e.sampleRate)
}

// WritePulse writes a single pulse of the given frequency.
func (e *Encoder) WritePulse(freq int) int {
	var p []byte
	switch freq {
	case ShortPulse:
		p = e.short
	case LongPulse:
		p = e.long
	default:
		p = Pulse(freq, e.sampleRate, e.baud)
	}
	e.buffer = append(e.buffer, p...)
	return len(p)
}

// WriteHeader writes a header consisting of the given number of pulses,
// scaled to the baud rate.
func (e *Encoder) WriteHeader(pulses int) int {
	n := 0
	for ix := 0; ix < pulses*e.baud/1200; ix++ {
		n += e.WritePulse(ShortPulse)
	}
	return n
}

//
func (e *Encoder) WriteShortHeader() int {
	return e.WriteHeader(ShortHeader)
}

//
func (e *Encoder) WriteLongHeader() int {
	return e.WriteHeader(LongHeader)
}

// WriteDataByte writes one byte: a start bit, eight data bits starting with the
// least significant one, and two stop bits. A 0 bit is one long pulse, a 1 bit
// two short pulses.
func (e *Encoder) WriteDataByte(b byte) int {

	n := e.WritePulse(LongPulse)

	for bit := 0; bit < 8; bit++ {
		if b&0x01 > 0 {
			n += e.WritePulse(ShortPulse)
			n += e.WritePulse(ShortPulse)
		} else {
			n += e.WritePulse(LongPulse)
		}
		b >>= 1
	}

	for ix := 0; ix < 4; ix++ {
		n += e.WritePulse(ShortPulse)
	}

	return n
}

//
func (e *Encoder) WriteData(data []byte) int {
	n := 0
	for _, b := range data {
		n += e.WriteDataByte(b)
	}
	return n
}

// WriteBlock writes a complete block. File headers are preceded by a long
// silence and a long header, all other blocks by a short silence and a short
// header.
func (e *Encoder) WriteBlock(b Block) int {
	var n int
	if b.IsFileHeader() {
		n = e.WriteLongSilence()
		n += e.WriteLongHeader()
	} else {
		n = e.WriteShortSilence()
		n += e.WriteShortHeader()
	}
	return n + e.WriteData(b.Data())
}

// WriteBlocks writes all blocks.
func WriteBlocks[B Block](e *Encoder, blocks []B) int {
	n := 0
	for ix, b := range blocks {
		w := e.WriteBlock(b)
		log.WithFields(log.Fields{
			"block":   ix,
			"samples": w,
			"KiB":     w / 1024}).Debug("encoded block")
		n += w
	}
	return n
}

// Encode encodes all blocks and returns the samples.
func Encode[B Block](blocks []B) []byte {
	e := NewEncoder()
	WriteBlocks(e, blocks)
	return e.Samples()
}
