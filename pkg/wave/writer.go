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
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/youpy/go-wav"
)

// HeaderLength is the length of the RIFF/WAVE header preceding the samples.
const HeaderLength = 44

// Write writes the samples as mono 8 bit PCM WAVE to w.
func Write(w io.Writer, samples []byte) error {

	enc := wav.NewWriter(w, uint32(len(samples)), 1, SampleRate, 8)
	if enc == nil {
		return fmt.Errorf("bad parameters for WAVE encoding")
	}

	if _, err := enc.Write(samples); err != nil {
		return fmt.Errorf("error writing samples: %w", err)
	}

	log.WithFields(log.Fields{
		"samples": len(samples),
		"seconds": len(samples) / SampleRate}).Debug("wrote WAVE data")

	return nil
}

// Bytes returns the samples as mono 8 bit PCM WAVE file content.
func Bytes(samples []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderLength + len(samples))
	if err := Write(&buf, samples); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export encodes the blocks and writes them to w as WAVE.
func Export[B Block](w io.Writer, blocks []B) error {
	return Write(w, Encode(blocks))
}
