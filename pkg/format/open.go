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

package format

import (
	"bufio"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/cas"
)

// ReadTape reads a tape from r. The compressor is taken from the given name,
// which is typically the file name r was opened from.
func ReadTape(r io.Reader, name string) (*cas.Tape, error) {

	_, _, comp := SplitNameTypeCompressor(name)

	rd, err := NewTapeReader(io.NopCloser(bufio.NewReader(r)), comp)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	return rd.Tape()
}

// LoadTape reads a tape from a file, which may be compressed.
func LoadTape(path string) (*cas.Tape, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTape(f, path)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"file":   path,
		"blocks": len(t.Blocks())}).Debug("tape loaded")

	return t, nil
}

// LoadOrCreateTape loads the tape from path if it exists, otherwise an empty
// tape is returned. The flag tells whether the tape existed.
func LoadOrCreateTape(path string) (*cas.Tape, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			log.WithField("file", path).Debug("creating new tape")
			return cas.New(), false, nil
		}
		return nil, false, err
	}
	t, err := LoadTape(path)
	return t, err == nil, err
}
