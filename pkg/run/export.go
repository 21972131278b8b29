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

package run

import (
	"bytes"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/format"
	"github.com/xelalexv/caspack/pkg/util"
	"github.com/xelalexv/caspack/pkg/wave"
)

//
func NewExport() *Export {

	e := &Export{}
	e.Runner = *NewRunner(
		"export -i|--input {tape} -o|--output {wav}",
		"export a tape as WAVE audio",
		`
Use the export command to convert a tape into a WAVE file that can be played
into the cassette port of an MSX computer. The audio is 8 bit mono, sampled at
43200 Hz, and encodes the data at 1200 baud.`,
		"", runnerHelpEpilogue, e.Run)

	e.AddBaseSettings()
	e.AddSetting(&e.Input, "input", "i", "", nil, "tape file", true)
	e.AddSetting(&e.Output, "output", "o", "", nil, "WAVE output file", true)

	return e
}

//
type Export struct {
	Runner
	//
	Input  string
	Output string
}

//
func (e *Export) Run() error {

	if err := e.ParseSettings(); err != nil {
		return err
	}

	tape, err := format.LoadTape(e.Input)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := wave.Export(&buf, tape.Blocks()); err != nil {
		return err
	}

	if err := util.WriteFileAtomic(e.Output, buf.Bytes()); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"file":    e.Output,
		"blocks":  len(tape.Blocks()),
		"seconds": (buf.Len() - wave.HeaderLength) / wave.SampleRate,
	}).Info("tape exported")

	return nil
}
