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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/cas"
	"github.com/xelalexv/caspack/pkg/format"
	"github.com/xelalexv/caspack/pkg/util"
)

//
func NewAdd() *Add {

	a := &Add{}
	a.Runner = *NewRunner(
		"add -i|--input {tape} {file}...",
		"add files to a tape",
		`
Use the add command to append files to a tape. The tape is created if it does
not exist yet. The file type is determined by extension:

  .bin  binary file in BLOAD format, i.e. optional 0xFE ID byte, followed by
        load, end, and start address, followed by the program
  .bas  tokenized BASIC program
  .asc  ASCII text, e.g. a BASIC listing saved with SAVE"CAS:",A

Any other file is added as a custom block. File names on tape are limited to
six characters, longer names are truncated. Compressed tapes cannot be added to.`,
		"", runnerHelpEpilogue, a.Run)

	a.AddBaseSettings()
	a.AddSetting(&a.Input, "input", "i", "", nil, "tape file", true)

	return a
}

//
type Add struct {
	Runner
	//
	Input string
}

//
func (a *Add) Run() error {

	if err := a.ParseSettings(); err != nil {
		return err
	}

	files := a.Positional()
	if len(files) == 0 {
		return fmt.Errorf("no files to add")
	}

	if _, _, comp := format.SplitNameTypeCompressor(a.Input); comp != "" {
		return fmt.Errorf(
			"cannot add to %s compressed tape '%s', decompress it first",
			comp, a.Input)
	}

	tape, _, err := format.LoadOrCreateTape(a.Input)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := addFile(tape, f); err != nil {
			return fmt.Errorf("error adding '%s': %w", f, err)
		}
	}

	return util.WriteFileAtomic(a.Input, tape.Bytes())
}

//
func addFile(tape *cas.Tape, file string) error {

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	typ := format.Classify(file)
	logger := log.WithFields(log.Fields{"file": file, "type": typ})

	var padding int

	if typ == cas.TypeCustom {
		padding, err = tape.AppendCustom(data)

	} else {
		var name cas.Name
		var truncated bool
		if name, truncated, err = cas.NameFromPath(file); err != nil {
			return err
		}
		if truncated {
			logger.Warnf("file name truncated to '%s'", name)
		}

		switch typ {
		case cas.TypeBin:
			padding, err = tape.AppendBin(name, data)
		case cas.TypeBasic:
			padding, err = tape.AppendBasic(name, data)
		case cas.TypeASCII:
			padding, err = tape.AppendASCII(name, data)
		}
	}

	if err != nil {
		return err
	}

	if padding > 0 {
		logger.Warnf("%d bytes of padding added", padding)
	}
	logger.Info("file added")

	return nil
}
