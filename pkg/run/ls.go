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
	"path/filepath"

	"github.com/xelalexv/caspack/pkg/cas"
	"github.com/xelalexv/caspack/pkg/control"
	"github.com/xelalexv/caspack/pkg/format"
)

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"ls -i|--input {tape} [-b|--blocks]",
		"list files on a tape",
		`
Use the ls command to list the files on a tape. The tape may be gzip, zip, or
7z compressed.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Input, "input", "i", "", nil, "tape file", true)
	l.AddSetting(&l.Blocks, "blocks", "b", "", false,
		"also list blocks with their offsets", false)

	return l
}

//
type List struct {
	Runner
	//
	Input  string
	Blocks bool
}

//
func (l *List) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}

	tape, err := format.LoadTape(l.Input)
	if err != nil {
		return err
	}

	ls, err := control.NewListing(filepath.Base(l.Input), tape)
	if err != nil {
		return err
	}

	control.WriteFileList(os.Stdout, ls)

	if l.Blocks {
		writeBlockList(tape)
	}

	return nil
}

//
func writeBlockList(t *cas.Tape) {
	offsets := t.Offsets()
	for ix, b := range t.Blocks() {
		kind := "data"
		if b.IsFileHeader() {
			kind = fmt.Sprintf("header (%s)", b.HeaderType())
		}
		fmt.Printf("%4d  %08x  %6d  %s\n", ix, offsets[ix], len(b.Data()), kind)
	}
	fmt.Println()
}
