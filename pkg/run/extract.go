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
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/caspack/pkg/cas"
	"github.com/xelalexv/caspack/pkg/format"
	"github.com/xelalexv/caspack/pkg/util"
)

//
func NewExtract() *Extract {

	e := &Extract{}
	e.Runner = *NewRunner(
		"extract -i|--input {tape} [-o|--output {dir}]",
		"extract files from a tape",
		`
Use the extract command to write all files on a tape to a directory. Binary
files are written in BLOAD format, ASCII files without their EOF filler. Blocks
not belonging to any named file are written as custom.001, custom.002, etc.
Existing files are not overwritten, a numeric suffix is added instead.`,
		"", runnerHelpEpilogue, e.Run)

	e.AddBaseSettings()
	e.AddSetting(&e.Input, "input", "i", "", nil, "tape file", true)
	e.AddSetting(&e.Output, "output", "o", "", ".", "output directory", false)

	return e
}

//
type Extract struct {
	Runner
	//
	Input  string
	Output string
}

//
func (e *Extract) Run() error {

	if err := e.ParseSettings(); err != nil {
		return err
	}

	tape, err := format.LoadTape(e.Input)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.Output, 0755); err != nil {
		return err
	}

	_, err = ExtractFiles(tape, e.Output)
	return err
}

// ExtractFiles writes all files on tape into dir, and returns the paths of the
// written files.
func ExtractFiles(tape *cas.Tape, dir string) ([]string, error) {

	var ret []string
	custom := 0

	rd := tape.Files()
	for rd.Next() {

		f := rd.File()

		var name string
		if f.Type() == cas.TypeCustom {
			custom++
			name = fmt.Sprintf("custom.%03d", custom)
		} else {
			name = OutputName(f)
		}

		path, renamed, err := util.UniqueFilename(filepath.Join(dir, name))
		if err != nil {
			return ret, err
		}

		logger := log.WithFields(log.Fields{"file": path, "type": f.Type()})
		if renamed {
			logger.Warnf("'%s' already exists", name)
		}

		if err := util.WriteFileAtomic(path, f.Extract()); err != nil {
			return ret, err
		}

		logger.Info("file extracted")
		ret = append(ret, path)
	}

	return ret, rd.Err()
}

// OutputName returns the file name used when extracting named file f.
func OutputName(f cas.File) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < ' ' {
			return '_'
		}
		return r
	}, cas.FileName(f))
	if name == "" || name == "." || name == ".." {
		name = "noname"
	}
	return name + f.Type().Extension()
}
