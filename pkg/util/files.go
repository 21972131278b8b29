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

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// TempName returns the name of the temporary file used while writing path.
func TempName(path string) (string, error) {
	dir, file := filepath.Split(path)
	if file == "" || file == "." || file == ".." {
		return "", fmt.Errorf("no temporary available for path '%s'", path)
	}
	return filepath.Join(dir, file+".temp"), nil
}

// WriteFileAtomic writes data to a temporary file next to path, and then
// renames it to path, replacing any existing file.
func WriteFileAtomic(path string, data []byte) error {

	tmp, err := TempName(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	log.WithFields(log.Fields{"file": path, "size": len(data)}).Debug("file written")
	return nil
}

// UniqueFilename returns path if no file exists there. Otherwise, a numeric
// suffix is added to the file stem, e.g. `foo-1.bin`, `foo-2.bin`, until a free
// name is found. The flag tells whether the name had to be changed.
func UniqueFilename(path string) (string, bool, error) {

	if !exists(path) {
		return path, false, nil
	}

	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if stem == "" {
		return "", false, fmt.Errorf("cannot extract file stem from '%s'", path)
	}

	for suffix := 1; ; suffix++ {
		alt := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, suffix, ext))
		if !exists(alt) {
			return alt, true, nil
		}
	}
}

//
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
