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

package repo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// NewFileSource opens the tape at ref, a path relative to the repository
// directory repo. References leaving the repository are rejected.
func NewFileSource(ref, repo string) (*FileSource, error) {

	root, err := filepath.Abs(repo)
	if err != nil {
		return nil, err
	}

	file := filepath.Join(root, filepath.Clean(string(filepath.Separator)+ref))
	if !strings.HasPrefix(file, root+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid reference: %s", ref)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	return &FileSource{file: f, reader: bufio.NewReader(f)}, nil
}

//
type FileSource struct {
	file   *os.File
	reader io.Reader
}

//
func (fs *FileSource) Read(p []byte) (n int, err error) {
	return fs.reader.Read(p)
}

//
func (fs *FileSource) Close() error {
	return fs.file.Close()
}
