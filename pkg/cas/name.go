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

package cas

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Name is a file name as stored in a file header: six bytes, padded with
// spaces.
type Name [NameLength]byte

// NewName creates a name from s. Names longer than six bytes are truncated,
// which is signaled by the returned flag.
func NewName(s string) (Name, bool) {
	var n Name
	for ix := range n {
		n[ix] = ' '
	}
	copy(n[:], s)
	return n, len(s) > NameLength
}

// NameFromPath derives a name from the stem of the given file path, i.e. the
// base name without extension.
func NameFromPath(path string) (Name, bool, error) {

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if stem == "" || stem == "." || stem == ".." || stem == string(filepath.Separator) ||
		!utf8.ValidString(stem) {
		return Name{}, false, fmt.Errorf("%w: no usable file name in '%s'",
			ErrInvalidName, path)
	}

	n, truncated := NewName(stem)
	return n, truncated, nil
}

//
func (n Name) String() string {
	return string(n[:])
}
