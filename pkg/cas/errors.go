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

import "errors"

var (
	// ErrMalformed is returned when the framing of a container is broken,
	// e.g. a file header without data block.
	ErrMalformed = errors.New("malformed container")
	// ErrInvalidName is returned when no tape file name can be derived
	ErrInvalidName = errors.New("invalid file name")
	// ErrInvalidData is returned for file content that cannot be stored as the
	// requested file type
	ErrInvalidData = errors.New("invalid file data")
)
