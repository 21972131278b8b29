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
	"errors"
	"testing"
)

//
func TestNewName(t *testing.T) {

	tests := []struct {
		in        string
		want      string
		truncated bool
	}{
		{"foo", "foo   ", false},
		{"foobar", "foobar", false},
		{"guybrush", "guybru", true},
		{"", "      ", false},
	}

	for _, tc := range tests {
		n, truncated := NewName(tc.in)
		if n.String() != tc.want {
			t.Errorf("NewName(%q) = %q, want %q", tc.in, n.String(), tc.want)
		}
		if truncated != tc.truncated {
			t.Errorf("NewName(%q) truncated = %v, want %v",
				tc.in, truncated, tc.truncated)
		}
	}
}

//
func TestNameFromPath(t *testing.T) {

	tests := []struct {
		path      string
		want      string
		truncated bool
	}{
		{"foo", "foo   ", false},
		{"foo.bin", "foo   ", false},
		{"../foo.asc", "foo   ", false},
		{"/path/to/foobar", "foobar", false},
		{"/path/to/guybrush.bas", "guybru", true},
	}

	for _, tc := range tests {
		n, truncated, err := NameFromPath(tc.path)
		if err != nil {
			t.Fatalf("NameFromPath(%q) error = %v", tc.path, err)
		}
		if n.String() != tc.want || truncated != tc.truncated {
			t.Errorf("NameFromPath(%q) = %q, %v, want %q, %v",
				tc.path, n.String(), truncated, tc.want, tc.truncated)
		}
	}
}

//
func TestNameFromPathInvalid(t *testing.T) {
	for _, p := range []string{".", "..", "./", "../", "/.", "/..", "",
		"/", "dir/.hidden", "bad\xff.bin"} {
		if _, _, err := NameFromPath(p); !errors.Is(err, ErrInvalidName) {
			t.Errorf("NameFromPath(%q) error = %v, want ErrInvalidName", p, err)
		}
	}
}
