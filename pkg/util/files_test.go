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
	"os"
	"path/filepath"
	"testing"
)

//
func TestTempName(t *testing.T) {

	tests := map[string]string{
		"foobar":              "foobar.temp",
		"foobar.cas":          "foobar.cas.temp",
		"/path/to/foobar.cas": "/path/to/foobar.cas.temp",
	}

	for in, want := range tests {
		got, err := TempName(in)
		if err != nil {
			t.Fatalf("TempName(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("TempName(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := TempName("/path/to/"); err == nil {
		t.Error("TempName() accepted directory path")
	}
}

//
func TestWriteFileAtomic(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "write_and_read")

	for _, content := range []string{"Hello World!", "bye"} {
		if err := WriteFileAtomic(path, []byte(content)); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != content {
			t.Errorf("content = %q, want %q", got, content)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

//
func TestUniqueFilename(t *testing.T) {

	dir := t.TempDir()
	touch := func(name string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	check := func(path, want string, clash bool) {
		t.Helper()
		got, c, err := UniqueFilename(path)
		if err != nil {
			t.Fatalf("UniqueFilename(%q) error = %v", path, err)
		}
		if got != want || c != clash {
			t.Errorf("UniqueFilename(%q) = %q, %v, want %q, %v",
				path, got, c, want, clash)
		}
	}

	free := filepath.Join(dir, "foobar")
	check(free, free, false)

	check(touch("foobar"), filepath.Join(dir, "foobar-1"), true)

	bin := touch("foobar.bin")
	check(bin, filepath.Join(dir, "foobar-1.bin"), true)

	touch("foobar-1.bin")
	check(bin, filepath.Join(dir, "foobar-2.bin"), true)
}
