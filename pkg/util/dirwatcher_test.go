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
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

//
func TestDirWatcher(t *testing.T) {

	dir := t.TempDir()

	dw, err := NewDirWatcher(dir, func(path string) bool {
		return strings.HasSuffix(path, ".cas")
	})
	if err != nil {
		t.Fatalf("NewDirWatcher() error = %v", err)
	}

	events := make(chan string, 16)
	flushed := make(chan bool, 16)

	if err := dw.Start(50*time.Millisecond,
		func(evt fsnotify.Event) error {
			events <- filepath.Base(evt.Name)
			return nil
		},
		func() error {
			flushed <- true
			return nil
		}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer dw.Stop()

	if err := dw.Start(time.Second, nil, nil); err == nil {
		t.Error("second Start() succeeded")
	}

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// give the watcher a moment to pick up the new directory
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "ignored.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "tape.cas"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-events:
		if name != "tape.cas" {
			t.Errorf("event for %q, want tape.cas", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event for new tape")
	}

	select {
	case <-flushed:
	case <-time.After(5 * time.Second):
		t.Fatal("no flush after event")
	}
}

//
func TestDirWatcherStopped(t *testing.T) {
	dw, err := NewDirWatcher(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	dw.Stop()
	dw.Stop()
	if err := dw.Start(time.Second, nil, nil); err == nil {
		t.Error("Start() on stopped watcher succeeded")
	}
}

//
func TestNewDirWatcherMissingDir(t *testing.T) {
	if _, err := NewDirWatcher(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("NewDirWatcher() accepted missing directory")
	}
}
