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
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

/*
	NewDirWatcher creates a recursive watcher for the directory tree rooted in
	dir. Directories created later on are added to the watch. Events for files
	are only passed on if accept returns true for the file path; a nil accept
	passes on everything. The watcher does not start until Start is called.
*/
func NewDirWatcher(dir string, accept func(path string) bool) (*DirWatcher, error) {

	ret := &DirWatcher{
		accept:  accept,
		release: make(chan bool),
		dirs:    make(map[string]bool),
	}

	var err error
	if ret.watcher, err = fsnotify.NewWatcher(); err != nil {
		return nil, err
	}

	if err := filepath.Walk(dir, ret.addDirWalking); err != nil {
		log.Errorf("error walking directory '%s': %v", dir, err)
		ret.watcher.Close()
		return nil, err
	}

	return ret, nil
}

//
type DirWatcher struct {
	watcher *fsnotify.Watcher
	accept  func(path string) bool
	release chan bool
	dirs    map[string]bool
	running bool
	mutex   sync.Mutex
}

/*
	Start starts this watcher. For every accepted change in the watched tree,
	handler is called. After each handled change, a timer is set to backoff. If
	no further change occurs until the timer expires, flush is called. Handler
	and flush are always called from the same go routine.
*/
func (dw *DirWatcher) Start(backoff time.Duration,
	handler func(fsnotify.Event) error, flush func() error) error {

	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	if dw.watcher == nil {
		return fmt.Errorf("directory watcher not initialized or stopped")
	}

	if dw.running {
		return fmt.Errorf("directory watcher already started")
	}

	dw.running = true
	events := dw.watcher.Events
	errs := dw.watcher.Errors

	go func() {

		timer := time.NewTimer(backoff)
		timer.Stop()
		pending := false

		for {
			select {

			case evt, ok := <-events:

				if !ok {
					log.Debug("directory watcher routine exiting")
					dw.release <- true
					return
				}

				if !dw.handleEvent(evt) {
					continue
				}

				timer.Stop()
				if err := handler(evt); err != nil {
					log.Errorf("error in watch event handler: %v", err)
				}
				timer.Reset(backoff)
				pending = true

			case err, ok := <-errs:
				if ok {
					log.Errorf("directory watcher error: %v", err)
				}

			case <-timer.C:
				if pending {
					pending = false
					if err := flush(); err != nil {
						log.Errorf("error flushing: %v", err)
					}
				}
			}
		}
	}()

	return nil
}

/*
	Stop stops this watcher and waits until its go routine has exited. A stopped
	watcher cannot be started again.
*/
func (dw *DirWatcher) Stop() {

	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	if dw.watcher == nil {
		return
	}

	log.Info("closing directory watcher")
	if err := dw.watcher.Close(); err != nil {
		log.Errorf("could not close file watcher: %v", err)
	}

	if dw.running {
		<-dw.release
		dw.running = false
	}
	dw.watcher = nil
}

// handleEvent keeps the set of watched directories current, and returns
// whether the event should be passed on to the handler.
func (dw *DirWatcher) handleEvent(evt fsnotify.Event) bool {

	log.WithFields(
		log.Fields{"path": evt.Name, "op": evt.Op}).Trace("directory event")

	if dw.dirs[evt.Name] {
		if evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			dw.removeDir(evt.Name)
		}
		return false
	}

	if evt.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(evt.Name); err == nil && info.IsDir() {
			dw.addDir(evt.Name, info)
			return false
		}
	}

	return dw.accept == nil || dw.accept(evt.Name)
}

//
func (dw *DirWatcher) addDirWalking(
	path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	return dw.addDir(path, info)
}

//
func (dw *DirWatcher) addDir(path string, info os.FileInfo) error {

	if !info.IsDir() {
		return nil
	}

	if err := dw.watcher.Add(path); err != nil {
		log.Errorf("error adding watch for directory '%s': %v", path, err)
		return err
	}

	dw.dirs[path] = true
	log.WithField("path", path).Debug("starting directory watch")
	return nil
}

//
func (dw *DirWatcher) removeDir(path string) {
	delete(dw.dirs, path)
	// the watch may already be gone together with the directory
	if err := dw.watcher.Remove(path); err != nil {
		log.WithField("path", path).Debugf("removing directory watch: %v", err)
	}
	log.WithField("path", path).Debug("stopping directory watch")
}
