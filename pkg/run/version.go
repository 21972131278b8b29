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

	"github.com/xelalexv/caspack/pkg/util"
)

//
func NewVersion() *Version {
	v := &Version{}
	v.Runner = *NewRunner("version", "show version info", "", "", "", v.Run)
	v.AddBaseSettings()
	return v
}

//
type Version struct {
	Runner
}

//
func (v *Version) Run() error {
	PrintVersion()
	return nil
}

//
func PrintVersion() {
	fmt.Printf(`
   ____          ____            _
  / ___|__ _ ___|  _ \ __ _  ___| | __
 | |   / _' / __| |_) / _' |/ __| |/ /
 | |__| (_| \__ \  __/ (_| | (__|   <
  \____\__,_|___/_|   \__,_|\___|_|\_\

 MSX cassette image packager

caspack:    %s

`, util.CasPackVersion)
}
