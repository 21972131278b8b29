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

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelalexv/caspack/pkg/run"
)

//
func main() {

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	root := &cobra.Command{
		Use:   "caspack",
		Short: "MSX cassette image packager",
		Long: `
caspack creates, lists, and extracts MSX cassette images (.cas), and exports
them as WAVE audio for loading into a real machine.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		run.NewList().Cobra(),
		run.NewAdd().Cobra(),
		run.NewExtract().Cobra(),
		run.NewExport().Cobra(),
		run.NewSearch().Cobra(),
		run.NewServe().Cobra(),
		run.NewVersion().Cobra(),
	)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
