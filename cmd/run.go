package main

import (
	_c "context"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"kairos/engine"
)

func init() {
	Command.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "run a pipeline",
		Long:  `config source operator sink, run the pipeline until a signal or the sources finish`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				panic("config file can't be nil")
			}
			configFilePath := args[0]
			base := path.Base(configFilePath)
			ext := path.Ext(configFilePath)
			e := engine.New(_c.Background(), strings.TrimSuffix(base, ext), ext[1:], path.Dir(configFilePath))
			e.Run()
		},
	})
}
