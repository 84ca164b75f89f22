package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kairos"
	"kairos/registry"
)

func init() {
	Command.AddCommand(&cobra.Command{
		Use:   "component",
		Short: "list kairos source operator sink.",
		Long:  `list kairos source operator sink.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				panic("inventory type can't be nil.")
			}
			var defs map[string]kairos.PropertyDef

			switch args[0] {
			case "source":
				defs = registry.ListSourceDef()
			case "operator":
				defs = registry.ListOperatorDef()
			case "sink":
				defs = registry.ListSinkDef()
			default:
				panic("unknown component type.")
			}

			for name, def := range defs {
				fmt.Printf("%s %s:\n%s\n", name, args[0], def.Render())
			}
		}})
}
