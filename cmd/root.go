package main

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "kairos",
	Short: "event-time windowed aggregation pipeline",
}
