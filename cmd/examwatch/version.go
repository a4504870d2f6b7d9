package main

import (
	"encoding/json"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := json.MarshalIndent(version.GetInfo(), "", "  ")
		fmt.Println(string(out))
	},
}
