package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "glpipeline",
	Short: "glpipeline renders simple primitives through a pipeline of stages",
	Long: `glpipeline opens an OpenGL window and runs a fixed pipeline of stages every frame:
a transform stage driven by the keyboard followed by a drawing stage.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
