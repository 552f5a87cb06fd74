package main

import (
	"fmt"
	"strings"

	"github.com/richinsley/glpipeline/configuration"
	"github.com/richinsley/glpipeline/modes"
	"github.com/spf13/cobra"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the available pipelines and shader programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := configuration.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("modes:    %s\n", strings.Join(modes.Names(), ", "))
		fmt.Printf("programs: %s\n", strings.Join(cfg.ProgramNames(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
	modesCmd.Flags().String("config", "", "Path to a YAML configuration file")
}
