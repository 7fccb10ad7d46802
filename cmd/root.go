package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"midigraph/config"
)

var (
	cfgPath string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "midigraph",
	Short: "MIDI and WAV to graph formulas",
	Long: `Converts MIDI performances into piecewise graph formulas and
extracts harmonic soundfonts from WAV recordings.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c, err := config.Load(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a config.yaml")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
