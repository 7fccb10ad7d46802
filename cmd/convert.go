package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	convertSoundfonts []string
	convertOut        string
)

func init() {
	convertCmd.Flags().StringSliceVarP(&convertSoundfonts, "soundfonts", "s", nil,
		"soundfont files in MIDI channel order, \"-\" to skip a channel")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "write the formula to a file instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <midi-file>",
	Short: "Converts a MIDI file to a piecewise formula",
	Long:  `Converts a MIDI file to a piecewise formula`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, err := Convert(args[0], convertSoundfonts, cfg)
		if err != nil {
			log.Fatalf("conversion failed: %v", err)
		}
		writeOutput(convertOut, out)
	},
}

// writeOutput prints to stdout, or to a file when a path is given.
func writeOutput(path, content string) {
	if path == "" {
		fmt.Println(content)
		return
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
		log.Fatalf("writing %v: %v", path, err)
	}
}
