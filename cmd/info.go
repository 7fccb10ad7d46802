package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <midi-file>",
	Short: "Shows MIDI channel information",
	Long:  `Shows MIDI channel information`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		channels, err := Info(args[0], cfg)
		if err != nil {
			log.Fatalf("could not read %v: %v", args[0], err)
		}

		fmt.Println("MIDI Channel Information:")
		fmt.Println("------------------------")
		for _, ch := range channels {
			drum := ""
			if ch.IsDrum {
				drum = "[DRUMS] "
			}
			fmt.Printf("Channel %v: %v%v\n", ch.Id, drum, ch.Instrument)
		}
	},
}
