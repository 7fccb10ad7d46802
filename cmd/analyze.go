package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"midigraph/audio"
	"midigraph/soundfont"
)

var (
	analyzeParams audio.Params
	analyzeOut    string
)

func init() {
	defaults := audio.DefaultParams()
	analyzeCmd.Flags().IntVar(&analyzeParams.Samples, "samples", defaults.Samples,
		"FFT window length, a power of two")
	analyzeCmd.Flags().Float64Var(&analyzeParams.StartTime, "start-time", defaults.StartTime,
		"position in the recording to begin analysis, seconds")
	analyzeCmd.Flags().Float64Var(&analyzeParams.BaseFreq, "base-freq", defaults.BaseFreq,
		"fundamental frequency to analyze, Hz")
	analyzeCmd.Flags().IntVar(&analyzeParams.Harmonics, "harmonics", defaults.Harmonics,
		"number of harmonics to extract")
	analyzeCmd.Flags().Float64Var(&analyzeParams.Boost, "boost", defaults.Boost,
		"amplification factor for the weights")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write the soundfont to a file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <wav-file>",
	Short: "Extracts a soundfont from a WAV recording",
	Long:  `Extracts a soundfont from a WAV recording`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := audio.DecodeWavFile(args[0])
		if err != nil {
			log.Fatalf("could not read %v: %v", args[0], err)
		}
		weights, err := audio.Analyze(data, analyzeParams, cfg.Server.Limits)
		if err != nil {
			log.Fatalf("analysis failed: %v", err)
		}
		writeOutput(analyzeOut, soundfont.Format(weights))
	},
}
