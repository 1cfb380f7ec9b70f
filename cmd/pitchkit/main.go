// Command pitchkit is a batch pitch analyzer. It reads raw mono
// float32 little-endian PCM from a file or stdin, runs each frame
// through the analysis engine, and prints one line per frame.
//
// Audio capture, WAV decoding, and interactive UI are out of scope
// here; upstream tooling is expected to hand this command raw samples.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soniclab/pitchkit/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pitchkit",
	Short: "Frame-based pitch analysis for mono audio",
	Long: `pitchkit estimates the fundamental frequency of mono audio frame by
frame using the YIN algorithm, and reports frequency, confidence, note
name and optional deviation from an expected pitch.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default ./pitchkit.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	rootCmd.AddCommand(analyzeCmd)
}

// initConfig seeds viper with defaults and reads an optional YAML
// config file. The analysis core never reads configuration itself; a
// resolved value set is handed to it explicitly.
func initConfig() {
	viper.SetDefault("sample_rate", 44100)
	viper.SetDefault("frame_size", 2048)
	viper.SetDefault("high_pass_cutoff", 60.0)
	viper.SetDefault("low_pass_cutoff", 0.0)
	viper.SetDefault("noise_gate", true)
	viper.SetDefault("gate_threshold", 0.01)
	viper.SetDefault("normalization", true)
	viper.SetDefault("target_rms", 0.15)
	viper.SetDefault("yin_threshold", 0.10)
	viper.SetDefault("median_window", 5)
	viper.SetDefault("moving_average_alpha", 0.25)

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pitchkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and flags apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
	}

	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
		logging.SetLevel(logging.DebugLevel)
	}
}
