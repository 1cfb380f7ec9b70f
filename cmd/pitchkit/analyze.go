package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soniclab/pitchkit/algorithms/notes"
	"github.com/soniclab/pitchkit/pitch"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze raw float32 mono PCM from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntP("sample-rate", "r", 0, "sample rate in Hz (overrides config)")
	analyzeCmd.Flags().IntP("frame-size", "n", 0, "frame size in samples (overrides config)")
	analyzeCmd.Flags().StringP("expected", "e", "", "expected pitch (note name like A4, or Hz)")
	analyzeCmd.Flags().Bool("no-smoothing", false, "disable median/EMA smoothing")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sampleRate := viper.GetFloat64("sample_rate")
	if r, _ := cmd.Flags().GetInt("sample-rate"); r > 0 {
		sampleRate = float64(r)
	}

	overrides := overridesFromSettings()
	if n, _ := cmd.Flags().GetInt("frame-size"); n > 0 {
		overrides.FrameSize = pitch.Int(n)
	}

	engine, err := pitch.NewEngine(sampleRate, overrides)
	if err != nil {
		return err
	}

	opts := pitch.Options{}
	if expected, _ := cmd.Flags().GetString("expected"); expected != "" {
		opts.Expected = notes.RefName(expected)
	}
	if noSmooth, _ := cmd.Flags().GetBool("no-smoothing"); noSmooth {
		opts.Smoothing = pitch.Bool(false)
	}

	samples, err := readPCM(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	results, err := engine.ProcessAll(samples, opts)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for i, r := range results {
		printResult(out, i, r)
	}
	return nil
}

// overridesFromSettings maps the resolved viper settings onto an engine
// config overlay.
func overridesFromSettings() pitch.Partial {
	return pitch.Partial{
		FrameSize:              pitch.Int(viper.GetInt("frame_size")),
		HighPassCutoffHz:       pitch.Float(viper.GetFloat64("high_pass_cutoff")),
		LowPassCutoffHz:        pitch.Float(viper.GetFloat64("low_pass_cutoff")),
		NoiseGateEnabled:       pitch.Bool(viper.GetBool("noise_gate")),
		NoiseGateThresholdRMS:  pitch.Float(viper.GetFloat64("gate_threshold")),
		NormalizationEnabled:   pitch.Bool(viper.GetBool("normalization")),
		NormalizationTargetRMS: pitch.Float(viper.GetFloat64("target_rms")),
		YinThreshold:           pitch.Float(viper.GetFloat64("yin_threshold")),
		MedianWindowSize:       pitch.Int(viper.GetInt("median_window")),
		MovingAverageAlpha:     pitch.Float(viper.GetFloat64("moving_average_alpha")),
	}
}

// readPCM reads interleaved little-endian float32 mono samples until
// EOF.
func readPCM(r io.Reader) ([]float64, error) {
	br := bufio.NewReader(r)
	samples := make([]float64, 0, 1<<16)
	var buf [4]byte
	for {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return samples, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				// Trailing partial sample; ignore it.
				return samples, nil
			}
			return nil, err
		}
		bits := binary.LittleEndian.Uint32(buf[:])
		samples = append(samples, float64(math.Float32frombits(bits)))
	}
}

func printResult(w io.Writer, frame int, r pitch.Result) {
	if !r.Voiced {
		fmt.Fprintf(w, "frame %4d  --        rms %.4f\n", frame, r.FrameRMS)
		return
	}
	line := fmt.Sprintf("frame %4d  %8.2f Hz  %-4s conf %.2f  rms %.4f",
		frame, r.Frequency, r.Note, r.Confidence, r.FrameRMS)
	if r.Deviation != "" {
		line += "  " + r.Deviation
	} else if r.Expected != "" {
		line += "  expected " + r.Expected + " (unresolved)"
	}
	fmt.Fprintln(w, line)
}
