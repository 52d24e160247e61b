package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gridmatch/internal/common"
	"github.com/MeKo-Tech/gridmatch/internal/match"
	"github.com/MeKo-Tech/gridmatch/internal/overlay"
	"github.com/MeKo-Tech/gridmatch/internal/pruner"
	"github.com/MeKo-Tech/gridmatch/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// filterResult is the JSON document written by the filter command.
type filterResult struct {
	Method  string        `json:"method"`
	Total   int           `json:"total"`
	Kept    int           `json:"kept"`
	Mask    []bool        `json:"mask"`
	Matches []match.Match `json:"matches"`
}

// filterCmd represents the filter command.
var filterCmd = &cobra.Command{
	Use:   "filter <matches.json>",
	Short: "Filter putative feature matches",
	Long: `Filter a set of putative feature matches, keeping the geometrically
coherent ones and rejecting the spurious ones.

The input is a JSON match set holding the two keypoint lists, their image
sizes, and either single best matches (for the gms method) or k-NN
candidate lists (for the ratio method).

Examples:
  gridmatch filter matches.json
  gridmatch filter matches.json --method ratio --ratio 0.75
  gridmatch filter matches.json --with-scale --with-rotation --format json
  gridmatch filter matches.json --overlay out.png --query-image a.jpg --train-image b.jpg`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input file provided")
		}
		if len(args) > 1 {
			return fmt.Errorf("expected one input file, got %d", len(args))
		}

		// Get configuration (includes CLI flags, config file, env vars, and defaults)
		cfg := GetConfig()

		format := cfg.Output.Format
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be text or json)", format)
		}

		pruneCfg, err := cfg.PrunerSettings()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("method") {
			name, _ := cmd.Flags().GetString("method")
			method, err := pruner.ParseMethod(name)
			if err != nil {
				return err
			}
			pruneCfg.Method = method
		}
		if err := pruneCfg.GMS.Validate(); err != nil {
			return err
		}

		set, err := match.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading matches: %w", err)
		}

		timer := common.NewNamedTimer("filter")
		result, err := pruner.Prune(set, pruneCfg)
		if err != nil {
			return err
		}
		elapsed := timer.Stop()

		res := filterResult{
			Method:  string(pruneCfg.Method),
			Total:   len(result.Mask),
			Kept:    result.Inliers,
			Mask:    result.Mask,
			Matches: result.Matches,
		}

		if err := writeFilterResult(cmd, cfg.Output.File, format, res, elapsed.String()); err != nil {
			return err
		}

		if cfg.Output.OverlayPath != "" {
			if err := writeOverlay(cmd, cfg.Output.OverlayPath, cfg.Output.OverlayMaxWidth, set, result.Matches); err != nil {
				return err
			}
		}
		return nil
	},
}

// writeFilterResult renders the result as text or JSON, to stdout or a file.
func writeFilterResult(cmd *cobra.Command, outputFile, format string, res filterResult, elapsed string) error {
	var payload []byte
	switch format {
	case outputFormatJSON:
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		payload = append(b, '\n')
	default:
		payload = []byte(fmt.Sprintf("%s: kept %d of %d matches in %s\n",
			res.Method, res.Kept, res.Total, elapsed))
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, payload, 0o600); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		return nil
	}
	_, err := cmd.OutOrStdout().Write(payload)
	return err
}

// writeOverlay renders the kept matches over the two source images.
func writeOverlay(cmd *cobra.Command, path string, maxWidth int, set *match.MatchSet, kept []match.Match) error {
	queryPath, _ := cmd.Flags().GetString("query-image")
	trainPath, _ := cmd.Flags().GetString("train-image")
	if queryPath == "" || trainPath == "" {
		return errors.New("overlay output requires --query-image and --train-image")
	}

	queryImg, _, err := utils.LoadImage(queryPath)
	if err != nil {
		return fmt.Errorf("loading query image: %w", err)
	}
	trainImg, _, err := utils.LoadImage(trainPath)
	if err != nil {
		return fmt.Errorf("loading train image: %w", err)
	}

	opts := overlay.DefaultOptions()
	if maxWidth > 0 {
		opts.MaxWidth = maxWidth
	}
	img, err := overlay.Render(queryImg, trainImg, set, kept, opts)
	if err != nil {
		return fmt.Errorf("rendering overlay: %w", err)
	}
	if err := overlay.Save(path, img); err != nil {
		return fmt.Errorf("saving overlay: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().String("method", "gms", "pruning method (gms, ratio)")
	filterCmd.Flags().Float64("ratio", 0.8, "ratio test threshold")
	filterCmd.Flags().Int("grid-width", 15, "grid cells along image width")
	filterCmd.Flags().Int("grid-height", 15, "grid cells along image height")
	filterCmd.Flags().Float64("alpha", 6.0, "verification threshold factor")
	filterCmd.Flags().Bool("with-scale", false, "search over relative scale")
	filterCmd.Flags().Bool("with-rotation", false, "search over relative rotation")
	filterCmd.Flags().Int("workers", 1, "parallel verification workers (0 = all CPUs)")
	filterCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	filterCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	filterCmd.Flags().String("overlay", "", "write a match overlay image to this path")
	filterCmd.Flags().String("query-image", "", "query image for overlay rendering")
	filterCmd.Flags().String("train-image", "", "train image for overlay rendering")
	filterCmd.Flags().Int("overlay-max-width", 0, "downscale the overlay to at most this width")

	// Bind flags to viper
	_ = viper.BindPFlag("pruner.method", filterCmd.Flags().Lookup("method"))
	_ = viper.BindPFlag("pruner.ratio", filterCmd.Flags().Lookup("ratio"))
	_ = viper.BindPFlag("engine.grid_width", filterCmd.Flags().Lookup("grid-width"))
	_ = viper.BindPFlag("engine.grid_height", filterCmd.Flags().Lookup("grid-height"))
	_ = viper.BindPFlag("engine.alpha", filterCmd.Flags().Lookup("alpha"))
	_ = viper.BindPFlag("engine.with_scale", filterCmd.Flags().Lookup("with-scale"))
	_ = viper.BindPFlag("engine.with_rotation", filterCmd.Flags().Lookup("with-rotation"))
	_ = viper.BindPFlag("engine.workers", filterCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("output.format", filterCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", filterCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.overlay_path", filterCmd.Flags().Lookup("overlay"))
	_ = viper.BindPFlag("output.overlay_max_width", filterCmd.Flags().Lookup("overlay-max-width"))
}
