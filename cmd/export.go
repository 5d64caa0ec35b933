package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/engine"
	"github.com/dendro-dev/dendro/internal/export"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/store"
)

var (
	exportFormat   string
	exportOutput   string
	exportWeeks    int
	exportFrom     string
	exportTo       string
	exportNoFiles  bool
	exportNoCommit bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your growth profile (json, markdown, svg, badge)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore()
		if err != nil {
			return err
		}
		profileJSON, err := st.LoadProfile()
		if err != nil {
			if errors.Is(err, store.ErrNoProfile) {
				return fmt.Errorf("no profile yet (finish a session with 'dendro stop' first)")
			}
			return err
		}

		format := export.Format(exportFormat)
		if exportFormat == "" {
			format = export.Format(cfg.DefaultFormat)
		}

		opts := export.DefaultOptions()
		opts.Format = format
		opts.IncludeCommits = !exportNoCommit
		opts.IncludeFiles = !exportNoFiles
		if exportFrom != "" || exportTo != "" {
			rng, err := parseDateRange(exportFrom, exportTo)
			if err != nil {
				return err
			}
			opts.DateRange = rng
		}
		optsJSON, err := json.Marshal(opts)
		if err != nil {
			return err
		}

		weeks := exportWeeks
		if weeks == 0 {
			weeks = cfg.HeatmapWeeks
		}

		eng := engine.New()
		var content, ext string
		switch format {
		case export.FormatJSON:
			content, err = eng.ExportJSON(profileJSON, string(optsJSON))
			ext = ".json"
		case export.FormatMarkdown:
			content, err = eng.ExportMarkdown(profileJSON, string(optsJSON))
			ext = ".md"
		case export.FormatSVGHeatmap:
			content, err = eng.ExportHeatmapSVG(profileJSON, weeks)
			ext = ".svg"
		case export.FormatBadgeSVG:
			content, err = eng.GenerateBadgeSVG(profileJSON)
			ext = ".svg"
		case export.FormatBadgeURL:
			url, err := eng.GenerateBadgeURL(profileJSON)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		default:
			return fmt.Errorf("unknown format %q (json, markdown, svg_heatmap, badge_svg, badge_url)", format)
		}
		if err != nil {
			return err
		}

		if exportOutput == "-" {
			fmt.Print(content)
			return nil
		}

		outputPath := exportOutput
		if outputPath == "" {
			outputDir := cfg.OutputDir
			if outputDir == "" {
				outputDir = "."
			}
			name := "dendro-" + time.Now().UTC().Format("2006-01-02") + ext
			outputPath = filepath.Join(outputDir, name)
		}
		if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		fmt.Printf("Exported to %s\n", outputPath)
		return nil
	},
}

// parseDateRange builds an inclusive range from YYYY-MM-DD bounds. A
// missing bound is left open by substituting the far past or today.
func parseDateRange(from, to string) (*export.DateRange, error) {
	rng := &export.DateRange{
		Start: time.Unix(0, 0).UTC(),
		End:   time.Now().UTC(),
	}
	if from != "" {
		d, err := profile.ParseDate(from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date: %w", err)
		}
		rng.Start = d.Time()
	}
	if to != "" {
		d, err := profile.ParseDate(to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date: %w", err)
		}
		rng.End = d.Time().Add(24*time.Hour - time.Nanosecond)
	}
	return rng, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json, markdown, svg_heatmap, badge_svg, or badge_url (overrides config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file ('-' for stdout)")
	exportCmd.Flags().IntVar(&exportWeeks, "weeks", 0, "heatmap window in weeks (overrides config)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "include activity on or after this date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "include activity on or before this date (YYYY-MM-DD)")
	exportCmd.Flags().BoolVar(&exportNoCommit, "no-commits", false, "omit commit details from the export")
	exportCmd.Flags().BoolVar(&exportNoFiles, "no-files", false, "omit edited file lists from the export")
	rootCmd.AddCommand(exportCmd)
}
