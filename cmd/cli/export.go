package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"entrolab/adapters/export"
	"entrolab/app"
	"entrolab/domain/core"
)

func newExportCmd() *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collected artifacts to an xlsx summary workbook",
		Long: `Assemble one workbook sheet per exportable artifact: the sweep
tables, the annual panels, the download share table, the bootstrap
intervals and the co-tag comparison. Artifacts missing from --out are
skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), xlsxPath)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Workbook path (default <out>/summary.xlsx)")

	return cmd
}

func runExport(ctx context.Context, xlsxPath string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if xlsxPath == "" {
		xlsxPath = filepath.Join(store.Dir(), "summary.xlsx")
	}

	var sheets []export.Sheet

	var sweep app.SweepResult
	if ok, err := loadInto(ctx, store, app.SweepArtifact, &sweep); err != nil {
		return err
	} else if ok {
		sheets = append(sheets, sweepSheets(&sweep)...)
	}

	var timeseries app.TimeseriesResult
	if ok, err := loadInto(ctx, store, app.TimeseriesArtifact, &timeseries); err != nil {
		return err
	} else if ok {
		sheets = append(sheets, panelSheet(&timeseries))
	}

	var downloads app.DownloadsResult
	if ok, err := loadInto(ctx, store, app.DownloadsArtifact, &downloads); err != nil {
		return err
	} else if ok {
		sheets = append(sheets, shareSheet(&downloads))
	}

	var bootstrap app.BootstrapResult
	if ok, err := loadInto(ctx, store, app.BootstrapArtifact, &bootstrap); err != nil {
		return err
	} else if ok {
		sheets = append(sheets, intervalSheet(&bootstrap))
	}

	var cotags app.CoTagsResult
	if ok, err := loadInto(ctx, store, app.CoTagsArtifact, &cotags); err != nil {
		return err
	} else if ok {
		sheets = append(sheets, cotagSheet(&cotags))
	}

	if len(sheets) == 0 {
		return fmt.Errorf("nothing to export from %s; run the pipeline first", store.Dir())
	}

	if err := export.WriteWorkbook(xlsxPath, sheets); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✅ workbook written: %s (%d sheets)\n", xlsxPath, len(sheets))
	return nil
}

// loadInto loads and decodes an artifact, reporting absence separately
// from failure so callers can skip missing stages.
func loadInto[T any](ctx context.Context, store *export.Store, name string, out *T) (bool, error) {
	artifact, err := store.Load(ctx, name)
	if err != nil {
		if core.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("load %s artifact: %w", name, err)
	}
	if err := app.DecodeArtifact(artifact, out); err != nil {
		return false, err
	}
	return true, nil
}

func sweepSheets(result *app.SweepResult) []export.Sheet {
	header := []string{"key", "name", "n_units", "n_labels", "h_plugin", "h_cs", "s_eff"}
	rows := func(list []app.EcosystemEntropy) [][]any {
		out := make([][]any, 0, len(list))
		for _, e := range list {
			out = append(out, []any{string(e.Key), e.Name, e.NUnits, e.NLabels, e.HPlugin, e.HCS, e.SEff})
		}
		return out
	}
	return []export.Sheet{
		{Name: "github_sweep", Header: header, Rows: rows(result.GitHub)},
		{Name: "npm_sweep", Header: header, Rows: rows(result.Npm)},
	}
}

func panelSheet(result *app.TimeseriesResult) export.Sheet {
	sheet := export.Sheet{
		Name:   "annual_panels",
		Header: []string{"panel", "series", "year", "h_cs", "h_plugin", "n_units"},
	}
	for _, p := range result.Panels {
		for _, s := range p.Series {
			for _, pt := range s.Points {
				sheet.Rows = append(sheet.Rows, []any{p.Name, s.Name, pt.Year, pt.HCS, pt.HPlugin, pt.NUnits})
			}
		}
	}
	return sheet
}

func shareSheet(result *app.DownloadsResult) export.Sheet {
	sheet := export.Sheet{
		Name:   "npm_share",
		Header: []string{"year", "react", "angularjs", "angular_core", "vue", "svelte", "total", "react_share", "react_share_vs_angular"},
	}
	for _, row := range result.Share {
		sheet.Rows = append(sheet.Rows, []any{
			row.Year, row.React, row.AngularJS, row.AngularCore, row.Vue, row.Svelte,
			row.Total, row.ReactShare, row.ReactShareVsAngular,
		})
	}
	return sheet
}

func intervalSheet(result *app.BootstrapResult) export.Sheet {
	sheet := export.Sheet{
		Name:   "bootstrap_ci",
		Header: []string{"panel", "series", "year", "h_cs", "se", "ci_low", "ci_high", "n"},
	}
	for _, p := range result.Panels {
		for _, s := range p.Series {
			for _, c := range s.Cells {
				sheet.Rows = append(sheet.Rows, []any{p.Name, s.Name, c.Year, c.H, c.SE, c.Low, c.High, c.N})
			}
		}
	}
	return sheet
}

func cotagSheet(result *app.CoTagsResult) export.Sheet {
	sheet := export.Sheet{
		Name:   "cotag_entropy",
		Header: []string{"tag", "h_cs_github", "h_cs_so"},
	}
	for _, row := range result.Comparison {
		sheet.Rows = append(sheet.Rows, []any{row.Tag, row.GitHubHCS, row.SOHCS})
	}
	return sheet
}
