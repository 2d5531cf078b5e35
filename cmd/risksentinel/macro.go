package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/config"
)

var processMacroCmd = &cobra.Command{
	Use:   "process-macro",
	Short: "Build the macro indicators table from World Bank JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Data.WorldBankDir
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.Data.MacroFile
		}

		universe, err := config.LoadUniverse(cfg.Data.UniverseFile)
		if err != nil {
			return fmt.Errorf("load universe: %w", err)
		}
		rows, err := collector.ProcessWorldBank(dir, universe, log)
		if err != nil {
			return err
		}
		if err := collector.WriteMacroCSV(out, rows); err != nil {
			return fmt.Errorf("write macro table: %w", err)
		}
		log.Info().Int("countries", len(rows)).Str("path", out).Msg("macro table written")
		return nil
	},
}

func init() {
	processMacroCmd.Flags().String("dir", "", "World Bank JSON directory (default: data.worldbank_dir)")
	processMacroCmd.Flags().String("out", "", "output CSV path (default: data.macro_file)")
}
