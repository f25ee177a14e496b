package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kisansetu/pkg/market"
)

var (
	exportFormat string
	exportOut    string
)

var exportMarketCmd = &cobra.Command{
	Use:   "export-market",
	Short: "Write the mandi price report as CSV or XLSX",
	Example: `  kisansetu export-market --format xlsx --out prices.xlsx
  kisansetu export-market > prices.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := market.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			file, err := os.Create(exportOut)
			if err != nil {
				return errors.Wrap(err, "create output")
			}
			defer file.Close()
			w = file
		}
		prices := market.DefaultReport().List(market.Query{})
		if err := market.Write(w, f, prices); err != nil {
			return err
		}
		if logger != nil && exportOut != "" {
			logger.Info("market report written", zap.String("file", exportOut), zap.Int("rows", len(prices)))
		}
		return nil
	},
}

func init() {
	exportMarketCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportMarketCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}
