package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"optionslab/src/models"
)

// ExportTradeLedger writes the per-trade ledger to a CSV file.
func ExportTradeLedger(outDir string, trades []*models.TradeRecord) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("ExportTradeLedger: failed to create %s: %w", outDir, err)
	}

	outFile := filepath.Join(outDir, "trades.csv")

	file, err := os.Create(outFile)
	if err != nil {
		return "", fmt.Errorf("ExportTradeLedger: failed to create %s: %w", outFile, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&trades, file); err != nil {
		return "", fmt.Errorf("ExportTradeLedger: failed to write csv: %w", err)
	}

	log.Infof("ExportTradeLedger: wrote %d trades to %s", len(trades), outFile)

	return outFile, nil
}

// ExportDailyRecords writes the per-day audit trail to a CSV file.
func ExportDailyRecords(outDir string, daily []*models.DailyRecord) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("ExportDailyRecords: failed to create %s: %w", outDir, err)
	}

	outFile := filepath.Join(outDir, "daily.csv")

	file, err := os.Create(outFile)
	if err != nil {
		return "", fmt.Errorf("ExportDailyRecords: failed to create %s: %w", outFile, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&daily, file); err != nil {
		return "", fmt.Errorf("ExportDailyRecords: failed to write csv: %w", err)
	}

	log.Infof("ExportDailyRecords: wrote %d days to %s", len(daily), outFile)

	return outFile, nil
}

// ExportReport writes the serialized report for downstream consumers.
func ExportReport(outDir string, report *Report) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("ExportReport: failed to create %s: %w", outDir, err)
	}

	outFile := filepath.Join(outDir, "report.json")

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ExportReport: failed to marshal report: %w", err)
	}

	if err := os.WriteFile(outFile, payload, 0644); err != nil {
		return "", fmt.Errorf("ExportReport: failed to write %s: %w", outFile, err)
	}

	return outFile, nil
}
