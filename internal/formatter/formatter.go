// package formatter provides functions to export lead magnet data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/shared"
)

// ExportToCSV converts lead magnets to CSV with columns: ID, Title, Status, Downloads, Leads, Created
func ExportToCSV(magnets []models.LeadMagnet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Status", "Downloads", "Leads", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, magnet := range magnets {
		record := []string{
			strconv.Itoa(magnet.ID),
			magnet.Title,
			magnet.Status,
			strconv.Itoa(magnet.DownloadsCount),
			strconv.Itoa(magnet.LeadsCount),
			magnet.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts lead magnets to a Markdown listing.
func ExportToMarkdown(magnets []models.LeadMagnet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Lead Magnets\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(magnets)))

	for i, magnet := range magnets {
		buf.WriteString(fmt.Sprintf("%d. **%s** [%s]", i+1, magnet.Title, magnet.Status))
		if magnet.DownloadsCount > 0 || magnet.LeadsCount > 0 {
			buf.WriteString(fmt.Sprintf(" • %d downloads, %d leads", magnet.DownloadsCount, magnet.LeadsCount))
		}
		buf.WriteString("\n")
		if magnet.Description != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", shared.TruncateString(magnet.Description, 120)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts lead magnets to plain text.
func ExportToText(magnets []models.LeadMagnet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Lead Magnets: %d\n\n", len(magnets)))
	for i, magnet := range magnets {
		buf.WriteString(fmt.Sprintf("%d. [%d] %s (%s)\n", i+1, magnet.ID, magnet.Title, magnet.Status))
	}

	return buf.Bytes(), nil
}

// WriteListExport writes the lead magnet list to outputDir in the requested
// format and returns the file path. Unknown formats fall back to JSON.
func WriteListExport(magnets []models.LeadMagnet, format, outputDir string) (string, error) {
	var data []byte
	var err error
	var name string

	switch format {
	case "csv":
		name = "lead_magnets.csv"
		data, err = ExportToCSV(magnets)
	case "markdown":
		name = "README.md"
		data, err = ExportToMarkdown(magnets)
	case "txt":
		name = "lead_magnets.txt"
		data, err = ExportToText(magnets)
	case "json":
		fallthrough
	default:
		name = "lead_magnets.json"
		data, err = shared.MarshalJSON(magnets, true)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// StatsToText renders dashboard stats as aligned plain text.
func StatsToText(stats models.DashboardStats) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Total lead magnets:  %d\n", stats.TotalLeadMagnets))
	buf.WriteString(fmt.Sprintf("Active lead magnets: %d\n", stats.ActiveLeadMagnets))
	buf.WriteString(fmt.Sprintf("Total downloads:     %d\n", stats.TotalDownloads))
	buf.WriteString(fmt.Sprintf("Leads generated:     %d\n", stats.LeadsGenerated))
	return buf.Bytes()
}
