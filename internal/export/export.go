package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Rana718/agriseed/internal/models"
	"github.com/Rana718/agriseed/internal/store"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

type Snapshot struct {
	Timestamp string                              `json:"timestamp" yaml:"timestamp"`
	Tables    map[string][]map[string]interface{} `json:"tables" yaml:"tables"`
}

// Collect reads the seeded tables into a snapshot.
func Collect(ctx context.Context, db *store.DB) (*Snapshot, error) {
	snap := &Snapshot{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Tables:    make(map[string][]map[string]interface{}, len(models.InsertOrder)),
	}
	for _, table := range models.InsertOrder {
		rows, err := store.Dump(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		snap.Tables[table] = rows
	}
	return snap, nil
}

// Write stores snap under exportPath in the given format and returns the
// file or directory it created.
func Write(snap *Snapshot, exportPath, format string) (string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	stamp := time.Now().Format("2006-01-02_15-04-05")
	switch format {
	case FormatCSV:
		return writeCSV(snap, filepath.Join(exportPath, fmt.Sprintf("export_%s_csv", stamp)))
	case FormatYAML:
		data, err := yaml.Marshal(snap)
		if err != nil {
			return "", fmt.Errorf("failed to marshal data: %w", err)
		}
		return writeFile(filepath.Join(exportPath, fmt.Sprintf("export_%s.yaml", stamp)), data)
	case FormatJSON, "":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal data: %w", err)
		}
		return writeFile(filepath.Join(exportPath, fmt.Sprintf("export_%s.json", stamp)), data)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeFile(path string, data []byte) (string, error) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

func writeCSV(snap *Snapshot, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for tableName, rows := range snap.Tables {
		if len(rows) == 0 {
			continue
		}
		if err := writeTableCSV(filepath.Join(dirPath, tableName+".csv"), rows); err != nil {
			return "", fmt.Errorf("failed to write CSV for %s: %w", tableName, err)
		}
	}
	return dirPath, nil
}

func writeTableCSV(path string, rows []map[string]interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	headers := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		values := make([]string, len(headers))
		for i, header := range headers {
			values[i] = fmt.Sprintf("%v", row[header])
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
