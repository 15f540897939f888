// checkconfig validates an import configuration and its workbook
// without touching the network: required keys, endpoint formats,
// placeholder coverage by the configured columns, and the workbook
// header and row count.
package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var placeholderPattern = regexp.MustCompile(`<([^>]+)>`)

type settings struct {
	Excel struct {
		FilePath string   `yaml:"file_path"`
		Columns  []string `yaml:"columns"`
	} `yaml:"excel"`
	MS struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"ms"`
	AEM struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"aem"`
	API struct {
		MSEndpoint  string `yaml:"ms_endpoint"`
		AEMEndpoint string `yaml:"aem_endpoint"`
	} `yaml:"api"`
}

func main() {
	path := "import.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := load(path)
	if err != nil {
		log.Fatalf("✗ %v", err)
	}

	if problems := check(cfg); len(problems) > 0 {
		for _, p := range problems {
			log.Printf("✗ %s", p)
		}
		os.Exit(1)
	}

	rows, err := countRows(cfg.Excel.FilePath, cfg.Excel.Columns)
	if err != nil {
		log.Fatalf("✗ %v", err)
	}

	log.Printf("✓ %s: %d data rows, all configured columns present", cfg.Excel.FilePath, rows)
	log.Printf("✓ Configuration is valid")
}

func load(path string) (*settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.MS.Endpoint == "" {
		cfg.MS.Endpoint = cfg.API.MSEndpoint
	}
	if cfg.AEM.Endpoint == "" {
		cfg.AEM.Endpoint = cfg.API.AEMEndpoint
	}
	return &cfg, nil
}

func check(cfg *settings) []string {
	var problems []string
	if cfg.Excel.FilePath == "" {
		problems = append(problems, "excel.file_path is not set")
	}
	if len(cfg.Excel.Columns) == 0 {
		problems = append(problems, "excel.columns is empty")
	}
	if cfg.MS.Endpoint == "" {
		problems = append(problems, "ms.endpoint (or api.ms_endpoint) is not set")
	}
	if cfg.AEM.Endpoint == "" {
		problems = append(problems, "aem.endpoint (or api.aem_endpoint) is not set")
	}

	// Every URL placeholder must map to a configured column.
	columns := make(map[string]bool, len(cfg.Excel.Columns))
	for _, col := range cfg.Excel.Columns {
		columns[col] = true
	}
	for _, ph := range placeholders(cfg.MS.Endpoint) {
		if !columns[ph] {
			problems = append(problems, fmt.Sprintf("URL placeholder <%s> is not in excel.columns", ph))
		}
	}

	return problems
}

func placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

func countRows(path string, columns []string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("workbook %s has no header row", path)
	}

	header := make(map[string]bool, len(rows[0]))
	for _, name := range rows[0] {
		header[strings.TrimSpace(name)] = true
	}
	var missing []string
	for _, col := range columns {
		if !header[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("missing columns in %s: %s", path, strings.Join(missing, ", "))
	}

	return len(rows) - 1, nil
}
