package main

import (
	"fmt"
	"log"
	"time"
)

// ImportProcessor drives the row pipeline: build URL, fetch, transform,
// publish. Rows are independent; a stage failure skips the rest of that
// row and processing continues with the next one.
type ImportProcessor struct {
	settings    *Settings
	builder     *URLBuilder
	fetcher     *Fetcher
	transformer *Transformer
	publisher   *Publisher
	archiver    *Archiver
	dryRun      bool
	limit       int
}

// NewImportProcessor wires the pipeline stages from settings.
func NewImportProcessor(settings *Settings) *ImportProcessor {
	auth := BasicAuth{Username: settings.AEM.Username, Password: settings.AEM.Password}
	return &ImportProcessor{
		settings:    settings,
		builder:     NewURLBuilder(settings.MS.Endpoint),
		fetcher:     NewFetcher(time.Duration(settings.MS.Timeout) * time.Second),
		transformer: &Transformer{},
		publisher:   NewPublisher(settings.AEM.Endpoint, auth, time.Duration(settings.AEM.Timeout)*time.Second),
	}
}

// SetDryRun skips the publish stage when enabled.
func (p *ImportProcessor) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// SetLimit caps the number of rows processed; 0 means all.
func (p *ImportProcessor) SetLimit(limit int) {
	p.limit = limit
}

// SetArchiver enables raw-body archiving of fetched articles.
func (p *ImportProcessor) SetArchiver(archiver *Archiver) {
	p.archiver = archiver
}

// Run reads and validates the workbook, then processes every row. Only
// the read/validation phase can fail; per-row errors are recorded in the
// results and logged.
func (p *ImportProcessor) Run() ([]RowResult, error) {
	start := time.Now()

	reader := NewExcelReader(p.settings.Excel.FilePath, p.settings.Excel.Columns)
	rows, err := reader.ReadRows()
	if err != nil {
		return nil, fmt.Errorf("reading Excel data: %w", err)
	}
	if err := ValidateRows(rows, p.settings.Excel.Columns); err != nil {
		return nil, err
	}
	log.Printf("✓ Excel data validation successful: %d rows", len(rows))

	if p.limit > 0 && len(rows) > p.limit {
		rows = rows[:p.limit]
	}

	results := p.ProcessRows(rows)

	log.Printf("⌛ Import duration: %s", formatElapsed(time.Since(start)))
	return results, nil
}

// ProcessRows runs the pipeline over rows already read and validated.
func (p *ImportProcessor) ProcessRows(rows []RowRecord) []RowResult {
	results := make([]RowResult, 0, len(rows))
	for i, row := range rows {
		log.Printf("[%d/%d] Processing record", i+1, len(rows))
		result := p.processRow(i, row)
		results = append(results, result)
		if result.Err != nil {
			log.Printf("✗ %s failed: %v", result.Stage, result.Err)
		}
	}
	return results
}

// processRow takes one row through every stage, stopping at the first
// stage that cannot hand anything usable to the next.
func (p *ImportProcessor) processRow(index int, row RowRecord) RowResult {
	result := RowResult{Index: index}

	url, err := p.builder.Build(row)
	if err != nil {
		result.Stage = StageBuildURL
		result.Err = err
		return result
	}
	result.URL = url
	log.Printf("  URL: %s", url)

	envelope := p.fetcher.Fetch(url)
	if failure, ok := envelope.Result.(map[string]any); ok {
		if _, failed := failure["errorType"]; failed {
			result.Stage = StageFetch
			result.Err = fmt.Errorf("%v: %v", failure["errorType"], failure["message"])
			return result
		}
	}

	if p.archiver != nil {
		p.archiver.ArchiveEnvelope(envelope)
	}

	summaries := p.transformer.Transform(envelope)
	result.Summaries = summaries
	if len(summaries) == 0 {
		result.Stage = StageTransform
		result.Err = fmt.Errorf("no publishable articles in response (status %d)", envelope.StatusCode)
		return result
	}

	if p.dryRun {
		log.Printf("  Dry run: skipping publish of %d articles", len(summaries))
		return result
	}

	debugLog("payload before POST: %v", summaries)
	publish := p.publisher.Publish(summaries)
	result.Publish = &publish
	log.Printf("  AEM response: status=%d duration=%.2fs", publish.StatusCode, publish.Duration)
	return result
}

// formatElapsed renders d as hours, minutes, seconds and milliseconds.
func formatElapsed(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%dh %dm %ds %dms", hours, minutes, seconds, millis)
}
