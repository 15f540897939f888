package main

// RowRecord is one spreadsheet row, mapping column name to cell value.
// Values are the formatted cell text; an empty string means the cell was
// blank. Records are read once and never mutated.
type RowRecord map[string]string

// FetchEnvelope is the normalized outcome of a middleware fetch.
// StatusCode stays at its 500 default unless an HTTP response was
// actually received; Result carries either the decoded body or an error
// descriptor.
type FetchEnvelope struct {
	StatusCode int `json:"statusCode"`
	Result     any `json:"result"`
}

// ArticleSummary is the trimmed per-article shape sent to the content API.
type ArticleSummary map[string]any

// PublishResult reports one POST to the content API.
type PublishResult struct {
	StatusCode int     `json:"statusCode"`
	Result     any     `json:"result"`
	Duration   float64 `json:"duration"`
}

// Stage identifies a pipeline stage for per-row failure reporting.
type Stage string

const (
	StageBuildURL  Stage = "URLBuilder"
	StageFetch     Stage = "Fetcher"
	StageTransform Stage = "Transformer"
	StagePublish   Stage = "Publisher"
)

// RowResult tracks the outcome of processing one spreadsheet row.
type RowResult struct {
	Index     int
	URL       string
	Stage     Stage // stage that failed, empty on success
	Err       error
	Summaries []ArticleSummary
	Publish   *PublishResult
}

// Success reports whether the row made it through every stage it ran.
func (r RowResult) Success() bool {
	return r.Err == nil
}
