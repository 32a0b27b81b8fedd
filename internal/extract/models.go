package extract

import (
	"github.com/dtnitsch/ninja-snatch/models"
)

// Job is one page to capture from a file, inline markup or a URL, in
// that order of precedence. With inline markup URL is only the base for
// resolving links.
type Job struct {
	URL      string
	File     string
	HTML     string
	Selector string
}

// Source returns the URL or file path of the job.
func (j Job) Source() string {
	switch {
	case j.File != "":
		return j.File
	case j.URL != "":
		return j.URL
	case j.HTML != "":
		return "inline"
	}
	return ""
}

// Result holds the outcome of a processed job.
type Result struct {
	Job       Job
	Snapshot  *models.Snapshot
	Output    string
	Dir       string
	Error     error
	ErrorType string
}

// ResultOutput is the structured output for a single source.
type ResultOutput struct {
	Source    string `json:"source" yaml:"source"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Dir       string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Status    string `json:"status" yaml:"status"`
	Nodes     int    `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Patterns  int    `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Rules     int    `json:"rules,omitempty" yaml:"rules,omitempty"`
	Fallback  bool   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty" yaml:"error_type,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status" yaml:"status"`
	Results []ResultOutput `json:"results" yaml:"results"`
	Stats   Stats          `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	Total            int      `json:"total" yaml:"total"`
	Successful       int      `json:"successful" yaml:"successful"`
	Failed           int      `json:"failed" yaml:"failed"`
	TotalTimeSeconds float64  `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopClasses       []string `json:"top_classes,omitempty" yaml:"top_classes,omitempty"`
}

func summarize(r Result) ResultOutput {
	out := ResultOutput{Source: r.Job.Source(), Dir: r.Dir, Status: "success"}
	if r.Error != nil {
		out.Status = "failed"
		out.Error = r.Error.Error()
		out.ErrorType = r.ErrorType
		return out
	}
	if s := r.Snapshot; s != nil {
		out.ID = s.ID
		out.Nodes = s.Stats.Nodes
		out.Patterns = s.Stats.Patterns
		out.Rules = s.Stats.Rules
		out.Fallback = s.Fallback
	}
	return out
}
