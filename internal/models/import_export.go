package models

type ImportStatus string

const (
	ImportCompleted        ImportStatus = "completed"
	ImportFailed           ImportStatus = "failed"
	ImportValidationFailed ImportStatus = "validation_failed"
)

// ImportValidationError pins a rejected row to its file position.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

type ImportResult struct {
	TotalRows    int                     `json:"totalRows"`
	SuccessCount int                     `json:"successCount"`
	SkippedCount int                     `json:"skippedCount"`
	ErrorCount   int                     `json:"errorCount"`
	Errors       []ImportValidationError `json:"errors,omitempty"`
	Questions    []*Question             `json:"questions,omitempty"`
	Status       ImportStatus            `json:"status"`
}
