package models

import (
	"fmt"
	"strings"
	"time"
)

// ActionItem is a follow-up task extracted from a meeting.
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
}

// ExportFlags record which documents were produced for a meeting.
// Flags only ever go from false to true.
type ExportFlags struct {
	Word bool `json:"word"`
	PDF  bool `json:"pdf"`
}

// Analysis is the structured result of the backend's meeting processing.
type Analysis struct {
	TranscriptRaw   string       `json:"transcriptRaw"`
	TranscriptClean string       `json:"transcriptClean"`
	Summary         string       `json:"summary"`
	Participants    []string     `json:"participants"`
	Decisions       []string     `json:"decisions"`
	ActionItems     []ActionItem `json:"actionItems"`
}

// HistoryItem is a stored meeting record.
type HistoryItem struct {
	ID              string       `json:"id"`
	CreatedAt       time.Time    `json:"createdAt"`
	FileName        string       `json:"fileName"`
	OutputLanguage  string       `json:"outputLanguage"`
	Summary         string       `json:"summary"`
	TranscriptRaw   string       `json:"transcriptRaw"`
	TranscriptClean string       `json:"transcriptClean"`
	Participants    []string     `json:"participants"`
	Decisions       []string     `json:"decisions"`
	ActionItems     []ActionItem `json:"actionItems"`
	Exports         ExportFlags  `json:"exports"`

	// SourcePath is the local audio file the item was produced from; export
	// re-submits it.
	SourcePath string `json:"sourcePath,omitempty"`
}

// NewHistoryItem copies an analysis into a history record.
func NewHistoryItem(fileName, sourcePath, language string, a *Analysis) HistoryItem {
	return HistoryItem{
		FileName:        fileName,
		SourcePath:      sourcePath,
		OutputLanguage:  language,
		Summary:         a.Summary,
		TranscriptRaw:   a.TranscriptRaw,
		TranscriptClean: a.TranscriptClean,
		Participants:    a.Participants,
		Decisions:       a.Decisions,
		ActionItems:     a.ActionItems,
	}
}

// ExportFormat is a downloadable document type.
type ExportFormat string

const (
	ExportDOCX ExportFormat = "docx"
	ExportPDF  ExportFormat = "pdf"
)

// ParseExportFormat accepts "docx"/"word" and "pdf" in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "docx", "word":
		return ExportDOCX, nil
	case "pdf":
		return ExportPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the document.
func (f ExportFormat) ContentType() string {
	if f == ExportPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
