package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/client/models"
)

// RegisterRequest is the payload of auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the payload of auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by auth/register, auth/login and auth/me.
type AuthResponse struct {
	User  models.UserProfile `json:"user"`
	Token string             `json:"token"`
	Usage models.RemoteUsage `json:"usage"`
}

// Upload identifies the audio file and output language of an analysis.
// Authenticated attaches the bearer token; it follows the session identity,
// not the presence of a stored token.
type Upload struct {
	AudioPath     string
	Language      string
	Authenticated bool
}

// MigratedMeeting is the wire form of a history item sent to
// auth/migrate-meetings. The local audio path stays on the device and empty
// lists are sent as [].
type MigratedMeeting struct {
	ID              string              `json:"id"`
	CreatedAt       time.Time           `json:"createdAt"`
	FileName        string              `json:"fileName"`
	OutputLanguage  string              `json:"outputLanguage"`
	Summary         string              `json:"summary"`
	TranscriptRaw   string              `json:"transcriptRaw"`
	TranscriptClean string              `json:"transcriptClean"`
	Participants    []string            `json:"participants"`
	Decisions       []string            `json:"decisions"`
	ActionItems     []models.ActionItem `json:"actionItems"`
	Exports         models.ExportFlags  `json:"exports"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// NewMigratedMeeting converts a stored history item to its wire form.
func NewMigratedMeeting(it models.HistoryItem) MigratedMeeting {
	return MigratedMeeting{
		ID:              it.ID,
		CreatedAt:       it.CreatedAt,
		FileName:        it.FileName,
		OutputLanguage:  it.OutputLanguage,
		Summary:         it.Summary,
		TranscriptRaw:   it.TranscriptRaw,
		TranscriptClean: it.TranscriptClean,
		Participants:    nonNil(it.Participants),
		Decisions:       nonNil(it.Decisions),
		ActionItems:     nonNil(it.ActionItems),
		Exports:         it.Exports,
	}
}

// AuthClient covers the account endpoints. Implementations keep the bearer
// token returned by Register, Login and Me and attach it to later calls.
type AuthClient interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Me(ctx context.Context) (*AuthResponse, error)
	Usage(ctx context.Context) (*models.RemoteUsage, error)
	MigrateMeetings(ctx context.Context, meetings []models.HistoryItem) (int, error)
	// Logout revokes token on the backend. The caller has already dropped it
	// locally.
	Logout(ctx context.Context, token string) error
}

// AnalysisClient covers the meeting processing endpoints.
type AnalysisClient interface {
	ProcessMeeting(ctx context.Context, upload Upload) (*models.Analysis, error)
	Export(ctx context.Context, upload Upload, format models.ExportFormat) ([]byte, error)
}

// Client is the whole backend surface.
type Client interface {
	AuthClient
	AnalysisClient
}
