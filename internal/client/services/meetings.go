package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/meetscribe/internal/client/client"
	"github.com/dmitrijs2005/meetscribe/internal/client/exports"
	"github.com/dmitrijs2005/meetscribe/internal/client/history"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/dmitrijs2005/meetscribe/internal/common"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
)

// Gate decides whether an analysis may run and accounts it afterwards.
// SessionManager implements it.
type Gate interface {
	Session() models.Session
	CheckLimit(ctx context.Context) models.LimitStatus
	IncrementUsage(ctx context.Context) models.Session
	RefreshUsage(ctx context.Context) models.Session
}

// AnalyzeResult is a completed analysis. Duplicate is set when history
// already held the same meeting and Item is that stored record.
type AnalyzeResult struct {
	Item      models.HistoryItem
	Duplicate bool
	Session   models.Session
}

// MeetingService runs gated analyses and exports and keeps the history.
type MeetingService struct {
	gate    Gate
	client  client.AnalysisClient
	history *history.Store
	prefs   *storage.Preferences
	sink    exports.Sink
	logger  logging.Logger

	busy atomic.Bool
}

func NewMeetingService(gate Gate, c client.AnalysisClient, hist *history.Store, prefs *storage.Preferences, sink exports.Sink, logger logging.Logger) *MeetingService {
	return &MeetingService{
		gate:    gate,
		client:  c,
		history: hist,
		prefs:   prefs,
		sink:    sink,
		logger:  logger.With("component", "meetings"),
	}
}

func checkAudio(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", common.NewValidationError("audio", "invalid path")
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", common.NewValidationError("audio", "file not found")
	}
	return abs, nil
}

// Analyze checks the quota, submits the audio, accounts the usage and stores
// the result in history. An empty language selects the output language
// preference. Only one analysis runs at a time; overlapping calls fail with
// common.ErrBusy.
func (s *MeetingService) Analyze(ctx context.Context, audioPath, language string) (*AnalyzeResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, common.ErrBusy
	}
	defer s.busy.Store(false)

	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = s.prefs.OutputLanguage(ctx)
	} else if !storage.IsSupportedLanguage(language) {
		return nil, common.NewValidationError("language", "unsupported language")
	}

	abs, err := checkAudio(audioPath)
	if err != nil {
		return nil, err
	}

	status := s.gate.CheckLimit(ctx)
	if !status.CanProceed {
		return nil, &common.QuotaError{Registered: status.IsRegistered, Used: status.Used, Limit: status.Limit}
	}

	analysis, err := s.client.ProcessMeeting(ctx, client.Upload{
		AudioPath:     abs,
		Language:      language,
		Authenticated: status.IsRegistered,
	})
	if err != nil {
		// The backend may have counted a rejected request.
		if status.IsRegistered {
			s.gate.RefreshUsage(ctx)
		}
		return nil, fmt.Errorf("analyze error: %w", err)
	}

	session := s.gate.IncrementUsage(ctx)

	item, added := s.history.Add(ctx, models.NewHistoryItem(filepath.Base(abs), abs, language, analysis))
	if !added {
		s.logger.Info(ctx, "analysis matches a stored meeting", "id", item.ID)
	}
	s.logger.Info(ctx, "meeting analyzed", "id", item.ID, "used", session.Usage.Used, "limit", session.Usage.Limit)

	return &AnalyzeResult{Item: item, Duplicate: !added, Session: session}, nil
}

func exportName(item models.HistoryItem, format models.ExportFormat) string {
	base := strings.TrimSuffix(item.FileName, filepath.Ext(item.FileName))
	if base == "" {
		base = "meeting"
	}
	return fmt.Sprintf("%s-%s.%s", base, item.CreatedAt.Format("20060102-150405"), format)
}

// Export renders meeting id as a document, stores it in the sink and returns
// its location.
func (s *MeetingService) Export(ctx context.Context, id string, format models.ExportFormat) (string, error) {
	item, ok := s.history.Get(ctx, id)
	if !ok {
		return "", common.ErrNotFound
	}
	if item.SourcePath == "" {
		return "", common.NewValidationError("audio", "source audio of this meeting is unknown")
	}
	if _, err := checkAudio(item.SourcePath); err != nil {
		return "", err
	}

	data, err := s.client.Export(ctx, client.Upload{
		AudioPath:     item.SourcePath,
		Language:      item.OutputLanguage,
		Authenticated: s.gate.Session().IsAuthenticated(),
	}, format)
	if err != nil {
		return "", fmt.Errorf("export error: %w", err)
	}

	loc, err := s.sink.Put(ctx, exportName(item, format), data, format.ContentType())
	if err != nil {
		return "", fmt.Errorf("store export error: %w", err)
	}

	s.history.MarkExported(ctx, id, format)
	s.logger.Info(ctx, "meeting exported", "id", id, "format", format, "location", loc)
	return loc, nil
}

// History lists stored meetings, newest first.
func (s *MeetingService) History(ctx context.Context) []models.HistoryItem {
	return s.history.List(ctx)
}

func (s *MeetingService) Get(ctx context.Context, id string) (models.HistoryItem, error) {
	item, ok := s.history.Get(ctx, id)
	if !ok {
		return models.HistoryItem{}, common.ErrNotFound
	}
	return item, nil
}

func (s *MeetingService) Delete(ctx context.Context, id string) error {
	if !s.history.Delete(ctx, id) {
		return common.ErrNotFound
	}
	return nil
}

func (s *MeetingService) ClearHistory(ctx context.Context) {
	s.history.Clear(ctx)
}
