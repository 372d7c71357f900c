// internal/service/results/results.go
package results

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	domain "labportal-service/internal/domain/results"
	xerrors "labportal-service/internal/pkg/errors"
	"labportal-service/internal/pkg/signedurl"
)

// ResultStore persists released result records.
type ResultStore interface {
	ListBySubject(ctx context.Context, subject string) ([]*domain.ResultRecord, error)
	Get(ctx context.Context, id string) (*domain.ResultRecord, error)
	Create(ctx context.Context, rec *domain.ResultRecord) error
}

// Notifier pushes a result-ready event to any connected portal clients.
// Implementations must not block the caller.
type Notifier interface {
	NotifyResultReady(subject string, view *domain.ResultView)
}

type ResultService struct {
	store    ResultStore
	signer   *signedurl.Signer
	notifier Notifier
	logger   *zap.Logger
}

func NewResultService(store ResultStore, signer *signedurl.Signer, notifier Notifier, logger *zap.Logger) *ResultService {
	return &ResultService{store: store, signer: signer, notifier: notifier, logger: logger}
}

// List returns the client's released results, newest first.
func (s *ResultService) List(ctx context.Context, subject string) ([]*domain.ResultView, error) {
	records, err := s.store.ListBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	views := make([]*domain.ResultView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewOf(rec))
	}
	return views, nil
}

// DownloadURL mints a short-lived signed URL for one of the client's own
// result documents. Requests for other clients' results come back as
// not-found, never as forbidden, so result ids are not probeable.
func (s *ResultService) DownloadURL(ctx context.Context, subject, resultID string) (string, error) {
	rec, err := s.store.Get(ctx, resultID)
	if err != nil {
		return "", err
	}
	if rec.Subject != subject {
		return "", xerrors.ErrNotFound
	}

	signed, err := s.signer.Sign(rec.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("sign download url: %w", err)
	}
	return signed, nil
}

// Publish releases a result document to a client and notifies them if they
// are connected. Notification failure never fails the publish.
func (s *ResultService) Publish(ctx context.Context, req *domain.PublishRequest) (*domain.ResultView, error) {
	rec := &domain.ResultRecord{
		ID:         ulid.Make().String(),
		Subject:    req.Subject,
		Title:      req.Title,
		Panels:     req.Panels,
		ObjectKey:  req.ObjectKey,
		ReleasedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("publish result: %w", err)
	}

	view := viewOf(rec)
	if s.notifier != nil {
		s.notifier.NotifyResultReady(rec.Subject, view)
	}

	s.logger.Info("result published",
		zap.String("result_id", rec.ID),
		zap.String("subject", rec.Subject),
	)
	return view, nil
}

func viewOf(rec *domain.ResultRecord) *domain.ResultView {
	return &domain.ResultView{
		ID:         rec.ID,
		Title:      rec.Title,
		Panels:     rec.Panels,
		ReleasedAt: rec.ReleasedAt.UTC().Format(time.RFC3339),
	}
}
