package results

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "labportal-service/internal/domain/results"
	xerrors "labportal-service/internal/pkg/errors"
	"labportal-service/internal/pkg/signedurl"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*domain.ResultRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*domain.ResultRecord)}
}

func (f *fakeStore) ListBySubject(_ context.Context, subject string) ([]*domain.ResultRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ResultRecord
	for _, rec := range f.records {
		if rec.Subject == subject {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*domain.ResultRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, rec *domain.ResultRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.CreatedAt = time.Now()
	f.records[rec.ID] = rec
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakeNotifier) NotifyResultReady(subject string, _ *domain.ResultView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
}

func newService(t *testing.T) (*ResultService, *fakeStore, *fakeNotifier) {
	t.Helper()
	signer, err := signedurl.New("dl-secret", "https://files.lab.test/results", 10*time.Minute)
	require.NoError(t, err)
	store := newFakeStore()
	notifier := &fakeNotifier{}
	return NewResultService(store, signer, notifier, zap.NewNop()), store, notifier
}

func TestPublishNotifiesAndLists(t *testing.T) {
	svc, _, notifier := newService(t)
	ctx := context.Background()

	view, err := svc.Publish(ctx, &domain.PublishRequest{
		Subject:   "usr_01",
		Title:     "CBC Panel 2026-08",
		Panels:    []string{"CBC", "Lipid"},
		ObjectKey: "2026/08/usr_01/cbc.pdf",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, []string{"usr_01"}, notifier.subjects)

	views, err := svc.List(ctx, "usr_01")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "CBC Panel 2026-08", views[0].Title)

	// Another client sees nothing.
	other, err := svc.List(ctx, "usr_02")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDownloadURLOwnership(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	view, err := svc.Publish(ctx, &domain.PublishRequest{
		Subject:   "usr_01",
		Title:     "Metabolic Panel",
		ObjectKey: "2026/08/usr_01/bmp.pdf",
	})
	require.NoError(t, err)

	signed, err := svc.DownloadURL(ctx, "usr_01", view.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "https://files.lab.test/results/"))

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.NotEmpty(t, u.Query().Get("expires"))
	assert.NotEmpty(t, u.Query().Get("sig"))

	// Someone else's session gets not-found, same as a bogus id.
	_, foreign := svc.DownloadURL(ctx, "usr_02", view.ID)
	_, missing := svc.DownloadURL(ctx, "usr_01", "no-such-id")
	assert.ErrorIs(t, foreign, xerrors.ErrNotFound)
	assert.ErrorIs(t, missing, xerrors.ErrNotFound)
}
