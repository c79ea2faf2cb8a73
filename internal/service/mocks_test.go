package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/policy"
	"github.com/RubachokBoss/report-portal/internal/repository"
)

// In-memory doubles implementing the repository contracts. They mirror
// the SQL behavior the postgres repositories rely on: unique indexes on
// email/nsu_id and the compare-and-set verdict update.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
		if existing.NSUID == user.NSUID {
			return repository.ErrDuplicateNSUID
		}
	}

	stored := *user
	stored.Email = strings.ToLower(user.Email)
	f.users[user.ID] = stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByRole(_ context.Context, role string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var users []models.User
	for _, user := range f.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) UpdateVerified(_ context.Context, id string, verified bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if ok {
		user.Verified = verified
		f.users[id] = user
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.users, id)
	return nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]models.Report

	failCreate error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]models.Report)}
}

func (f *fakeReportRepo) Create(_ context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return f.failCreate
	}

	f.reports[report.ID] = *report
	return nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	report, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	copied := report
	return &copied, nil
}

func (f *fakeReportRepo) GetVisible(_ context.Context, scope policy.ReportScope, limit, offset int) ([]models.Report, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var visible []models.Report
	for _, report := range f.reports {
		if scope.Contains(&report) {
			visible = append(visible, report)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	total := len(visible)
	if offset >= len(visible) {
		return nil, total, nil
	}
	visible = visible[offset:]
	if len(visible) > limit {
		visible = visible[:limit]
	}
	return visible, total, nil
}

func (f *fakeReportRepo) SubmitVerdict(_ context.Context, id, verdict, verdictBy, verdictByName string, verdictAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	report, ok := f.reports[id]
	if !ok || report.Verdict != nil {
		return false, nil
	}

	report.Verdict = &verdict
	report.Status = verdict
	report.VerdictBy = &verdictBy
	report.VerdictByName = &verdictByName
	report.VerdictAt = &verdictAt
	f.reports[id] = report
	return true, nil
}

func (f *fakeReportRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

type fakeStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, path string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.blobs[path] = append([]byte(nil), content...)
	return nil
}

func (f *fakeStorage) Download(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, ok := f.blobs[path]
	if !ok {
		return nil, repository.ErrFileNotFound
	}
	return content, nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.blobs, path)
	return nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

type fakePublisher struct {
	mu       sync.Mutex
	uploaded []models.ReportUploadedEvent
	verdicts []models.VerdictSubmittedEvent
}

func (f *fakePublisher) PublishReportUploaded(_ context.Context, event *models.ReportUploadedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploaded = append(f.uploaded, *event)
	return nil
}

func (f *fakePublisher) PublishVerdictSubmitted(_ context.Context, event *models.VerdictSubmittedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verdicts = append(f.verdicts, *event)
	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}
