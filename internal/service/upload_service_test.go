package service_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/service"
	"github.com/RubachokBoss/report-portal/internal/service/similarity"
)

const maxFileSize = 10 * 1024 * 1024

type uploadFixture struct {
	userRepo   *fakeUserRepo
	reportRepo *fakeReportRepo
	storage    *fakeStorage
	publisher  *fakePublisher
	service    service.UploadService

	teacher *models.User
	student *models.User
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()

	f := &uploadFixture{
		userRepo:   newFakeUserRepo(),
		reportRepo: newFakeReportRepo(),
		storage:    newFakeStorage(),
		publisher:  &fakePublisher{},
	}

	f.teacher = &models.User{ID: "teacher-001", Name: "Dr. Rahman Khan", Role: "teacher", Verified: true}
	f.student = &models.User{ID: "student-001", Name: "Ariful Islam", Role: "student", Verified: true}
	f.teacher.Email = "rahman.khan@northsouth.edu"
	f.teacher.NSUID = "FAC-1001"
	f.student.Email = "ariful.islam@northsouth.edu"
	f.student.NSUID = "2012345678"
	require.NoError(t, f.userRepo.Create(context.Background(), f.teacher))
	require.NoError(t, f.userRepo.Create(context.Background(), f.student))

	f.service = service.NewUploadService(
		f.reportRepo,
		f.userRepo,
		f.storage,
		similarity.NewRandomEstimator(rand.NewSource(1)),
		f.publisher,
		service.UploadConfig{MaxFileSize: maxFileSize},
		zerolog.Nop(),
	)

	return f
}

func TestAdmitUpload_StudentPending(t *testing.T) {
	f := newUploadFixture(t)

	resp, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     f.student.ID,
		StudentID:   f.student.ID,
		FileName:    "CSE327_Project_Proposal.pdf",
		FileContent: []byte("proposal body"),
	})
	require.NoError(t, err)

	report := resp.Report
	assert.Equal(t, "pending", report.Status)
	assert.Nil(t, report.SimilarityPercentage, "student uploads are not scored at admission")
	assert.Empty(t, report.Matches)
	assert.Equal(t, "pdf", report.FileType)
	assert.Equal(t, f.student.ID, report.UploadedBy)
	assert.Equal(t, f.student.Name, report.StudentName)
	assert.NotEmpty(t, report.FileHash)
	assert.Equal(t, 1, f.storage.count(), "blob must be persisted")
	assert.GreaterOrEqual(t, resp.EstimatedSeconds, 5)
}

func TestAdmitUpload_TeacherProcessingWithEstimate(t *testing.T) {
	f := newUploadFixture(t)

	resp, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     f.teacher.ID,
		StudentID:   f.student.ID,
		FileName:    "CSE311_Final_Report.pdf",
		FileContent: bytes.Repeat([]byte("a"), 2048),
	})
	require.NoError(t, err)

	report := resp.Report
	assert.Equal(t, "processing", report.Status)
	require.NotNil(t, report.SimilarityPercentage)
	assert.GreaterOrEqual(t, *report.SimilarityPercentage, 0)
	assert.Less(t, *report.SimilarityPercentage, 50)
	require.Len(t, report.Matches, 1)
	assert.Len(t, report.Matches[0].LeftLines, 20)
	assert.Equal(t, []int{2, 5, 9, 14}, report.Matches[0].LeftMatches)
	assert.Equal(t, f.teacher.ID, report.UploadedBy)
	assert.Equal(t, f.student.ID, report.StudentID)
}

func TestAdmitUpload_RejectsOversizedFile(t *testing.T) {
	f := newUploadFixture(t)

	// 11 MiB
	content := bytes.Repeat([]byte("x"), 11*1024*1024)

	_, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     f.student.ID,
		StudentID:   f.student.ID,
		FileName:    "huge.pdf",
		FileContent: content,
	})

	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 0, f.reportRepo.count(), "no report may be persisted on failure")
	assert.Equal(t, 0, f.storage.count(), "no blob may be persisted on failure")
}

func TestAdmitUpload_RejectsUnsupportedType(t *testing.T) {
	f := newUploadFixture(t)

	for _, name := range []string{"notes.txt", "archive.zip", "report"} {
		_, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
			ActorID:     f.student.ID,
			StudentID:   f.student.ID,
			FileName:    name,
			FileContent: []byte("content"),
		})
		assert.ErrorIs(t, err, service.ErrValidation, "file %q", name)
	}
}

func TestAdmitUpload_RejectsEmptyFile(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:   f.student.ID,
		StudentID: f.student.ID,
		FileName:  "report.pdf",
	})

	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAdmitUpload_UnknownActorAndStudent(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     "ghost",
		StudentID:   f.student.ID,
		FileName:    "report.pdf",
		FileContent: []byte("content"),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     f.teacher.ID,
		StudentID:   "ghost",
		FileName:    "report.pdf",
		FileContent: []byte("content"),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdmitUpload_CleansUpBlobWhenInsertFails(t *testing.T) {
	f := newUploadFixture(t)
	f.reportRepo.failCreate = errors.New("insert failed")

	_, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     f.student.ID,
		StudentID:   f.student.ID,
		FileName:    "report.docx",
		FileContent: []byte("content"),
	})

	require.Error(t, err)
	assert.Equal(t, 0, f.storage.count(), "orphaned blob must be removed")
}

func TestAdmitUpload_PublishesEvent(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.service.AdmitUpload(context.Background(), &models.UploadRequest{
		ActorID:     f.teacher.ID,
		StudentID:   f.student.ID,
		FileName:    "CSE311_Final_Report.pdf",
		FileContent: []byte("content"),
	})
	require.NoError(t, err)

	require.Len(t, f.publisher.uploaded, 1)
	event := f.publisher.uploaded[0]
	assert.Equal(t, "processing", event.Status)
	assert.Equal(t, f.teacher.ID, event.UploadedBy)
	assert.WithinDuration(t, time.Now(), time.Unix(event.Timestamp, 0), time.Minute)
}
