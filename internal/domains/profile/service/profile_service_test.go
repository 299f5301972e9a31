package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"strings"
	"testing"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/repository"
	"oneshot-backend/internal/infrastructure/qrcode"
	"oneshot-backend/internal/shared"
	"oneshot-backend/internal/shared/apperror"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: shared.QueueDefault, Type: task.Type()}, nil
}

func newTestService(t *testing.T, q *fakeQueue) (*ProfileService, *Generator) {
	t.Helper()
	g, _ := newTestGenerator(t, defaultTemplate)
	repo := repository.NewMemoryRepository(repository.SeedProfiles()...)

	svc := &ProfileService{
		repo:        repo,
		generator:   g,
		qr:          qrcode.NewEncoder(nil),
		frontendURL: "http://localhost:3000",
	}
	// a nil *fakeQueue must not end up as a non-nil interface
	if q != nil {
		svc.queue = q
	}
	return svc, g
}

func TestListProfiles_PublicOnlyWithFilters(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	all, err := svc.ListProfiles(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Count)
	assert.Equal(t, "jordan-davis", all.Profiles[0].Slug)

	none, err := svc.ListProfiles(ctx, model.ListFilter{School: "westview"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Count)

	byYear, err := svc.ListProfiles(ctx, model.ListFilter{Year: 2024, Position: "quarter"})
	require.NoError(t, err)
	assert.Equal(t, 1, byYear.Count)
}

func TestGetProfile_HidesPrivate(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.GetProfile(context.Background(), "2")

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetProfile_ReportsGeneratedPage(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	before, err := svc.GetProfile(ctx, "1")
	require.NoError(t, err)
	assert.False(t, before.HasGeneratedHTML)
	assert.Nil(t, before.HTMLURL)

	_, err = svc.RegenerateProfile(ctx, "1", "http://localhost:3000", false)
	require.NoError(t, err)

	after, err := svc.GetProfile(ctx, "1")
	require.NoError(t, err)
	assert.True(t, after.HasGeneratedHTML)
	require.NotNil(t, after.HTMLURL)
	assert.Equal(t, "/profiles/jordan-davis.html", *after.HTMLURL)
}

func TestCreateProfile(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProfile(ctx, model.ProfileRequest{
		FullName:        "Alex O'Brien",
		PrimaryPosition: "Linebacker",
		HighSchoolName:  "Central High",
	}, "user-9")

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alex-obrien", created.Slug)
	assert.Equal(t, "user-9", created.UserID)
	assert.True(t, created.Public)

	_, err = svc.CreateProfile(ctx, model.ProfileRequest{
		FullName:        "Alex OBrien",
		PrimaryPosition: "Linebacker",
		HighSchoolName:  "Central High",
	}, "")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreateProfile_ValidationMessages(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.CreateProfile(context.Background(), model.ProfileRequest{FullName: "J"}, "")

	require.Error(t, err)
	fields := apperror.FieldsOf(err)
	require.Len(t, fields, 3)
	assert.Equal(t, apperror.FieldError{Field: "fullName", Message: "Full name is required (min 2 characters)"}, fields[0])
	assert.Equal(t, apperror.FieldError{Field: "primaryPosition", Message: "Position is required"}, fields[1])
	assert.Equal(t, apperror.FieldError{Field: "highSchoolName", Message: "School name is required"}, fields[2])
}

func TestGeneratePage_EndToEnd(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res, err := svc.GeneratePage(context.Background(), model.ProfileRequest{
		FullName:        "Jordan Davis",
		PrimaryPosition: "Wide Receiver",
		HighSchoolName:  "Lincoln High",
		GraduationYear:  2024,
	}, "http://localhost:3000")

	require.NoError(t, err)
	assert.Equal(t, "jordan-davis", res.Slug)
	assert.Equal(t, "http://localhost:3000/profiles/jordan-davis.html", res.ProfileURL)
	assert.True(t, strings.HasSuffix(res.FilePath, "profiles/jordan-davis.html"))

	html, err := os.ReadFile(res.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Jordan Davis")
}

func TestGeneratePage_RejectsInvalidInput(t *testing.T) {
	svc, g := newTestService(t, nil)

	_, err := svc.GeneratePage(context.Background(), model.ProfileRequest{FullName: "Jordan Davis"}, "http://localhost:3000")

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.False(t, g.Exists("jordan-davis"))
}

func TestRegenerateProfile_Async(t *testing.T) {
	q := &fakeQueue{}
	svc, g := newTestService(t, q)

	res, err := svc.RegenerateProfile(context.Background(), "1", "http://api.test", true)

	require.NoError(t, err)
	assert.Equal(t, "http://api.test/profiles/jordan-davis.html", res.ProfileURL)
	assert.Empty(t, res.FilePath)
	assert.False(t, g.Exists("jordan-davis"), "async mode must not render inline")

	require.Len(t, q.tasks, 1)
	assert.Equal(t, shared.TypeGenerateProfile, q.tasks[0].Type())
	var payload shared.GenerateProfilePayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "1", payload.ProfileID)
	assert.Equal(t, "http://api.test", payload.BaseURL)
}

func TestRegenerateProfile_EnqueueFailure(t *testing.T) {
	svc, _ := newTestService(t, &fakeQueue{err: errors.New("redis down")})

	_, err := svc.RegenerateProfile(context.Background(), "1", "http://api.test", true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}

func TestQRCode(t *testing.T) {
	svc, _ := newTestService(t, nil)

	// QR codes are available for private profiles too
	resp, err := svc.QRCode(context.Background(), "2")

	require.NoError(t, err)
	assert.Equal(t, "riley-smith", resp.Profile.Slug)
	assert.Equal(t, "http://localhost:3000/athlete/2", resp.QRCode.ProfileURL)
	assert.Equal(t, "256x256", resp.QRCode.Size)
	assert.Equal(t, "/api/profiles/2/qr/download", resp.QRCode.DownloadURL)
	assert.True(t, strings.HasPrefix(resp.QRCode.DataURL, "data:image/png;base64,"))
}

func TestQRCodePNG(t *testing.T) {
	svc, _ := newTestService(t, nil)

	data, slug, err := svc.QRCodePNG(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, "jordan-davis", slug)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())

	_, _, err = svc.QRCodePNG(context.Background(), "404")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestExportProfilesToExcel(t *testing.T) {
	svc, _ := newTestService(t, nil)

	f, count, err := svc.ExportProfilesToExcel(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 1, count)
	header, err := f.GetCellValue(rosterSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)
	name, err := f.GetCellValue(rosterSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Davis", name)
	page, err := f.GetCellValue(rosterSheet, "Q2")
	require.NoError(t, err)
	assert.Equal(t, "/profiles/jordan-davis.html", page)
}

func TestRosterFileName(t *testing.T) {
	assert.Equal(t, "roster.xlsx", RosterFileName(model.ListFilter{}))
	assert.Equal(t, "roster-wide-receiver-lincoln-high.xlsx",
		RosterFileName(model.ListFilter{Position: "Wide Receiver", School: "Lincoln High"}))
}
