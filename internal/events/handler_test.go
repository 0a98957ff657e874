package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedo/server/internal/events"
	"github.com/schedo/server/internal/middleware"
	"github.com/schedo/server/internal/models"
	"github.com/schedo/server/pkg/response"
)

// ---------- Mocks ----------

var errNotFound = errors.New("no rows in result set")

type mockEventStore struct {
	events   map[uuid.UUID]*models.Event
	archives map[uuid.UUID]*models.ArchivedEvent
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{
		events:   make(map[uuid.UUID]*models.Event),
		archives: make(map[uuid.UUID]*models.ArchivedEvent),
	}
}

func (m *mockEventStore) Create(_ context.Context, e *models.Event) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	e.IsActive = true
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, errNotFound
	}
	return e, nil
}

func (m *mockEventStore) ListPublic(_ context.Context) ([]models.Event, error) {
	var list []models.Event
	for _, e := range m.events {
		if e.IsPublic {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (m *mockEventStore) ListByCreator(_ context.Context, userID uuid.UUID) ([]models.Event, error) {
	var list []models.Event
	for _, e := range m.events {
		if e.CreatedBy == userID {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (m *mockEventStore) Update(_ context.Context, e *models.Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return errNotFound
	}
	e.UpdatedAt = time.Now()
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventStore) GetArchiveByID(_ context.Context, id uuid.UUID) (*models.ArchivedEvent, error) {
	a, ok := m.archives[id]
	if !ok {
		return nil, errNotFound
	}
	return a, nil
}

func (m *mockEventStore) ListArchivesByCreator(_ context.Context, userID uuid.UUID) ([]models.ArchivedEvent, error) {
	var list []models.ArchivedEvent
	for _, a := range m.archives {
		if a.CreatedBy == userID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (m *mockEventStore) Archive(_ context.Context, eventID uuid.UUID) (*models.ArchivedEvent, error) {
	e, ok := m.events[eventID]
	if !ok {
		return nil, errNotFound
	}
	a := models.ArchivedEvent(*e)
	a.ID = uuid.New()
	m.archives[a.ID] = &a
	delete(m.events, eventID)
	return &a, nil
}

func (m *mockEventStore) Restore(_ context.Context, archiveID uuid.UUID) (*models.Event, error) {
	a, ok := m.archives[archiveID]
	if !ok {
		return nil, errNotFound
	}
	e := models.Event(*a)
	e.ID = uuid.New()
	m.events[e.ID] = &e
	delete(m.archives, archiveID)
	return &e, nil
}

func (m *mockEventStore) DeleteArchive(_ context.Context, id uuid.UUID) error {
	delete(m.archives, id)
	return nil
}

func (m *mockEventStore) RestoreAllByCreator(ctx context.Context, userID uuid.UUID) (int, error) {
	var ids []uuid.UUID
	for id, a := range m.archives {
		if a.CreatedBy == userID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		if _, err := m.Restore(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (m *mockEventStore) DeleteAllArchivesByCreator(_ context.Context, userID uuid.UUID) (int, error) {
	var ids []uuid.UUID
	for id, a := range m.archives {
		if a.CreatedBy == userID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(m.archives, id)
	}
	return len(ids), nil
}

type mockThumbnails struct {
	uploads int
	deleted []string
	url     string
	err     error
}

func (m *mockThumbnails) UploadThumbnail(_ context.Context, key, contentType string, _ io.Reader) (string, error) {
	m.uploads++
	if m.err != nil {
		return "", m.err
	}
	return m.url + key, nil
}

func (m *mockThumbnails) DeleteThumbnail(_ context.Context, thumbnailURL string) bool {
	m.deleted = append(m.deleted, thumbnailURL)
	return true
}

type mockCounter struct {
	totals   map[uuid.UUID]int
	redeemed map[uuid.UUID]int
}

func (m *mockCounter) CountByEvent(_ context.Context, eventID uuid.UUID) (int, int, error) {
	return m.totals[eventID], m.redeemed[eventID], nil
}

type mockEmailLogs struct {
	logs map[uuid.UUID][]models.EmailLog
}

func (m *mockEmailLogs) ListByEvent(_ context.Context, eventID uuid.UUID) ([]models.EmailLog, error) {
	return m.logs[eventID], nil
}

// ---------- Test setup ----------

type fixture struct {
	router     *gin.Engine
	store      *mockEventStore
	thumbnails *mockThumbnails
	counter    *mockCounter
	emailLogs  *mockEmailLogs
	userID     uuid.UUID
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		store:      newMockEventStore(),
		thumbnails: &mockThumbnails{url: "https://cdn.example.com/"},
		counter:    &mockCounter{totals: map[uuid.UUID]int{}, redeemed: map[uuid.UUID]int{}},
		emailLogs:  &mockEmailLogs{logs: map[uuid.UUID][]models.EmailLog{}},
		userID:     uuid.New(),
	}
	h := events.NewHandler(f.store, f.thumbnails, f.counter, f.emailLogs, nil)

	auth := func(c *gin.Context) { c.Set(middleware.ContextUserID, f.userID) }

	r := gin.New()
	r.GET("/events/public/", h.ListPublic)
	r.GET("/events/event/:id/", h.GetByID)
	r.GET("/events/user/", auth, h.ListUserEvents)
	r.GET("/events/archives/", auth, h.ListArchives)
	r.GET("/events/attendance/", auth, h.Attendance)
	r.GET("/events/event/:id/emails/", auth, h.ListEmailLogs)
	r.POST("/events/create/", auth, h.Create)
	r.PUT("/events/update/:id/", auth, h.Update)
	r.POST("/events/archive/:id/", auth, h.Archive)
	r.POST("/events/restore/:id/", auth, h.Restore)
	r.DELETE("/events/delete/:id/", auth, h.Delete)
	r.POST("/events/archives/restore/all/", auth, h.RestoreAll)
	r.DELETE("/events/archives/delete/all/", auth, h.DeleteAll)
	f.router = r
	return f
}

func (f *fixture) seedEvent(owner uuid.UUID, title string, public bool) *models.Event {
	e := &models.Event{
		ID:        uuid.New(),
		Title:     title,
		StartDate: "2026-09-12",
		EndDate:   "2026-09-12",
		StartTime: "18:00",
		EndTime:   "21:00",
		Location:  "Berlin",
		Category:  "tech",
		MeetingID: "000",
		CreatedBy: owner,
		IsActive:  true,
		IsPublic:  public,
	}
	f.store.events[e.ID] = e
	return e
}

func (f *fixture) doForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Body {
	t.Helper()
	var body response.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func baseForm(title string) url.Values {
	return url.Values{
		"title":      {title},
		"start_date": {"2026-09-12"},
		"end_date":   {"2026-09-12"},
		"start_time": {"18:00"},
		"end_time":   {"21:00"},
		"location":   {"Berlin"},
		"category":   {"tech"},
	}
}

// ---------- Tests ----------

func TestCreateEvent(t *testing.T) {
	f := newFixture()

	rec := f.doForm(t, "/events/create/", baseForm("Go Meetup"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, f.store.events, 1)
	for _, e := range f.store.events {
		assert.Equal(t, "Go Meetup", e.Title)
		assert.Equal(t, f.userID, e.CreatedBy)
		assert.Equal(t, "000", e.MeetingID)
		assert.False(t, e.IsPublic)
	}
	assert.Zero(t, f.thumbnails.uploads)
}

func TestCreateEvent_MissingFields(t *testing.T) {
	f := newFixture()

	form := baseForm("Go Meetup")
	form.Del("location")
	rec := f.doForm(t, "/events/create/", form)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.StatusError, decodeBody(t, rec).Status)
}

func TestListPublic_FiltersPrivateEvents(t *testing.T) {
	f := newFixture()
	f.seedEvent(uuid.New(), "Open Conf", true)
	f.seedEvent(uuid.New(), "Private Standup", false)

	rec := f.doJSON(t, http.MethodGet, "/events/public/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec).Data.(map[string]interface{})
	list := data["events"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Open Conf", list[0].(map[string]interface{})["title"])
}

func TestUpdateEvent_PartialAndOwnerOnly(t *testing.T) {
	f := newFixture()
	mine := f.seedEvent(f.userID, "Original", false)
	theirs := f.seedEvent(uuid.New(), "Not Mine", false)

	rec := f.doJSON(t, http.MethodPut, "/events/update/"+mine.ID.String()+"/", map[string]interface{}{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Renamed", f.store.events[mine.ID].Title)
	assert.Equal(t, "Berlin", f.store.events[mine.ID].Location)

	rec = f.doJSON(t, http.MethodPut, "/events/update/"+theirs.ID.String()+"/", map[string]interface{}{"title": "Hijacked"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You are not authorized to edit this event", decodeBody(t, rec).Message)
	assert.Equal(t, "Not Mine", f.store.events[theirs.ID].Title)
}

func TestArchiveRestore_RoundTrip(t *testing.T) {
	f := newFixture()
	e := f.seedEvent(f.userID, "Go Meetup", true)

	rec := f.doJSON(t, http.MethodPost, "/events/archive/"+e.ID.String()+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, f.store.events)
	require.Len(t, f.store.archives, 1)

	var archiveID uuid.UUID
	for id, a := range f.store.archives {
		archiveID = id
		assert.Equal(t, "Go Meetup", a.Title)
		assert.Equal(t, f.userID, a.CreatedBy)
		assert.NotEqual(t, e.ID, a.ID)
	}

	rec = f.doJSON(t, http.MethodPost, "/events/restore/"+archiveID.String()+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, f.store.archives)
	require.Len(t, f.store.events, 1)
	for _, restored := range f.store.events {
		assert.Equal(t, "Go Meetup", restored.Title)
		assert.True(t, restored.IsPublic)
	}
}

func TestArchive_NonOwnerForbidden(t *testing.T) {
	f := newFixture()
	e := f.seedEvent(uuid.New(), "Not Mine", false)

	rec := f.doJSON(t, http.MethodPost, "/events/archive/"+e.ID.String()+"/", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, f.store.events, 1)
	assert.Empty(t, f.store.archives)
}

func TestDeleteEvent_RemovesThumbnail(t *testing.T) {
	f := newFixture()
	e := f.seedEvent(f.userID, "Go Meetup", false)
	e.Thumbnail = "https://cdn.example.com/thumbnails/x.png"

	rec := f.doJSON(t, http.MethodDelete, "/events/delete/"+e.ID.String()+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Event deleted successfully", decodeBody(t, rec).Message)
	assert.Empty(t, f.store.events)
	assert.Equal(t, []string{"https://cdn.example.com/thumbnails/x.png"}, f.thumbnails.deleted)
}

func TestDeleteEvent_NonOwnerForbidden(t *testing.T) {
	f := newFixture()
	e := f.seedEvent(uuid.New(), "Not Mine", false)

	rec := f.doJSON(t, http.MethodDelete, "/events/delete/"+e.ID.String()+"/", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, f.store.events, 1)
}

func TestBulkArchiveOperations(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		e := f.seedEvent(f.userID, "Mine", false)
		a := models.ArchivedEvent(*e)
		a.ID = uuid.New()
		f.store.archives[a.ID] = &a
		delete(f.store.events, e.ID)
	}
	other := f.seedEvent(uuid.New(), "Theirs", false)
	oa := models.ArchivedEvent(*other)
	oa.ID = uuid.New()
	f.store.archives[oa.ID] = &oa
	delete(f.store.events, other.ID)

	rec := f.doJSON(t, http.MethodPost, "/events/archives/restore/all/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec).Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["restored"])
	assert.Len(t, f.store.events, 3)
	assert.Len(t, f.store.archives, 1)

	rec = f.doJSON(t, http.MethodDelete, "/events/archives/delete/all/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec).Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["deleted"])
}

func TestAttendanceSummary(t *testing.T) {
	f := newFixture()
	e := f.seedEvent(f.userID, "Go Meetup", true)
	f.seedEvent(uuid.New(), "Theirs", true)
	f.counter.totals[e.ID] = 42
	f.counter.redeemed[e.ID] = 17

	rec := f.doJSON(t, http.MethodGet, "/events/attendance/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec).Data.(map[string]interface{})
	list := data["attendance"].([]interface{})
	require.Len(t, list, 1)
	entry := list[0].(map[string]interface{})
	assert.Equal(t, "Go Meetup", entry["title"])
	assert.Equal(t, float64(42), entry["attendees"])
	assert.Equal(t, float64(17), entry["redeemed"])
}

func TestListEmailLogs_OwnerOnly(t *testing.T) {
	f := newFixture()
	mine := f.seedEvent(f.userID, "Mine", false)
	theirs := f.seedEvent(uuid.New(), "Theirs", false)
	f.emailLogs.logs[mine.ID] = []models.EmailLog{{Recipient: "ada@example.com", Status: models.EmailStatusSent}}

	rec := f.doJSON(t, http.MethodGet, "/events/event/"+mine.ID.String()+"/emails/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec).Data.(map[string]interface{})
	assert.Len(t, data["emails"], 1)

	rec = f.doJSON(t, http.MethodGet, "/events/event/"+theirs.ID.String()+"/emails/", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
