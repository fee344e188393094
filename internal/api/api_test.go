package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/paulmach/orb"

	"github.com/Greggwolin/landscape-sub008/internal/config"
	"github.com/Greggwolin/landscape-sub008/internal/demographics"
	"github.com/Greggwolin/landscape-sub008/internal/geocode"
	"github.com/Greggwolin/landscape-sub008/internal/store"
)

func newTestServer(t *testing.T) (*echo.Echo, *Server) {
	t.Helper()
	e := echo.New()
	s := &Server{Cfg: &config.Config{
		RingRadiiMiles:     []float64{1, 3, 5},
		RingSegments:       64,
		MapPointCategories: []string{"competitor", "amenity", "poi", "custom"},
		SnapshotTTLSeconds: 3600,
	}}
	s.Register(e.Group("/api"))
	return e, s
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

type stubUnitTypes struct {
	createErr error
	rows      []store.UnitType
}

func (s *stubUnitTypes) ListUnitTypes(ctx context.Context, projectID int64) ([]store.UnitType, error) {
	return s.rows, nil
}

func (s *stubUnitTypes) CreateUnitType(ctx context.Context, u *store.UnitType) error {
	if s.createErr != nil {
		return s.createErr
	}
	u.UnitTypeID = 7
	return nil
}

func (s *stubUnitTypes) DeleteUnitType(ctx context.Context, id int64) error { return nil }

func TestCreateUnitTypeDuplicateCode(t *testing.T) {
	e, s := newTestServer(t)
	s.UnitTypes = &stubUnitTypes{createErr: &pq.Error{Code: "23505"}}

	rec := doJSON(e, http.MethodPost, "/api/projects/1/unit-types", `{"code":"B2","name":"2BR/2BA"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("success should be false on conflict")
	}
	if !strings.Contains(env.Error, "already exists") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestCreateUnitTypeRequiresCode(t *testing.T) {
	e, s := newTestServer(t)
	s.UnitTypes = &stubUnitTypes{}

	rec := doJSON(e, http.MethodPost, "/api/projects/1/unit-types", `{"name":"Studio"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateUnitTypeOK(t *testing.T) {
	e, s := newTestServer(t)
	s.UnitTypes = &stubUnitTypes{}

	rec := doJSON(e, http.MethodPost, "/api/projects/3/unit-types", `{"code":"A1","name":"1BR"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("success = false, error %q", env.Error)
	}
}

type stubLeases struct {
	buckets []store.ExpirationBucket
}

func (s *stubLeases) ListLeases(ctx context.Context, projectID int64) ([]store.Lease, error) {
	return nil, nil
}
func (s *stubLeases) GetLease(ctx context.Context, id int64) (*store.Lease, error) {
	return nil, store.ErrNotFound
}
func (s *stubLeases) CreateLease(ctx context.Context, l *store.Lease) error { return nil }
func (s *stubLeases) UpdateLease(ctx context.Context, l *store.Lease) error { return nil }
func (s *stubLeases) DeleteLease(ctx context.Context, id int64) error       { return nil }
func (s *stubLeases) LeaseExpirations(ctx context.Context, projectID int64) ([]store.ExpirationBucket, error) {
	return s.buckets, nil
}

func TestLeaseExpirationsReport(t *testing.T) {
	e, s := newTestServer(t)
	s.Leases = &stubLeases{buckets: []store.ExpirationBucket{
		{Month: "2026-09", Count: 3, MonthlyRent: 5400},
		{Month: "2026-11", Count: 1, MonthlyRent: 1750},
	}}

	rec := doJSON(e, http.MethodGet, "/api/projects/12/reports/lease-expirations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Success bool                     `json:"success"`
		Data    []store.ExpirationBucket `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 2 || body.Data[0].Month != "2026-09" || body.Data[1].Count != 1 {
		t.Fatalf("unexpected report: %+v", body.Data)
	}
}

func TestLeaseCreateRejectsInvertedDates(t *testing.T) {
	e, s := newTestServer(t)
	s.Leases = &stubLeases{}

	rec := doJSON(e, http.MethodPost, "/api/projects/1/leases",
		`{"unit_label":"101","lease_start":"2026-06-01T00:00:00Z","lease_end":"2026-01-01T00:00:00Z"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

type stubFetcher struct {
	lastCenter  orb.Point
	lastID      int64
	lastRefresh bool
	resp        *demographics.Response
	err         error
}

func (s *stubFetcher) Fetch(ctx context.Context, center orb.Point, projectID int64, refresh bool) (*demographics.Response, error) {
	s.lastCenter = center
	s.lastID = projectID
	s.lastRefresh = refresh
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubProjects struct {
	project *store.Project
}

func (s *stubProjects) ListProjects(ctx context.Context) ([]store.Project, error) { return nil, nil }
func (s *stubProjects) GetProject(ctx context.Context, id int64) (*store.Project, error) {
	if s.project == nil {
		return nil, store.ErrNotFound
	}
	return s.project, nil
}
func (s *stubProjects) CreateProject(ctx context.Context, p *store.Project) error { return nil }
func (s *stubProjects) UpdateProject(ctx context.Context, p *store.Project) error { return nil }
func (s *stubProjects) DeleteProject(ctx context.Context, id int64) error         { return nil }

type stubStats struct {
	incrs int
}

func (s *stubStats) GetTotals(ctx context.Context) (*store.Totals, error) {
	return &store.Totals{Total: 10, Today: 2}, nil
}
func (s *stubStats) IncrStats(ctx context.Context) { s.incrs++ }

func TestGetDemographicsByCoordinates(t *testing.T) {
	e, s := newTestServer(t)
	f := &stubFetcher{resp: &demographics.Response{CenterLng: -112.074, CenterLat: 33.448, FetchedAt: time.Now()}}
	st := &stubStats{}
	s.Demographics = f
	s.Stats = st

	rec := doJSON(e, http.MethodGet, "/api/demographics?lng=-112.074&lat=33.448&refresh=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !f.lastRefresh {
		t.Fatal("refresh flag not forwarded")
	}
	if f.lastCenter[0] != -112.074 {
		t.Fatalf("center lng = %v", f.lastCenter[0])
	}
	if st.incrs != 1 {
		t.Fatalf("incrs = %d, want 1", st.incrs)
	}
}

func TestGetDemographicsFallsBackToProjectCenter(t *testing.T) {
	e, s := newTestServer(t)
	lng, lat := -111.9, 33.4
	f := &stubFetcher{resp: &demographics.Response{}}
	s.Demographics = f
	s.Stats = &stubStats{}
	s.Projects = &stubProjects{project: &store.Project{ProjectID: 9, CenterLng: &lng, CenterLat: &lat}}

	rec := doJSON(e, http.MethodGet, "/api/demographics?project_id=9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if f.lastCenter != (orb.Point{lng, lat}) {
		t.Fatalf("center = %v", f.lastCenter)
	}
	if f.lastID != 9 {
		t.Fatalf("project id = %d", f.lastID)
	}
}

func TestGetDemographicsWithoutCenterOrProject(t *testing.T) {
	e, s := newTestServer(t)
	s.Demographics = &stubFetcher{}
	s.Stats = &stubStats{}

	rec := doJSON(e, http.MethodGet, "/api/demographics", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetRings(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/rings?lng=-112.074&lat=33.448", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			Features []struct {
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(body.Data.Features))
	}
}

func TestGetRingsBadRadii(t *testing.T) {
	e, _ := newTestServer(t)

	for _, q := range []string{
		"/api/rings?lng=-112&lat=33&radii=0,3",
		"/api/rings?lng=-112&lat=33&radii=abc",
		"/api/rings?lng=999&lat=33",
		"/api/rings?lat=33",
	} {
		rec := doJSON(e, http.MethodGet, q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestRingHitTest(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet,
		"/api/rings/hit?center_lng=-112.074&center_lat=33.448&lng=-112.074&lat=33.448", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			Hit         bool    `json:"hit"`
			RadiusMiles float64 `json:"radius_miles"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Data.Hit || body.Data.RadiusMiles != 1 {
		t.Fatalf("hit = %v radius = %v, want smallest ring", body.Data.Hit, body.Data.RadiusMiles)
	}
}

type stubGeocoder struct {
	res *geocode.Result
	err error
}

func (s *stubGeocoder) Geocode(ctx context.Context, address string) (*geocode.Result, error) {
	return s.res, s.err
}

func TestGeocodeNoMatch(t *testing.T) {
	e, s := newTestServer(t)
	s.Geocoder = &stubGeocoder{err: geocode.ErrNoMatch}

	rec := doJSON(e, http.MethodGet, "/api/geocode?address=nowhere", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGeocodeMissingAddress(t *testing.T) {
	e, s := newTestServer(t)
	s.Geocoder = &stubGeocoder{}

	rec := doJSON(e, http.MethodGet, "/api/geocode", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMapPointCategoryValidation(t *testing.T) {
	e, s := newTestServer(t)
	s.MapPoints = &stubMapPoints{}

	rec := doJSON(e, http.MethodPost, "/api/projects/1/map-points",
		`{"label":"Starbucks","category":"coffee","lng":-112.0,"lat":33.4}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/projects/1/map-points",
		`{"label":"Starbucks","category":"amenity","lng":-112.0,"lat":33.4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
}

type stubMapPoints struct{}

func (s *stubMapPoints) ListMapPoints(ctx context.Context, projectID int64) ([]store.MapPoint, error) {
	return nil, nil
}
func (s *stubMapPoints) GetMapPoint(ctx context.Context, pointID string) (*store.MapPoint, error) {
	return nil, store.ErrNotFound
}
func (s *stubMapPoints) CreateMapPoint(ctx context.Context, p *store.MapPoint) error {
	p.PointID = "pt-1"
	return nil
}
func (s *stubMapPoints) UpdateMapPoint(ctx context.Context, p *store.MapPoint) error { return nil }
func (s *stubMapPoints) DeleteMapPoint(ctx context.Context, pointID string) error    { return nil }

type stubDocuments struct {
	doc *store.Document
}

func (s *stubDocuments) ListDocuments(ctx context.Context, projectID int64) ([]store.Document, error) {
	return nil, nil
}
func (s *stubDocuments) GetDocument(ctx context.Context, docID string) (*store.Document, error) {
	if s.doc == nil || s.doc.DocID != docID {
		return nil, store.ErrNotFound
	}
	cp := *s.doc
	return &cp, nil
}
func (s *stubDocuments) CreateDocument(ctx context.Context, d *store.Document) error {
	d.DocID = "doc-1"
	return nil
}
func (s *stubDocuments) AdvanceDocumentStatus(ctx context.Context, docID, to string) (*store.Document, error) {
	d, err := s.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	next := map[string]string{"uploaded": "extracted", "extracted": "reconciled"}
	if next[d.Status] != to {
		return nil, fmt.Errorf("%w: %s -> %s", store.ErrBadTransition, d.Status, to)
	}
	d.Status = to
	s.doc.Status = to
	return d, nil
}
func (s *stubDocuments) DeleteDocument(ctx context.Context, docID string) error { return nil }

func TestAdvanceDocumentStatus(t *testing.T) {
	e, s := newTestServer(t)
	docs := &stubDocuments{doc: &store.Document{DocID: "doc-9", ProjectID: 1, Name: "psa.pdf", Status: "uploaded"}}
	s.Documents = docs

	rec := doJSON(e, http.MethodPost, "/api/documents/doc-9/status", `{"status":"extracted"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data store.Document `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Status != "extracted" {
		t.Fatalf("doc status = %q, want extracted", body.Data.Status)
	}
}

func TestAdvanceDocumentStatusSkipIsConflict(t *testing.T) {
	e, s := newTestServer(t)
	s.Documents = &stubDocuments{doc: &store.Document{DocID: "doc-9", Status: "uploaded"}}

	rec := doJSON(e, http.MethodPost, "/api/documents/doc-9/status", `{"status":"reconciled"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || !strings.Contains(env.Error, "invalid status transition") {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestAdvanceDocumentStatusBackwardsIsConflict(t *testing.T) {
	e, s := newTestServer(t)
	s.Documents = &stubDocuments{doc: &store.Document{DocID: "doc-9", Status: "reconciled"}}

	rec := doJSON(e, http.MethodPost, "/api/documents/doc-9/status", `{"status":"extracted"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAdvanceDocumentStatusUnknownDoc(t *testing.T) {
	e, s := newTestServer(t)
	s.Documents = &stubDocuments{}

	rec := doJSON(e, http.MethodPost, "/api/documents/nope/status", `{"status":"extracted"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

type stubContainers struct {
	container *store.Container
	deleteErr error
}

func (s *stubContainers) ListContainers(ctx context.Context, projectID int64) ([]store.Container, error) {
	return nil, nil
}
func (s *stubContainers) GetContainer(ctx context.Context, id int64) (*store.Container, error) {
	if s.container == nil || s.container.ContainerID != id {
		return nil, store.ErrNotFound
	}
	cp := *s.container
	return &cp, nil
}
func (s *stubContainers) CreateContainer(ctx context.Context, c *store.Container) error {
	c.ContainerID = 11
	return nil
}
func (s *stubContainers) UpdateContainer(ctx context.Context, c *store.Container) error { return nil }
func (s *stubContainers) DeleteContainer(ctx context.Context, id int64) error {
	return s.deleteErr
}

func TestUpdateContainerRejectsSelfParent(t *testing.T) {
	e, s := newTestServer(t)
	s.Containers = &stubContainers{container: &store.Container{ContainerID: 5, ProjectID: 1, ContainerType: "phase", Name: "Phase 1"}}

	rec := doJSON(e, http.MethodPut, "/api/containers/5",
		`{"name":"Phase 1","container_type":"phase","parent_id":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Error, "own parent") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestUpdateContainerOK(t *testing.T) {
	e, s := newTestServer(t)
	s.Containers = &stubContainers{container: &store.Container{ContainerID: 5, ProjectID: 1, ContainerType: "phase", Name: "Phase 1"}}

	rec := doJSON(e, http.MethodPut, "/api/containers/5",
		`{"name":"Phase 1B","container_type":"phase","parent_id":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteContainerWithChildrenIsConflict(t *testing.T) {
	e, s := newTestServer(t)
	s.Containers = &stubContainers{deleteErr: &pq.Error{Code: "23503"}}

	rec := doJSON(e, http.MethodDelete, "/api/containers/5", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Error, "referential integrity") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestCreateContainerRejectsUnknownType(t *testing.T) {
	e, s := newTestServer(t)
	s.Containers = &stubContainers{}

	rec := doJSON(e, http.MethodPost, "/api/projects/1/containers",
		`{"name":"Tower A","container_type":"building"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	e, s := newTestServer(t)
	s.Projects = &stubProjects{}

	rec := doJSON(e, http.MethodGet, "/api/projects/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == "" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestBadPathID(t *testing.T) {
	e, s := newTestServer(t)
	s.Projects = &stubProjects{}

	rec := doJSON(e, http.MethodGet, "/api/projects/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
