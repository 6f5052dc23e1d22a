package legislator

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenhub/internal/auth"
	"citizenhub/internal/officials"
	"citizenhub/pkg/database"
	"citizenhub/pkg/models"
)

const payload = `{"officials": [
	{"id": 1, "first_name": "Ada", "last_name": "Lovelace", "term_start": "2021-01-03 00:00:00",
	 "party": "D", "photo": "https://example.org/ada.jpg",
	 "office_details": {"position": "Senator", "state": "CA", "district": {"type": "NATIONAL_UPPER"}},
	 "socials": [{"identifier_type": "twitter", "identifier_value": "ada"}]},
	{"id": 2, "first_name": "Grace", "last_name": "Hopper", "term_start": "2019-01-07 00:00:00",
	 "term_end": "2023-01-02 00:00:00", "party": "R", "photo": "",
	 "office_details": {"position": "Governor", "state": "NY", "district": {"type": "STATE_EXEC"}},
	 "socials": []},
	{"id": 3, "first_name": "Alan", "last_name": "Turing", "term_start": "2020-01-01 00:00:00",
	 "party": "", "photo": "https://example.org/alan.jpg",
	 "office_details": {"position": "Representative", "state": "CA", "district": {"type": "NATIONAL_LOWER", "id": "12"}},
	 "socials": []}
]}`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func testBundle() *officials.BundleSource {
	return &officials.BundleSource{FS: fstest.MapFS{
		"Springfield ZZ.json": {Data: []byte(payload)},
		"Broken ZZ.json":      {Data: []byte(`{"officials": [{"id": 1}]}`)},
	}}
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	ls, err := testBundle().Legislators(context.Background(), "Springfield, ZZ")
	require.NoError(t, err)
	require.NoError(t, officials.SaveToDatabase(context.Background(), db, "bundle", ls))
}

func TestRepo_GetByID(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewRepo(db)
	ctx := context.Background()

	l, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "Grace Hopper", l.Name)
	assert.Equal(t, models.KindStateExecutive, l.Office.Kind)
	assert.Equal(t, models.NewYork, l.Office.State)
	assert.Equal(t, "Governor", l.Office.Title)
	assert.Equal(t, officials.PlaceholderImageURL, l.ImageURL)
	require.NotNil(t, l.TermEnd)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), *l.TermEnd)
	assert.Equal(t, "bundle", l.Source)
	assert.NotNil(t, l.SyncedAt)

	back, err := l.Legislator()
	require.NoError(t, err)
	assert.Equal(t, models.StateExecutive{Title: "Governor", State: models.NewYork}, back.Office)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepo_ListAndCount(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewRepo(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		q     ListQuery
		names []string
	}{
		{"all sorted by name", ListQuery{}, []string{"Ada Lovelace", "Alan Turing", "Grace Hopper"}},
		{"state by name", ListQuery{State: "california"}, []string{"Ada Lovelace", "Alan Turing"}},
		{"state by code", ListQuery{State: "NY"}, []string{"Grace Hopper"}},
		{"party code", ListQuery{Party: "d"}, []string{"Ada Lovelace"}},
		{"unknown party", ListQuery{Party: "unknown"}, []string{"Alan Turing"}},
		{"office kind", ListQuery{OfficeKind: "House_Representative"}, []string{"Alan Turing"}},
		{"search office title", ListQuery{Q: "district 12"}, []string{"Alan Turing"}},
		{"search name", ListQuery{Q: "HOPPER"}, []string{"Grace Hopper"}},
		{"paging", ListQuery{Limit: 1, Offset: 1}, []string{"Alan Turing"}},
		{"no match", ListQuery{State: "TX"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.q)
			require.NoError(t, err)
			names := []string{}
			for _, it := range items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.names, names)

			if tt.q.Limit == 0 {
				total, err := repo.Count(ctx, tt.q)
				require.NoError(t, err)
				assert.Equal(t, len(tt.names), total)
			}
		})
	}
}

func TestListQuery_Normalized(t *testing.T) {
	tests := []struct {
		in         ListQuery
		limit, off int
	}{
		{ListQuery{}, 20, 0},
		{ListQuery{Limit: -1, Offset: -5}, 20, 0},
		{ListQuery{Limit: 1 << 30}, 20, 0},
		{ListQuery{Limit: 100, Offset: 7}, 100, 7},
		{ListQuery{Limit: 101}, 20, 0},
	}
	for _, tt := range tests {
		got := tt.in.Normalized()
		assert.Equal(t, tt.limit, got.Limit, "%+v", tt.in)
		assert.Equal(t, tt.off, got.Offset, "%+v", tt.in)
	}
}

func TestRepo_ListOutOfRangePaging(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewRepo(db)
	ctx := context.Background()

	for _, q := range []ListQuery{{Limit: -1}, {Limit: 1 << 30}, {Limit: 1 << 62, Offset: -3}} {
		var items []models.LegislatorDB
		require.NotPanics(t, func() {
			var err error
			items, err = repo.List(ctx, q)
			require.NoError(t, err)
		})
		assert.Len(t, items, 3)
	}
}

type testEnv struct {
	router *gin.Engine
	tokens auth.TokenService
	db     *sql.DB
}

func newTestEnv(t *testing.T, remote *officials.RemoteSource) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	svc := officials.NewService(remote, testBundle(), nil, nil)
	tokens := auth.TokenService{Secret: []byte("test-secret"), Issuer: "citizenhub", Duration: time.Hour}

	r := gin.New()
	NewHandler(NewRepo(db), svc).RegisterRoutes(r.Group("/legislators"))
	NewAdminHandler(officials.NewSyncer(svc, db, nil, nil, nil), tokens).RegisterRoutes(r.Group("/admin"))
	return testEnv{router: r, tokens: tokens, db: db}
}

func (e testEnv) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type itemsBody struct {
	Total int                   `json:"total"`
	Items []models.LegislatorDB `json:"items"`
}

func TestHandler_Local(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/legislators/local?city=Springfield,+ZZ", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body itemsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 3)
	assert.Equal(t, "Ada Lovelace", body.Items[0].Name)
	assert.Equal(t, models.KindSenator, body.Items[0].Office.Kind)

	w = env.do(t, http.MethodGet, "/legislators/local?city=Atlantis", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = itemsBody{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Items)
	assert.Empty(t, body.Items)

	w = env.do(t, http.MethodGet, "/legislators/local?city=Broken,+ZZ", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_Lookup(t *testing.T) {
	t.Run("remote disabled", func(t *testing.T) {
		env := newTestEnv(t, nil)
		w := env.do(t, http.MethodGet, "/legislators/lookup?address=1+Main+St", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("address") {
		case "down":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		case "garbage":
			_, _ = io.WriteString(w, `{"officials": "nope"}`)
		default:
			_, _ = io.WriteString(w, payload)
		}
	}))
	defer upstream.Close()
	env := newTestEnv(t, officials.NewRemoteSource(upstream.URL, "k", 5*time.Second, nil))

	w := env.do(t, http.MethodGet, "/legislators/lookup?address=1+Main+St", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body itemsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 3)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/legislators/lookup?address=", "", "").Code)
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodGet, "/legislators/lookup?address=down", "", "").Code)
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodGet, "/legislators/lookup?address=garbage", "", "").Code)
}

func TestHandler_ListAndGet(t *testing.T) {
	env := newTestEnv(t, nil)
	seed(t, env.db)

	w := env.do(t, http.MethodGet, "/legislators?state=CA&limit=10", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body itemsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Len(t, body.Items, 2)

	w = env.do(t, http.MethodGet, "/legislators/3", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var l models.LegislatorDB
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, "Alan Turing", l.Name)
	assert.Equal(t, 12, l.Office.District)

	for _, target := range []string{"/legislators?limit=-1", "/legislators?limit=100000000&offset=-2"} {
		w = env.do(t, http.MethodGet, target, "", "")
		require.Equal(t, http.StatusOK, w.Code, target)
		var page struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
			Total  int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 20, page.Limit, target)
		assert.Equal(t, 0, page.Offset, target)
		assert.Equal(t, 3, page.Total, target)
	}

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/legislators/404", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/legislators/abc", "", "").Code)
}

func TestAdminSync(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"cities": ["Springfield, ZZ"]}`

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/admin/sync", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/admin/sync", body, "not-a-jwt").Code)

	token, _, err := env.tokens.Sign(auth.OperatorSubject)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/admin/sync", `{}`, token).Code)

	w := env.do(t, http.MethodPost, "/admin/sync", body, token)
	require.Equal(t, http.StatusOK, w.Code)
	var report officials.SyncReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 3, report.Results[0].Count)

	total, err := NewRepo(env.db).Count(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
