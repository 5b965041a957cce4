package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/Filmorate/internal/database/memory"
	"github.com/GoArmGo/Filmorate/internal/domain"
	"github.com/GoArmGo/Filmorate/internal/logger"
	"github.com/GoArmGo/Filmorate/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.Discard()
	films := memory.NewFilmStorage(log)
	users := memory.NewUserStorage(log)
	catalog := memory.NewCatalogStorage()

	router := NewRouter(Handlers{
		Films:   NewFilmHandler(usecase.NewFilmUseCase(films, users, catalog, nil, log), log),
		Users:   NewUserHandler(usecase.NewUserUseCase(users, films, nil, log), log),
		Catalog: NewCatalogHandler(usecase.NewCatalogUseCase(catalog), log),
	}, log, 5*time.Second)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const validUser = `{"email":"mail@mail.ru","login":"dolore","name":"","birthday":"1946-08-20"}`

const validFilm = `{"name":"nisi eiusmod","description":"adipisicing","releaseDate":"1967-03-25",
	"duration":100,"mpa":{"id":1},"genres":[{"id":2},{"id":1},{"id":2}]}`

func TestFilmLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/films", validFilm)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	created := decode[domain.Film](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "G", created.Mpa.Name)
	assert.Equal(t, []domain.Genre{{ID: 1, Name: "Комедия"}, {ID: 2, Name: "Драма"}}, created.Genres)
	assert.Equal(t, "1967-03-25", created.ReleaseDate.String())

	resp = doJSON(t, srv, http.MethodPut, "/films",
		`{"id":1,"name":"Film Updated","releaseDate":"1989-04-17","description":"New film update decription",
		"duration":190,"mpa":{"id":5},"genres":[]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[domain.Film](t, resp)
	assert.Equal(t, "NC-17", updated.Mpa.Name)
	assert.Empty(t, updated.Genres)

	resp = doJSON(t, srv, http.MethodGet, "/films", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Film](t, resp), 1)

	resp = doJSON(t, srv, http.MethodDelete, "/films/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/films/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFilmValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"blank name", `{"name":"  ","releaseDate":"2000-01-01","duration":1,"mpa":{"id":1}}`, http.StatusBadRequest},
		{"description too long", `{"name":"x","description":"` + strings.Repeat("a", 201) +
			`","releaseDate":"2000-01-01","duration":1,"mpa":{"id":1}}`, http.StatusBadRequest},
		{"release before cinema", `{"name":"x","releaseDate":"1895-12-27","duration":1,"mpa":{"id":1}}`, http.StatusBadRequest},
		{"release on cinema birthday", `{"name":"x","releaseDate":"1895-12-28","duration":1,"mpa":{"id":1}}`, http.StatusOK},
		{"bad date format", `{"name":"x","releaseDate":"28.12.1995","duration":1,"mpa":{"id":1}}`, http.StatusBadRequest},
		{"zero duration", `{"name":"x","releaseDate":"2000-01-01","duration":0,"mpa":{"id":1}}`, http.StatusBadRequest},
		{"missing mpa", `{"name":"x","releaseDate":"2000-01-01","duration":1}`, http.StatusBadRequest},
		{"unknown mpa", `{"name":"x","releaseDate":"2000-01-01","duration":1,"mpa":{"id":9}}`, http.StatusBadRequest},
		{"unknown genre", `{"name":"x","releaseDate":"2000-01-01","duration":1,"mpa":{"id":1},"genres":[{"id":100}]}`, http.StatusBadRequest},
		{"malformed json", `{"name":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			resp := doJSON(t, srv, http.MethodPost, "/films", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusBadRequest {
				body := decode[errorResponse](t, resp)
				assert.Equal(t, "Validation error", body.Error)
				assert.NotEmpty(t, body.Description)
			}
		})
	}
}

func TestUpdateUnknownFilm(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, srv, http.MethodPut, "/films",
		`{"id":9999,"name":"x","releaseDate":"2000-01-01","duration":1,"mpa":{"id":1}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", decode[errorResponse](t, resp).Error)
}

func TestLikesAndPopular(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/films", validFilm).StatusCode)
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/users", validUser).StatusCode)

	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/films/2/like/1", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodPut, "/films/2/like/42", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodPut, "/films/42/like/1", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodPut, "/films/abc/like/1", "").StatusCode)

	resp := doJSON(t, srv, http.MethodGet, "/films/popular?count=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	popular := decode[[]domain.Film](t, resp)
	require.Len(t, popular, 2)
	assert.Equal(t, int64(2), popular[0].ID)
	assert.Equal(t, int64(1), popular[1].ID)

	resp = doJSON(t, srv, http.MethodGet, "/films/popular", "")
	assert.Len(t, decode[[]domain.Film](t, resp), 3)

	resp = doJSON(t, srv, http.MethodGet, "/films/popular?count=0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]domain.Film](t, resp))

	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodGet, "/films/popular?count=ten", "").StatusCode)

	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodDelete, "/films/2/like/1", "").StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodDelete, "/films/2/like/1", "").StatusCode)
}

func TestUsersAndFriends(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/users", validUser)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dolore", decode[domain.User](t, resp).Name)

	for _, login := range []string{"friend", "common"} {
		body := `{"email":"` + login + `@mail.ru","login":"` + login + `","birthday":"1976-08-20"}`
		require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/users", body).StatusCode)
	}

	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/users/1/friends/3", "").StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/users/2/friends/3", "").StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/users/1/friends/2", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodPut, "/users/1/friends/1", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodPut, "/users/1/friends/-1", "").StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/users/1/friends", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.User](t, resp), 2)

	resp = doJSON(t, srv, http.MethodGet, "/users/2/friends", "")
	friends := decode[[]domain.User](t, resp)
	require.Len(t, friends, 1)
	assert.Equal(t, int64(3), friends[0].ID)

	resp = doJSON(t, srv, http.MethodGet, "/users/1/friends/common/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	common := decode[[]domain.User](t, resp)
	require.Len(t, common, 1)
	assert.Equal(t, "common", common[0].Login)

	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/users/1/friends/common/99", "").StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodDelete, "/users/1/friends/3", "").StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodDelete, "/users/1/friends/3", "").StatusCode)
}

func TestUserValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"mail.ru","login":"x","birthday":"1990-01-01"}`},
		{"login with space", `{"email":"a@b.ru","login":"do lore","birthday":"1990-01-01"}`},
		{"blank login", `{"email":"a@b.ru","login":"","birthday":"1990-01-01"}`},
		{"future birthday", `{"email":"a@b.ru","login":"x","birthday":"2446-08-20"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			resp := doJSON(t, srv, http.MethodPost, "/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Genre](t, resp), 6)

	resp = doJSON(t, srv, http.MethodGet, "/mpa/4", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.MpaRating{ID: 4, Name: "R"}, decode[domain.MpaRating](t, resp))

	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/genres/999", "").StatusCode)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/healthz", "").StatusCode)
}
