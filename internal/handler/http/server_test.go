package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shortlink-backend/internal/config"
	"shortlink-backend/internal/domain"
	"shortlink-backend/internal/repository"
	"shortlink-backend/internal/repository/memory"
	"shortlink-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://short.test"

var errStorageDown = errors.New("storage is down")

// failingStorage — хранилище, у которого отказала база данных
type failingStorage struct{}

func (failingStorage) SaveLink(context.Context, *domain.Link) error { return errStorageDown }

func (failingStorage) GetLink(context.Context, string) (*domain.Link, error) {
	return nil, errStorageDown
}

func (failingStorage) ListLinks(context.Context, string) ([]*domain.Link, error) {
	return []*domain.Link{}, errStorageDown
}

func (failingStorage) DeleteLink(context.Context, string) error { return errStorageDown }

func (failingStorage) RegisterClick(context.Context, string, time.Time) error {
	return errStorageDown
}

func (failingStorage) Now(context.Context) (time.Time, error) {
	return time.Time{}, errStorageDown
}

func setupServerWithStorage(t *testing.T, storage repository.Storage) (*httptest.Server, *http.Client) {
	t.Helper()

	log := zap.NewNop()
	registry := service.NewRegistry(storage, &config.URLShortener{CodeLength: 6})
	resolver := service.NewResolver(storage, log)

	srv := httptest.NewServer(NewServer(storage, registry, resolver, log, testBaseURL).SetupRoutes())
	t.Cleanup(srv.Close)

	client := srv.Client()
	// Редиректы проверяем по заголовку Location, а не следуем за ними
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return srv, client
}

func setupTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	return setupServerWithStorage(t, memory.New())
}

func createLink(t *testing.T, client *http.Client, url, targetURL, code string) LinkResponse {
	t.Helper()

	body, err := json.Marshal(CreateLinkRequest{TargetURL: targetURL, Code: code})
	require.NoError(t, err)

	resp, err := client.Post(url+"/api/links", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created LinkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func TestCreateLink(t *testing.T) {
	srv, client := setupTestServer(t)

	created := createLink(t, client, srv.URL, "https://example.com/path", "")

	assert.Len(t, created.Code, 6)
	assert.Equal(t, "https://example.com/path", created.TargetURL)
	assert.Equal(t, int64(0), created.TotalClicks)
	assert.Nil(t, created.LastClicked)
	assert.Equal(t, testBaseURL+"/"+created.Code, created.ShortURL)
}

func TestCreateLink_Errors(t *testing.T) {
	srv, client := setupTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", `{not json`, http.StatusBadRequest},
		{"missing url", `{}`, http.StatusBadRequest},
		{"relative url", `{"target_url": "/foo"}`, http.StatusBadRequest},
		{"bad code format", `{"target_url": "https://example.com", "code": "ab"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Post(srv.URL+"/api/links", "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var errResp map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.NotEmpty(t, errResp["error"])
		})
	}
}

func TestCreateLink_Conflict(t *testing.T) {
	srv, client := setupTestServer(t)

	createLink(t, client, srv.URL, "https://example.com", "myCode1")

	body := `{"target_url": "https://other.example.com", "code": "myCode1"}`
	resp, err := client.Post(srv.URL+"/api/links", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListLinks(t *testing.T) {
	srv, client := setupTestServer(t)

	createLink(t, client, srv.URL, "https://example.com/first", "codeAAA")
	createLink(t, client, srv.URL, "https://other.org/second", "codeBBB")

	resp, err := client.Get(srv.URL + "/api/links")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var links []LinkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&links))
	assert.Len(t, links, 2)

	resp, err = client.Get(srv.URL + "/api/links?search=other.ORG")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&links))
	require.Len(t, links, 1)
	assert.Equal(t, "codeBBB", links[0].Code)
}

func TestGetLink(t *testing.T) {
	srv, client := setupTestServer(t)

	createLink(t, client, srv.URL, "https://example.com", "getMe01")

	resp, err := client.Get(srv.URL + "/api/links/getMe01")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var link LinkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&link))
	assert.Equal(t, "getMe01", link.Code)

	resp, err = client.Get(srv.URL + "/api/links/missing1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteLink(t *testing.T) {
	srv, client := setupTestServer(t)

	createLink(t, client, srv.URL, "https://example.com", "delMe01")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/links/delMe01", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result["success"])

	// Повторное удаление того же кода — 404
	resp, err = client.Do(req.Clone(req.Context()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRedirect(t *testing.T) {
	srv, client := setupTestServer(t)

	created := createLink(t, client, srv.URL, "https://example.com/path", "")

	resp, err := client.Get(srv.URL + "/" + created.Code)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com/path", resp.Header.Get("Location"))

	// Счетчик виден через API после перехода
	resp, err = client.Get(srv.URL + "/api/links/" + created.Code)
	require.NoError(t, err)
	defer resp.Body.Close()

	var link LinkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&link))
	assert.Equal(t, int64(1), link.TotalClicks)
	assert.NotNil(t, link.LastClicked)
}

func TestRedirect_NotFound(t *testing.T) {
	srv, client := setupTestServer(t)

	// Неизвестный и невалидный коды дают одинаковый 404
	for _, path := range []string{"/unknown1", "/ab"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "path: %s", path)
	}
}

func TestHealth(t *testing.T) {
	srv, client := setupTestServer(t)

	resp, err := client.Get(srv.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.True(t, health.OK)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "connected", health.Database)
	require.NotNil(t, health.Timestamp)
}

func TestHealth_StorageDown(t *testing.T) {
	srv, client := setupServerWithStorage(t, failingStorage{})

	resp, err := client.Get(srv.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.False(t, health.OK)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "disconnected", health.Database)
	assert.Nil(t, health.Timestamp)
}

func TestListLinks_StorageDown(t *testing.T) {
	srv, client := setupServerWithStorage(t, failingStorage{})

	// Отказ хранилища — это 500 с ошибкой, а не пустой список с 200
	resp, err := client.Get(srv.URL + "/api/links")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.NotEmpty(t, errResp["error"])
}

func TestCreateLink_StorageDown(t *testing.T) {
	srv, client := setupServerWithStorage(t, failingStorage{})

	body := `{"target_url": "https://example.com", "code": "myCode1"}`
	resp, err := client.Post(srv.URL+"/api/links", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	srv, client := setupTestServer(t)

	resp, err := client.Get(srv.URL + "/api/links")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
