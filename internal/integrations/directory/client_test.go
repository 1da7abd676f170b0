package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

type mapCache struct {
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.items[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func newDirectoryServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/trainers/11", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		_ = json.NewEncoder(w).Encode(Trainer{ID: 11, Name: "Anna Schmidt"})
	})
	mux.HandleFunc("/internal/companies/42", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		_ = json.NewEncoder(w).Encode(Company{ID: 42, Name: "Acme GmbH"})
	})
	mux.HandleFunc("/internal/topics/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetTrainerUsesCache(t *testing.T) {
	var hits int32
	srv := newDirectoryServer(t, &hits)
	client := NewClient(srv.URL, time.Second, newMapCache(), time.Minute, logger.NewNop())

	for i := 0; i < 3; i++ {
		trainer, err := client.GetTrainer(context.Background(), 11)
		require.NoError(t, err)
		assert.Equal(t, "Anna Schmidt", trainer.Name)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetCompanyWithoutCache(t *testing.T) {
	var hits int32
	srv := newDirectoryServer(t, &hits)
	client := NewClient(srv.URL, time.Second, nil, 0, logger.NewNop())

	company, err := client.GetCompany(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), company.ID)

	_, err = client.GetCompany(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestNotFoundAndServerErrors(t *testing.T) {
	var hits int32
	srv := newDirectoryServer(t, &hits)
	client := NewClient(srv.URL, time.Second, newMapCache(), time.Minute, logger.NewNop())

	_, err := client.GetTrainer(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	_, err = client.GetCompany(context.Background(), 999)
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	_, err = client.GetTopic(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestUnreachableService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil, 0, logger.NewNop())

	_, err := client.GetTopic(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInternal)
}
