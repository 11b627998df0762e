package health

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func serve(r *mux.Router, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestLiveness(t *testing.T) {
	r := mux.NewRouter()
	RegisterRoutes(r)

	rr := serve(r, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(r, "/readyz").Code)
}

func TestReadiness(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	r := mux.NewRouter()
	RegisterRoutesWithDB(r, gdb)

	mock.ExpectPing()
	assert.Equal(t, http.StatusOK, serve(r, "/readyz").Code)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rr := serve(r, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "db unreachable")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadiness_NoDB(t *testing.T) {
	r := mux.NewRouter()
	RegisterRoutesWithDB(r, nil)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/readyz").Code)
}
