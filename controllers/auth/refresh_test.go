package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codexrip/intellectra-hub/database"
)

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	prev := database.DB
	database.DB = gdb
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})
	return mock
}

func refreshTokenRow(id string, userID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "expires_at", "revoked", "created_at"}).
		AddRow(id, userID, time.Now().Add(24*time.Hour), false, time.Now())
}

func TestRefresh_RotatesTokenInOneTransaction(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `refresh_tokens`").
		WillReturnRows(refreshTokenRow("rt_old", 1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `refresh_tokens` SET `revoked`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `refresh_tokens`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := []byte(`{"refresh_token":"rt_old"}`)
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	RefreshHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRefresh_FailedRotationRollsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	mock := newMockDB(t)

	// When storing the replacement fails, the revoke must roll back with it
	// so the old token stays usable.
	mock.ExpectQuery("SELECT \\* FROM `refresh_tokens`").
		WillReturnRows(refreshTokenRow("rt_old", 1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `refresh_tokens` SET `revoked`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `refresh_tokens`").
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	body := []byte(`{"refresh_token":"rt_old"}`)
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	RefreshHandler(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusInternalServerError, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
