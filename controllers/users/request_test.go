package users

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/utils"
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

func authedRequest(method, target string, body []byte, uid uint) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), utils.UserIDKey, uid)
	return req.WithContext(ctx)
}

func TestCreateRequest_InsufficientFundsRollsBack(t *testing.T) {
	mock := newMockDB(t)

	// Collaboration + Low costs 8, the wallet holds 5.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_balance", "level"}).
			AddRow(1, 5, 1))
	mock.ExpectRollback()

	body := []byte(`{"title":"Need a study partner","description":"Looking for someone to review my distributed systems notes with me.","type":"Collaboration","urgency":"Low"}`)
	req := authedRequest(http.MethodPost, "/requests", body, 1)
	rr := httptest.NewRecorder()

	CreateRequestHandler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRequest_RejectsUnknownType(t *testing.T) {
	newMockDB(t)

	body := []byte(`{"title":"Need a study partner","description":"Looking for someone to review my distributed systems notes with me.","type":"Homework","urgency":"Low"}`)
	req := authedRequest(http.MethodPost, "/requests", body, 1)
	rr := httptest.NewRecorder()

	CreateRequestHandler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAcceptSolution_AlreadyCompletedConflicts(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `requests`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "cost", "status"}).
			AddRow(7, 1, 15, "Completed"))
	mock.ExpectRollback()

	req := authedRequest(http.MethodPost, "/requests/7/solutions/3/accept", []byte(`{"rating":8}`), 1)
	req = mux.SetURLVars(req, map[string]string{"id": "7", "solution_id": "3"})
	rr := httptest.NewRecorder()

	AcceptSolutionHandler(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusConflict, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAcceptSolution_NotOwnerForbidden(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `requests`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "cost", "status"}).
			AddRow(7, 2, 15, "Open"))
	mock.ExpectRollback()

	req := authedRequest(http.MethodPost, "/requests/7/solutions/3/accept", []byte(`{"rating":8}`), 1)
	req = mux.SetURLVars(req, map[string]string{"id": "7", "solution_id": "3"})
	rr := httptest.NewRecorder()

	AcceptSolutionHandler(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusForbidden, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRequest_CascadesSolutionsInOneTransaction(t *testing.T) {
	mock := newMockDB(t)

	// An open request with three pending solutions: both deletes must land
	// inside the same transaction, followed by a commit.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `requests`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "cost", "status"}).
			AddRow(7, 1, 15, "Open"))
	mock.ExpectExec("DELETE FROM `solutions` WHERE request_id").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `requests`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := authedRequest(http.MethodDelete, "/requests/7", nil, 1)
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	rr := httptest.NewRecorder()

	DeleteRequestHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRequest_NotOpenConflicts(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `requests`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "cost", "status"}).
			AddRow(7, 1, 15, "Completed"))
	mock.ExpectRollback()

	req := authedRequest(http.MethodDelete, "/requests/7", nil, 1)
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	rr := httptest.NewRecorder()

	DeleteRequestHandler(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusConflict, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
