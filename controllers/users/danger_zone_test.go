package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFreezeAccount_RevokesSessions(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `frozen`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `refresh_tokens` SET `revoked`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	req := authedRequest(http.MethodPost, "/users/freeze", nil, 1)
	rr := httptest.NewRecorder()

	FreezeAccountHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFreezeAccount_UnknownUserNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `frozen`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	req := authedRequest(http.MethodPost, "/users/freeze", nil, 99)
	rr := httptest.NewRecorder()

	FreezeAccountHandler(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusNotFound, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAccount_RemovesOwnedDataAtomically(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "wallet_balance"}).
			AddRow(1, "gone@example.com", 40))
	mock.ExpectExec("DELETE FROM `solutions` WHERE request_id IN").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `solutions` WHERE solver_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `requests` WHERE requester_id").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `transactions` WHERE user_id").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("DELETE FROM `refresh_tokens` WHERE user_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `security_logs` WHERE email").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := authedRequest(http.MethodDelete, "/users/me", nil, 1)
	rr := httptest.NewRecorder()

	DeleteAccountHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
