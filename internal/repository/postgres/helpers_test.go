package postgres_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var userCols = []string{"id", "username", "password_hash", "email", "phone", "role", "balance", "created_at", "updated_at"}
var boatCols = []string{"id", "name", "type", "status", "rental_price", "image_url", "description", "created_at", "updated_at"}
var rentalCols = []string{"id", "boat_id", "user_id", "price", "rental_time", "return_time", "status"}
var activityCols = []string{"id", "title", "description", "location", "start_time", "end_time", "max_participants", "creator_id", "created_at", "updated_at"}
var signupCols = []string{"id", "activity_id", "user_id", "signup_time", "check_in"}
var financeCols = []string{"id", "user_id", "type", "amount", "description", "created_at"}
var noticeCols = []string{"id", "title", "content", "author_id", "created_at", "updated_at"}
var postCols = []string{"id", "title", "content", "tag_id", "user_id", "created_at", "updated_at"}
