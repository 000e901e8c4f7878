package services

import (
	"testing"
	"time"

	"pocketbook/internal/models"
	"pocketbook/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("  Alice ", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")) != nil {
			t.Error("expected stored password to be a bcrypt hash of the input")
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob", "password123", "Bob")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("BOB", "password123", "Bob Again")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("short_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("carol", "short", "Carol")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if got.Username != user.Username {
		t.Errorf("expected %s, got %s", user.Username, got.Username)
	}

	_, err = svc.GetUserByID("01890000-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)
		db.Model(user).Update("failed_login_attempts", 3)

		got, err := svc.AttemptLogin(user.Username, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.LastLoginAt == nil {
			t.Error("expected last_login_at to be set")
		}

		var stored models.User
		db.First(&stored, "id = ?", user.ID)
		if stored.FailedLoginAttempts != 0 {
			t.Errorf("expected failed attempts reset, got %d", stored.FailedLoginAttempts)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("lockout_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := &userService{db: db, now: func() time.Time { return now }}
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < maxFailedLogins; i++ {
			_, err := svc.AttemptLogin(user.Username, "wrong-password")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		_, err := svc.AttemptLogin(user.Username, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")

		now = now.Add(lockoutDuration + time.Second)
		_, err = svc.AttemptLogin(user.Username, testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "somehash"))

	err := svc.ChangePassword(user.ID, "not-the-password", "newpassword1")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

	err = svc.ChangePassword(user.ID, testutil.TestPassword, "short")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	testutil.AssertNoError(t, svc.ChangePassword(user.ID, testutil.TestPassword, "newpassword1"))

	_, err = svc.AttemptLogin(user.Username, "newpassword1")
	testutil.AssertNoError(t, err)

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "" {
		t.Errorf("expected refresh token revoked, got %q", hash)
	}
}

func TestStoreRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc"))
	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc" {
		t.Errorf("expected abc, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("01890000-0000-7000-8000-000000000000", "abc")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
