package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/pgtest"
)

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func otpRecord(phone, hash string, purpose entity.Purpose, at time.Time) entity.OTPRecord {
	return entity.OTPRecord{
		PhoneNumber: phone,
		CodeHash:    hash,
		Purpose:     purpose,
		CreatedAt:   at,
		ExpiresAt:   at.Add(3 * time.Minute),
	}
}

func TestDB_OTPLifecycle(t *testing.T) {
	store := NewDB(pgtest.New(t), instrument.NewNoop())
	ctx := context.Background()

	t.Run("ReplaceSupersedesSamePairOnly", func(t *testing.T) {
		// Arrange
		_, _ = store.ReplaceOTP(ctx, otpRecord("03000000001", "h-old", entity.PurposeLogin, base))
		_, _ = store.ReplaceOTP(ctx, otpRecord("03000000001", "h-reg", entity.PurposeRegistration, base))

		// Act
		_, err := store.ReplaceOTP(ctx, otpRecord("03000000001", "h-new", entity.PurposeLogin, base.Add(time.Second)))

		// Assert
		if err != nil {
			t.Fatalf("ReplaceOTP() error = %v", err)
		}
		if _, err := store.ConsumeOTP(ctx, "03000000001", "h-old", entity.PurposeLogin, base.Add(2*time.Second)); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("superseded ConsumeOTP() error = %v, want ErrNotFound", err)
		}
		if _, err := store.ConsumeOTP(ctx, "03000000001", "h-reg", entity.PurposeRegistration, base.Add(2*time.Second)); err != nil {
			t.Fatalf("other purpose ConsumeOTP() error = %v", err)
		}
		rec, err := store.ConsumeOTP(ctx, "03000000001", "h-new", entity.PurposeLogin, base.Add(2*time.Second))
		if err != nil {
			t.Fatalf("latest ConsumeOTP() error = %v", err)
		}
		if !rec.Used || rec.UsedAt == nil || rec.Purpose != entity.PurposeLogin {
			t.Fatalf("record = %+v", rec)
		}
	})

	t.Run("ConsumeRejectsExpired", func(t *testing.T) {
		// Arrange
		_, _ = store.ReplaceOTP(ctx, otpRecord("03000000002", "h", entity.PurposeLogin, base))

		// Act
		_, err := store.ConsumeOTP(ctx, "03000000002", "h", entity.PurposeLogin, base.Add(4*time.Minute))

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("ConsumeOTP() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ConcurrentConsumeSucceedsOnce", func(t *testing.T) {
		// Arrange
		_, _ = store.ReplaceOTP(ctx, otpRecord("03000000003", "h", entity.PurposeRegistration, base))

		const workers = 8
		var wg sync.WaitGroup
		var ok, notFound atomic.Int64

		// Act
		for range workers {
			wg.Go(func() {
				_, err := store.ConsumeOTP(ctx, "03000000003", "h", entity.PurposeRegistration, base.Add(time.Second))
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, goerror.ErrNotFound):
					notFound.Add(1)
				}
			})
		}
		wg.Wait()

		// Assert
		if ok.Load() != 1 || notFound.Load() != workers-1 {
			t.Fatalf("ok = %d, notFound = %d", ok.Load(), notFound.Load())
		}
	})

	t.Run("ConcurrentReplaceKeepsOneLiveCode", func(t *testing.T) {
		// Arrange
		var wg sync.WaitGroup
		var failed atomic.Int64

		// Act
		for i := range 8 {
			wg.Go(func() {
				at := base.Add(time.Duration(i) * time.Millisecond)
				if _, err := store.ReplaceOTP(ctx, otpRecord("03000000004", "h", entity.PurposeLogin, at)); err != nil {
					failed.Add(1)
				}
			})
		}
		wg.Wait()

		// Assert
		if failed.Load() != 0 {
			t.Fatalf("%d concurrent issues failed", failed.Load())
		}
		var live int
		if err := store.conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM identity_otp_codes WHERE mobile_number = $1 AND is_used = FALSE`,
			"03000000004",
		).Scan(&live); err != nil {
			t.Fatalf("count error = %v", err)
		}
		if live != 1 {
			t.Fatalf("live codes = %d, want 1", live)
		}
	})

	t.Run("DeleteStaleRemovesUsedAndExpired", func(t *testing.T) {
		// Arrange
		_, _ = store.ReplaceOTP(ctx, otpRecord("03000000005", "fresh", entity.PurposeLogin, base.Add(time.Hour)))

		// Act
		n, err := store.DeleteStaleOTP(ctx, base.Add(time.Hour))

		// Assert
		if err != nil {
			t.Fatalf("DeleteStaleOTP() error = %v", err)
		}
		if n == 0 {
			t.Fatalf("DeleteStaleOTP() = 0, want stale rows purged")
		}
		var left int
		_ = store.conn.QueryRow(ctx, `SELECT COUNT(*) FROM identity_otp_codes`).Scan(&left)
		if left != 1 {
			t.Fatalf("rows left = %d, want only the fresh code", left)
		}
	})
}

func TestDB_Users(t *testing.T) {
	store := NewDB(pgtest.New(t), instrument.NewNoop())
	ctx := context.Background()

	user := entity.User{
		ID:           1001,
		MobileNumber: "03001112222",
		Name:         "Ali",
		Surname:      "Khan",
		Tehsil:       "Kasur",
		CreatedAt:    base,
		UpdatedAt:    base,
	}

	// Arrange & Act
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	dup := user
	dup.ID = 1002
	dupErr := store.CreateUser(ctx, dup)

	exists, err := store.ExistsUserByMobile(ctx, user.MobileNumber)
	if err != nil {
		t.Fatalf("ExistsUserByMobile() error = %v", err)
	}
	missing, _ := store.ExistsUserByMobile(ctx, "03009990000")

	newMobile := "03003334444"
	patched, err := store.PatchUser(ctx, entity.UserPatch{ID: user.ID, MobileNumber: &newMobile, UpdatedAt: base.Add(time.Hour)})

	// Assert
	if !errors.Is(dupErr, goerror.ErrConflict) {
		t.Fatalf("duplicate CreateUser() error = %v, want ErrConflict", dupErr)
	}
	if !exists || missing {
		t.Fatalf("exists = %v, missing = %v", exists, missing)
	}
	if err != nil {
		t.Fatalf("PatchUser() error = %v", err)
	}
	if patched.MobileNumber != newMobile || patched.Name != "Ali" {
		t.Fatalf("patched = %+v", patched)
	}
	if _, err := store.GetUserByMobile(ctx, user.MobileNumber); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("GetUserByMobile(old) error = %v, want ErrNotFound", err)
	}
	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil || got.MobileNumber != newMobile {
		t.Fatalf("GetUserByID() = %+v, %v", got, err)
	}
}
