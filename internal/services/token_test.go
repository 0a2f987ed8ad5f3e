package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/repos"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

var testDBSeq atomic.Int64

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.ScanToken{}, &types.UsageRecord{}, &types.ScanAudit{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return gdb, log
}

const testJWTSecret = "test-secret"

func newTokenService(t *testing.T, ttl time.Duration) (ScanTokenService, *gorm.DB) {
	t.Helper()
	gdb, log := testDB(t)
	repo := repos.NewScanTokenRepo(gdb, log)
	return NewScanTokenService(gdb, log, repo, testJWTSecret, ttl), gdb
}

func TestScanTokenIssueAndVerify(t *testing.T) {
	svc, _ := newTokenService(t, 15*time.Minute)
	ctx := context.Background()

	ownerID := uuid.New()
	signed, row, err := svc.Issue(ctx, ownerID, "Jane Doe")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" || row.Used {
		t.Fatalf("bad issued token: %q %+v", signed, row)
	}

	claims, err := svc.Verify(ctx, signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.OwnerID != ownerID || claims.OwnerName != "Jane Doe" || claims.TokenID != row.ID {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestScanTokenVerifyRejects(t *testing.T) {
	svc, _ := newTokenService(t, 15*time.Minute)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		if _, err := svc.Verify(ctx, ""); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.Verify(ctx, "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		signed, _, err := svc.Issue(ctx, uuid.New(), "Jane Doe")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := svc.Verify(ctx, signed+"x"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("signed_but_unknown", func(t *testing.T) {
		// A token minted by another instance whose row we never stored.
		other, _ := newTokenService(t, 15*time.Minute)
		signed, _, err := other.Issue(ctx, uuid.New(), "Jane Doe")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := svc.Verify(ctx, signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("err = %v, want ErrInvalidToken", err)
		}
	})
}

func TestScanTokenExpired(t *testing.T) {
	svc, _ := newTokenService(t, -time.Minute)
	ctx := context.Background()

	signed, _, err := svc.Issue(ctx, uuid.New(), "Jane Doe")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(ctx, signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestScanTokenSingleUse(t *testing.T) {
	svc, _ := newTokenService(t, 15*time.Minute)
	ctx := context.Background()

	signed, row, err := svc.Issue(ctx, uuid.New(), "Jane Doe")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := svc.MarkUsed(ctx, row.ID); err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}
	if err := svc.MarkUsed(ctx, row.ID); !errors.Is(err, ErrTokenUsed) {
		t.Fatalf("second MarkUsed err = %v, want ErrTokenUsed", err)
	}
	if _, err := svc.Verify(ctx, signed); !errors.Is(err, ErrTokenUsed) {
		t.Fatalf("Verify after use err = %v, want ErrTokenUsed", err)
	}
}
