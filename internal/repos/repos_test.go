package repos

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
	"github.com/tapfolio/cardscan-backend/internal/types"
)

var testDBSeq atomic.Int64

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	// A named shared-cache memory DB so every pooled connection sees the
	// same tables.
	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
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

func newToken(ownerID uuid.UUID, hash string) *types.ScanToken {
	return &types.ScanToken{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		OwnerName: "Jane Doe",
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(15 * time.Minute),
	}
}

func TestScanTokenRepoRoundtrip(t *testing.T) {
	gdb, log := testDB(t)
	repo := NewScanTokenRepo(gdb, log)
	ctx := context.Background()

	owner := uuid.New()
	created, err := repo.Create(ctx, nil, newToken(owner, "hash-a"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByHash(ctx, nil, "hash-a")
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if got.ID != created.ID || got.OwnerID != owner {
		t.Fatalf("got %+v, want created token", got)
	}
	if got.Used {
		t.Fatal("fresh token should be unused")
	}

	if _, err := repo.GetByHash(ctx, nil, "no-such-hash"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestScanTokenRepoClaimIfUnused(t *testing.T) {
	gdb, log := testDB(t)
	repo := NewScanTokenRepo(gdb, log)
	ctx := context.Background()

	tok, err := repo.Create(ctx, nil, newToken(uuid.New(), "hash-b"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.ClaimIfUnused(ctx, nil, tok.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	got, err := repo.GetByHash(ctx, nil, "hash-b")
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if !got.Used || got.UsedAt == nil {
		t.Fatalf("claim did not mark token: %+v", got)
	}

	// The second claim loses the conditional update.
	if err := repo.ClaimIfUnused(ctx, nil, tok.ID); !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Fatalf("second claim err = %v, want ErrTokenAlreadyUsed", err)
	}
}

func TestScanTokenRepoClaimUnknownID(t *testing.T) {
	gdb, log := testDB(t)
	repo := NewScanTokenRepo(gdb, log)

	err := repo.ClaimIfUnused(context.Background(), nil, uuid.New())
	if !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Fatalf("err = %v, want ErrTokenAlreadyUsed for unknown id", err)
	}
}

func TestUsageRecordRepoSumSince(t *testing.T) {
	gdb, log := testDB(t)
	repo := NewUsageRecordRepo(gdb, log)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()
	cutoff := time.Now().UTC().Add(-time.Hour)

	records := []*types.UsageRecord{
		{ID: uuid.New(), OwnerID: owner, CostUSD: 0.002, Model: "gemini-2.0-flash", Operation: "scan", Kind: "ai"},
		{ID: uuid.New(), OwnerID: owner, CostUSD: 0.003, Model: "gemini-2.0-flash", Operation: "scan", Kind: "ai"},
		{ID: uuid.New(), OwnerID: other, CostUSD: 5.0, Model: "gemini-2.0-flash", Operation: "scan", Kind: "ai"},
	}
	for _, rec := range records {
		if _, err := repo.Create(ctx, nil, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	// An old record outside the window.
	old := &types.UsageRecord{ID: uuid.New(), OwnerID: owner, CostUSD: 9.0, Model: "gemini-2.0-flash", Operation: "scan", Kind: "ai", CreatedAt: cutoff.Add(-24 * time.Hour)}
	if err := gdb.Create(old).Error; err != nil {
		t.Fatalf("create old record: %v", err)
	}

	got, err := repo.SumSince(ctx, nil, owner, cutoff)
	if err != nil {
		t.Fatalf("SumSince: %v", err)
	}
	want := 0.005
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("SumSince = %v, want %v", got, want)
	}
}

func TestUsageRecordRepoSumSinceEmpty(t *testing.T) {
	gdb, log := testDB(t)
	repo := NewUsageRecordRepo(gdb, log)

	got, err := repo.SumSince(context.Background(), nil, uuid.New(), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("SumSince: %v", err)
	}
	if got != 0 {
		t.Fatalf("SumSince = %v, want 0 for owner with no usage", got)
	}
}

func TestScanAuditRepoCreate(t *testing.T) {
	gdb, log := testDB(t)
	repo := NewScanAuditRepo(gdb, log)

	audit := &types.ScanAudit{
		ID:          uuid.New(),
		RequestID:   "req-123",
		OwnerID:     uuid.New(),
		Sides:       "front,back",
		FieldsCount: 4,
		HasQRCode:   true,
		Success:     true,
		CostUSD:     0.0012,
		DurationMS:  (3 * time.Second).Milliseconds(),
	}
	if _, err := repo.Create(context.Background(), nil, audit); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var got types.ScanAudit
	if err := gdb.Where("request_id = ?", "req-123").First(&got).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.FieldsCount != 4 || !got.Success {
		t.Fatalf("stored audit = %+v", got)
	}
}
