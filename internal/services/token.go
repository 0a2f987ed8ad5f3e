package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/repos"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

// TokenClaims is the verified identity behind a scan token.
type TokenClaims struct {
	OwnerID   uuid.UUID
	OwnerName string
	TokenID   uuid.UUID
}

// ScanTokenService mints and verifies single-use scan authorizations. A
// token is a signed JWT whose hash is also stored server-side, so both the
// signature and the single-use row must check out.
type ScanTokenService interface {
	Issue(ctx context.Context, ownerID uuid.UUID, ownerName string) (string, *types.ScanToken, error)
	Verify(ctx context.Context, tokenString string) (*TokenClaims, error)
	MarkUsed(ctx context.Context, tokenID uuid.UUID) error
}

type scanTokenService struct {
	db           *gorm.DB
	log          *logger.Logger
	tokenRepo    repos.ScanTokenRepo
	jwtSecretKey string
	tokenTTL     time.Duration
}

func NewScanTokenService(db *gorm.DB, log *logger.Logger, tokenRepo repos.ScanTokenRepo, jwtSecretKey string, tokenTTL time.Duration) ScanTokenService {
	return &scanTokenService{
		db:           db,
		log:          log.With("service", "ScanTokenService"),
		tokenRepo:    tokenRepo,
		jwtSecretKey: jwtSecretKey,
		tokenTTL:     tokenTTL,
	}
}

func (s *scanTokenService) Issue(ctx context.Context, ownerID uuid.UUID, ownerName string) (string, *types.ScanToken, error) {
	tokenID := uuid.New()
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":  ownerID.String(),
		"name": ownerName,
		"jti":  tokenID.String(),
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign scan token: %w", err)
	}

	row := &types.ScanToken{
		ID:        tokenID,
		OwnerID:   ownerID,
		OwnerName: ownerName,
		TokenHash: hashToken(signed),
		ExpiresAt: expiresAt,
	}
	if _, err := s.tokenRepo.Create(ctx, nil, row); err != nil {
		return "", nil, fmt.Errorf("persist scan token: %w", err)
	}
	return signed, row, nil
}

func (s *scanTokenService) Verify(ctx context.Context, tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	row, err := s.tokenRepo.GetByHash(ctx, nil, hashToken(tokenString))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup scan token: %w", err)
	}
	if row.Used {
		return nil, ErrTokenUsed
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &TokenClaims{
		OwnerID:   row.OwnerID,
		OwnerName: row.OwnerName,
		TokenID:   row.ID,
	}, nil
}

func (s *scanTokenService) MarkUsed(ctx context.Context, tokenID uuid.UUID) error {
	err := s.tokenRepo.ClaimIfUnused(ctx, nil, tokenID)
	if errors.Is(err, repos.ErrTokenAlreadyUsed) {
		return ErrTokenUsed
	}
	return err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
