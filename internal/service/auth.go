package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
	"library-backend/internal/security"
)

type authService struct {
	memberRepo repository.MemberRepository
	tokens     security.TokenManager
}

func NewAuthService(memberRepo repository.MemberRepository, tokens security.TokenManager) AuthService {
	return &authService{
		memberRepo: memberRepo,
		tokens:     tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *domain.Member, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return "", "", nil, domain.ErrInvalidCredentials
		}
		return "", "", nil, err
	}
	if !member.IsActive {
		return "", "", nil, domain.ErrMemberInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(member.ID, member.Email, member.Role)
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(member.ID, member.Email)
	if err != nil {
		return "", "", nil, err
	}

	logger.InfoContext(ctx, "member logged in", "member_id", member.ID)
	return access, refresh, member, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.ErrUnauthorized
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	if !member.IsActive {
		return "", "", domain.ErrMemberInactive
	}

	access, err := s.tokens.GenerateAccessToken(member.ID, member.Email, member.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(member.ID, member.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
