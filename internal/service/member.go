package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type memberService struct {
	memberRepo repository.MemberRepository
	now        func() time.Time
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		now:        time.Now,
	}
}

func (s *memberService) Register(ctx context.Context, name, email, address, password string, phones []string) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &domain.Member{
		Name:             name,
		Email:            email,
		Address:          address,
		Role:             domain.MemberRoleMember,
		PasswordHash:     string(hash),
		RegistrationDate: s.now(),
		IsActive:         true,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	for _, phone := range phones {
		phone = strings.TrimSpace(phone)
		if phone == "" {
			continue
		}
		if err := s.memberRepo.AddPhone(ctx, member.ID, phone); err != nil {
			logger.ErrorContext(ctx, "failed to store member phone", "member_id", member.ID, "error", err)
		} else {
			member.Phones = append(member.Phones, phone)
		}
	}

	logger.InfoContext(ctx, "member registered", "member_id", member.ID, "email", member.Email)
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, id int32) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.memberRepo.List(ctx)
}

func (s *memberService) UpdateContact(ctx context.Context, id int32, name, email, address string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		member.Name = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("a valid email is required")
		}
		member.Email = email
	}
	if address != "" {
		member.Address = address
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) AddPhone(ctx context.Context, memberID int32, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return err
	}
	return s.memberRepo.AddPhone(ctx, memberID, phone)
}

func (s *memberService) RemovePhone(ctx context.Context, memberID int32, phone string) error {
	return s.memberRepo.RemovePhone(ctx, memberID, phone)
}

// Deactivate blocks further borrowing without destroying the member's
// loan and fine history.
func (s *memberService) Deactivate(ctx context.Context, id int32) error {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	member.IsActive = false
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return err
	}
	logger.InfoContext(ctx, "member deactivated", "member_id", id)
	return nil
}
