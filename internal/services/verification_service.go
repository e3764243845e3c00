package services

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/models"
)

// Verification flow errors.
var (
	ErrVerificationNotFound = errors.New("verification code not found")
	ErrVerificationExpired  = errors.New("verification code expired")
)

// VerificationService manages email-verification tokens.
type VerificationService struct {
	db     *gorm.DB
	mail   *MailService
	domain string
	ttl    time.Duration
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(db *gorm.DB, mail *MailService, domain string, ttl time.Duration) *VerificationService {
	return &VerificationService{db: db, mail: mail, domain: domain, ttl: ttl}
}

// Issue creates a verification record for the user and queues the mail
// carrying the verification link.
func (s *VerificationService) Issue(user *models.User) error {
	record := models.EmailVerification{
		Code:      uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/verify-email?email=%s&code=%s",
		s.domain, url.QueryEscape(user.Email), record.Code)

	subject := fmt.Sprintf("Account verification for %s", user.Username)
	body := fmt.Sprintf("To verify the account for %s, click on the link: %s", user.Email, link)

	if s.mail != nil {
		s.mail.Enqueue(user.Email, subject, body)
	}

	return nil
}

// Verify looks up the user by email and a matching unexpired code, then
// sets the verified flag. The code is not consumed; re-verification only
// sets the flag again.
func (s *VerificationService) Verify(email, code string) error {
	parsedCode, err := uuid.Parse(code)
	if err != nil {
		return ErrVerificationNotFound
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrVerificationNotFound
		}
		return err
	}

	var record models.EmailVerification
	if err := s.db.Where("user_id = ? AND code = ?", user.ID, parsedCode).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrVerificationNotFound
		}
		return err
	}

	if record.IsExpired() {
		return ErrVerificationExpired
	}

	return s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_verified", true).Error
}
