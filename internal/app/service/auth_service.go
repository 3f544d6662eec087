package service

import (
	"errors"
	"time"

	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"github.com/yorkie01/restaurant-order-system/pkg/util"
)

var ErrInvalidPasscode = errors.New("invalid staff passcode")

// AuthService スタッフ共有パスコードによるキッチン端末の認可
type AuthService interface {
	Login(passcode string) (string, error)
}

type authService struct {
	passcodeHash string
	jwtSecret    string
	tokenExpiry  time.Duration
}

func NewAuthService(passcodeHash, jwtSecret string, tokenExpiry time.Duration) AuthService {
	return &authService{
		passcodeHash: passcodeHash,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
	}
}

// Login verifies the shared staff passcode and issues a session token.
func (s *authService) Login(passcode string) (string, error) {
	if !util.VerifyPasscode(s.passcodeHash, passcode) {
		logger.Warn("Staff passcode verification failed", nil)
		return "", ErrInvalidPasscode
	}

	token, err := util.GenerateStaffToken(s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate staff token", err, nil)
		return "", err
	}

	logger.Info("Staff logged in successfully", map[string]interface{}{
		"token_expiry": s.tokenExpiry.String(),
	})
	return token, nil
}
