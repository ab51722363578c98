package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/nabl-labs/accounts-api/internal/domain"
)

// resetTokenBytes is the entropy of a reset token; it is hex-encoded before
// being stored and mailed.
const resetTokenBytes = 32

// resetTokenTTL bounds how long a reset token stays redeemable.
const resetTokenTTL = time.Hour

// RequestReset generates a single-use reset token, persists it with a
// one-hour expiry and mails a redemption link. A new request overwrites any
// unredeemed prior token; concurrent requests are last-writer-wins.
func (uc *AuthUseCase) RequestReset(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	resetToken := hex.EncodeToString(buf)
	expiresAt := uc.now().Add(resetTokenTTL)

	if err := uc.users.SetResetToken(ctx, user.ID, resetToken, expiresAt); err != nil {
		return fmt.Errorf("persist reset token: %w", err)
	}

	resetURL := uc.frontendURL + "/reset-password?token=" + resetToken
	if err := uc.mailer.SendPasswordReset(ctx, user.Email, user.Firstname, resetURL); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// RedeemReset rotates the password for the credential holding a live reset
// token. Unknown and expired tokens fail with the same error kind and leave
// the stored password untouched. The rotation and the reset-field clearing
// happen in one statement, so a token redeems at most once.
func (uc *AuthUseCase) RedeemReset(ctx context.Context, resetToken, newPassword string) error {
	user, err := uc.users.GetByLiveResetToken(ctx, resetToken, uc.now())
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if user == nil {
		return domain.ErrResetTokenInvalid
	}

	hash, salt, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := uc.users.RotatePasswordAndClearReset(ctx, user.ID, hash, salt); err != nil {
		return fmt.Errorf("rotate password: %w", err)
	}
	return nil
}

// ChangePassword rotates the password of an authenticated user after
// re-verifying the current one. Independent of the reset flow; shares the
// hasher.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !uc.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, salt, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := uc.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
