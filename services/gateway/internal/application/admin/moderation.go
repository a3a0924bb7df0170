package admin

import (
	"context"
	"strings"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
)

// BlockUser disables the account.
func (s *Service) BlockUser(ctx context.Context, userID, reason, actorUserID string) error {
	return s.setEnabled(ctx, "admin.block_user", audit.TypeUserBlock, userID, false, reasonOr(reason, defaultBlockReason), actorUserID)
}

// UnblockUser re-enables the account.
func (s *Service) UnblockUser(ctx context.Context, userID, reason, actorUserID string) error {
	return s.setEnabled(ctx, "admin.unblock_user", audit.TypeUserUnblock, userID, true, reasonOr(reason, defaultUnblockReason), actorUserID)
}

func (s *Service) setEnabled(ctx context.Context, action, eventType, userID string, enabled bool, reason, actorUserID string) error {
	userID = strings.TrimSpace(userID)
	actorID := actorOrSystem(actorUserID)
	logAudit := s.auditor(action, actorID, userID)

	if userID == "" {
		err := domain.ErrMissingField("user_id")
		logAudit("error", err, nil)
		return err
	}
	if !enabled && actorID == userID {
		err := domain.ErrCannotAffectSelf()
		logAudit("error", err, nil)
		return err
	}

	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		err = directoryError(err)
		logAudit("error", err, nil)
		return err
	}

	s.emitUserEvent(ctx, eventType, userID, actorID, reason, map[string]any{
		"enabled": audit.Change{Old: user.Enabled, New: enabled},
	}, nil)

	if err := s.dir.SetUserEnabled(ctx, userID, enabled); err != nil {
		err = directoryError(err)
		logAudit("error", err, nil)
		return err
	}

	logAudit("success", nil, map[string]string{"reason": reason})
	return nil
}

// DeleteUser removes the account. The event payload keeps username and email
// since the directory forgets them.
func (s *Service) DeleteUser(ctx context.Context, userID, reason, actorUserID string) error {
	const action = "admin.delete_user"

	userID = strings.TrimSpace(userID)
	actorID := actorOrSystem(actorUserID)
	logAudit := s.auditor(action, actorID, userID)

	if userID == "" {
		err := domain.ErrMissingField("user_id")
		logAudit("error", err, nil)
		return err
	}
	if actorID == userID {
		err := domain.ErrCannotAffectSelf()
		logAudit("error", err, nil)
		return err
	}

	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		err = directoryError(err)
		logAudit("error", err, nil)
		return err
	}

	s.emitUserEvent(ctx, audit.TypeUserDelete, userID, actorID, reasonOr(reason, defaultDeleteReason), nil, map[string]any{
		"username": user.Username,
		"email":    user.Email,
	})

	if err := s.dir.DeleteUser(ctx, userID); err != nil {
		err = directoryError(err)
		logAudit("error", err, nil)
		return err
	}

	logAudit("success", nil, map[string]string{"email": user.Email})
	return nil
}
