package impl

import (
	"context"
	"log/slog"

	deliverycontext "gatehouse/internal/delivery/context"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface. The shared cache is
// the single source of truth for which session currently owns an API key; it
// is consulted here on every authenticated request.
type sessionService struct {
	sessionCache service.SessionCache
	logger       *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	SessionCache service.SessionCache
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		sessionCache: params.SessionCache,
		logger:       params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CheckSession enforces at most one live session per API key. A second
// successful login replaces the cached token, so the first session's next
// request lands here with a mismatch and is revoked transparently.
func (srv *sessionService) CheckSession(ctx context.Context, apiKey, sessionID string) (entity.SessionStatus, error) {
	cached, err := srv.sessionCache.Get(ctx, apiKey)
	if err != nil {
		if errors.Is(err, service.ErrCacheMiss) {
			// No binding at all means nothing owns this key's session.
			srv.log(ctx).Warn("Session check: no active binding for API key")

			return entity.SessionRevoked, nil
		}

		return "", domainerrors.ErrSessionCacheUnavailable.WrapMessage("failed to read session binding")
	}

	if cached != sessionID {
		srv.log(ctx).Warn("Session check: stale session token, revoking binding")

		if err := srv.sessionCache.Delete(ctx, apiKey); err != nil {
			return "", domainerrors.ErrSessionCacheUnavailable.WrapMessage("failed to revoke stale session binding")
		}

		return entity.SessionRevoked, nil
	}

	return entity.SessionValid, nil
}

// Logout removes the session binding for the API key.
func (srv *sessionService) Logout(ctx context.Context, apiKey string) error {
	if err := srv.sessionCache.Delete(ctx, apiKey); err != nil {
		srv.log(ctx).Error("Failed to delete session binding", slog.Any("error", err))

		return domainerrors.ErrSessionCacheUnavailable.WrapMessage("failed to delete session binding")
	}

	srv.log(ctx).Info("Session binding removed")

	return nil
}
