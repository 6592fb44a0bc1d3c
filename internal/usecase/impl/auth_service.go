// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"gatehouse/config"
	deliverycontext "gatehouse/internal/delivery/context"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. Authenticate is the
// ordered credential evaluation: resolve, count, verify, lockout, status
// gate, two-factor gate, bind. Every branch is terminal for the attempt.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	metadataRepo repository.MetadataRepository
	verifier     service.PasswordVerifier
	twoFactor    service.TwoFactorValidator
	sessionCache service.SessionCache
	keyGen       service.KeyGenerator
	tokenService service.TokenService
	qrService    service.QRCodeService
	policy       lockoutPolicy
	apiKeyLength int
	appName      string
	debug        bool
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	MetadataRepo repository.MetadataRepository
	Verifier     service.PasswordVerifier
	TwoFactor    service.TwoFactorValidator
	SessionCache service.SessionCache
	KeyGen       service.KeyGenerator
	TokenService service.TokenService
	QRService    service.QRCodeService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	authCfg := params.Config.Auth

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		metadataRepo: params.MetadataRepo,
		verifier:     params.Verifier,
		twoFactor:    params.TwoFactor,
		sessionCache: params.SessionCache,
		keyGen:       params.KeyGen,
		tokenService: params.TokenService,
		qrService:    params.QRService,
		policy: lockoutPolicy{
			maxAttempts: authCfg.MaxAttempts,
			window:      authCfg.LockoutWindow,
		},
		apiKeyLength: authCfg.APIKeyLength,
		appName:      authCfg.AppName,
		debug:        params.Config.Env.Debug,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authenticate runs the credential evaluation for one attempt. Credential
// outcomes travel in the Result field; the error return is reserved for
// infrastructure failures (store unavailability, key generation), which are
// never conflated with authentication results.
func (srv *authService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthenticateOutput, error) {
	srv.log(ctx).Debug("Starting authentication", slog.String("email", input.Email), slog.Bool("force", input.Force))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Authentication failed: unknown identity", slog.String("email", input.Email))

			return &usecase.AuthenticateOutput{Result: entity.ResultUnknownIdentity}, nil
		}

		return nil, errors.Wrap(err, "failed to resolve user for authentication")
	}

	// A trusted external identity provider already vouched for this user;
	// skip credential evaluation and go straight to binding.
	if input.Force {
		return srv.completeAuthentication(ctx, user, nil)
	}

	counter, err := srv.metadataRepo.GetOrCreate(ctx, user.ID, entity.MetaKeyPasswordAttempts, "0")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load attempt counter")
	}

	code := srv.evaluateCredentials(ctx, user, counter, input)
	if !code.OK() {
		result := redactResult(code, srv.debug)
		srv.log(ctx).Warn("Authentication failed",
			slog.Any("userID", user.ID),
			slog.String("result", code.String()),
			slog.String("surfaced", result.String()),
		)

		return &usecase.AuthenticateOutput{Result: result}, nil
	}

	return srv.completeAuthentication(ctx, user, counter)
}

// evaluateCredentials walks the ordered validation steps and returns the
// terminal result code for the attempt. Later gates overwrite the code set by
// earlier ones; in particular the two-factor codes replace password failures
// so the caller can always be prompted for a code when one is required.
func (srv *authService) evaluateCredentials(ctx context.Context, user *entity.User, counter *entity.UserMetadata, input *usecase.AuthenticateInput) entity.AuthResult {
	// The lockout gate judges the counter as loaded, before this attempt's
	// failed-verify save increments it and refreshes its timestamp.
	priorAttempts := counter.IntValue()
	priorSave := counter.UpdatedAt

	code := entity.ResultNone

	if !srv.verifier.Verify(input.Password, user.PasswordHash) {
		counter.SetIntValue(counter.IntValue() + 1)
		if err := srv.metadataRepo.Save(ctx, counter); err != nil {
			srv.log(ctx).Error("Failed to persist attempt counter", slog.Any("userID", user.ID), slog.Any("error", err))
		}
		code = entity.ResultPasswordInvalid
	} else {
		srv.maybeRehash(ctx, user, input.Password)
	}

	if srv.policy.tripped(priorAttempts) {
		if srv.policy.windowOpen(priorSave, time.Now()) {
			// Still locked: re-save the counter without clearing it so the
			// window is measured from this attempt, then report the lockout.
			if err := srv.metadataRepo.Save(ctx, counter); err != nil {
				srv.log(ctx).Error("Failed to refresh lockout window", slog.Any("userID", user.ID), slog.Any("error", err))
			}

			return entity.ResultPasswordLockout
		}

		// Quiet window elapsed: the counter resets and the attempt proceeds
		// on the password evaluation above.
		counter.SetIntValue(0)
		if err := srv.metadataRepo.Save(ctx, counter); err != nil {
			srv.log(ctx).Error("Failed to reset attempt counter", slog.Any("userID", user.ID), slog.Any("error", err))
		}
	}

	// Status gating is independent of password correctness and can override
	// a correct password.
	if !user.CanAuthenticate() {
		srv.log(ctx).Warn("Authentication blocked by account status", slog.Any("userID", user.ID), slog.String("status", string(user.Status)))
		code = entity.ResultUnknownIdentity
	}

	if twoFactorCode, ok := srv.twoFactorGate(ctx, user, input.TwoFactorCode); ok {
		code = twoFactorCode
	}

	return code
}

// twoFactorGate evaluates the two-factor requirement. The second return is
// true when the gate produced a code that must replace the current one.
// Two-factor failures do not touch the password attempt counter.
func (srv *authService) twoFactorGate(ctx context.Context, user *entity.User, suppliedCode string) (entity.AuthResult, bool) {
	seedMeta, err := srv.metadataRepo.GetOrCreate(ctx, user.ID, entity.MetaKeyOTPSeed, "")
	if err != nil {
		srv.log(ctx).Error("Failed to load two-factor seed", slog.Any("userID", user.ID), slog.Any("error", err))

		// Fail closed: an unreadable seed must not silently waive the gate.
		return entity.ResultRequireTwoFactor, true
	}

	if seedMeta.Value == "" {
		return entity.ResultNone, false
	}

	if suppliedCode == "" {
		return entity.ResultRequireTwoFactor, true
	}

	if !srv.twoFactor.Validate(suppliedCode, seedMeta.Value) {
		srv.log(ctx).Warn("Invalid two-factor code", slog.Any("userID", user.ID))

		return entity.ResultInvalidTwoFactor, true
	}

	return entity.ResultNone, false
}

// maybeRehash upgrades the stored hash when its embedded work factor is below
// the configured target. The login already succeeded on the pre-upgrade hash,
// so a persistence failure is reported but never invalidates the attempt.
func (srv *authService) maybeRehash(ctx context.Context, user *entity.User, password string) {
	if !srv.verifier.NeedsRehash(user.PasswordHash) {
		return
	}

	newHash, err := srv.verifier.Hash(password)
	if err != nil {
		srv.log(ctx).Error("Failed to recompute password hash", slog.Any("userID", user.ID), slog.Any("error", err))

		return
	}

	user.PasswordHash = newHash
	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to persist upgraded password hash", slog.Any("userID", user.ID), slog.Any("error", err))

		return
	}

	srv.log(ctx).Info("Upgraded password hash work factor", slog.Any("userID", user.ID))
}

// completeAuthentication binds the identity and session for a fully
// authenticated user: resolve or mint the API key, bind the session token in
// the shared cache, reset the attempt counter and issue the access token.
func (srv *authService) completeAuthentication(ctx context.Context, user *entity.User, counter *entity.UserMetadata) (*usecase.AuthenticateOutput, error) {
	identity, err := srv.bindIdentity(ctx, user)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	if err := srv.sessionCache.Set(ctx, identity.APIKey, sessionID); err != nil {
		return nil, domainerrors.ErrSessionCacheUnavailable.WrapMessage("failed to bind session")
	}

	if counter != nil && counter.IntValue() != 0 {
		counter.SetIntValue(0)
		if err := srv.metadataRepo.Save(ctx, counter); err != nil {
			srv.log(ctx).Error("Failed to clear attempt counter after login", slog.Any("userID", user.ID), slog.Any("error", err))
		}
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, identity.Role.String(), identity.APIKey, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Info("User authenticated", slog.Any("userID", user.ID))

	return &usecase.AuthenticateOutput{
		Result:      entity.ResultNone,
		Identity:    identity,
		AccessToken: accessToken,
		SessionID:   sessionID,
	}, nil
}

// bindIdentity materializes the post-authentication identity and resolves the
// per-(user, application) API key, minting one when absent. Key generation or
// persistence failure is a hard server error distinct from every
// authentication result.
func (srv *authService) bindIdentity(ctx context.Context, user *entity.User) (*entity.Identity, error) {
	var apiKey string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		metadataRepo := repoFactory.MetadataRepo()

		keyMeta, err := metadataRepo.GetOrCreate(ctx, user.ID, entity.APIKeyMetaKey(srv.appName), "")
		if err != nil {
			return errors.Wrap(err, "failed to resolve API key metadata")
		}

		if keyMeta.Value == "" {
			newKey, genErr := srv.keyGen.Generate(srv.apiKeyLength)
			if genErr != nil {
				return domainerrors.ErrAPIKeyGeneration.WrapMessage("key generation failed")
			}

			keyMeta.Value = newKey
			if saveErr := metadataRepo.Save(ctx, keyMeta); saveErr != nil {
				return domainerrors.ErrAPIKeyGeneration.WrapMessage("key persistence failed")
			}
		}

		apiKey = keyMeta.Value

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to bind identity", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	return &entity.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Status:   user.Status,
		Role:     user.Role,
		APIKey:   apiKey,
	}, nil
}

// Register creates a new user with a hash computed at the configured target cost.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	passwordHash, err := srv.verifier.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: passwordHash,
		Status:       entity.StatusActive,
		Role:         entity.RoleUser,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// EnrollTwoFactor mints a TOTP seed for the user and persists it; from the
// next login on, authentication requires a valid one-time code.
func (srv *authService) EnrollTwoFactor(ctx context.Context, userID uuid.UUID) (*usecase.EnrollTwoFactorOutput, error) {
	srv.log(ctx).Info("Enrolling two-factor authentication", slog.Any("userID", userID))

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("cannot enroll two-factor for unknown user")
		}

		return nil, errors.Wrap(err, "failed to load user for two-factor enrollment")
	}

	seed, provisioningURI, err := srv.twoFactor.GenerateSeed(user.Email)
	if err != nil {
		return nil, domainerrors.ErrTwoFactorEnrollment.WrapMessage("seed generation failed")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		metadataRepo := repoFactory.MetadataRepo()

		seedMeta, err := metadataRepo.GetOrCreate(ctx, user.ID, entity.MetaKeyOTPSeed, "")
		if err != nil {
			return errors.Wrap(err, "failed to resolve two-factor seed metadata")
		}

		seedMeta.Value = seed

		return metadataRepo.Save(ctx, seedMeta)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to persist two-factor seed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, domainerrors.ErrTwoFactorEnrollment.WrapMessage("seed persistence failed")
	}

	qrPNG, err := srv.qrService.GeneratePNG(provisioningURI)
	if err != nil {
		return nil, domainerrors.ErrTwoFactorEnrollment.WrapMessage("QR code generation failed")
	}

	return &usecase.EnrollTwoFactorOutput{
		Secret:          seed,
		ProvisioningURI: provisioningURI,
		QRCodePNG:       base64.StdEncoding.EncodeToString(qrPNG),
	}, nil
}
