package impl

import (
	"context"
	"testing"
	"time"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_UnknownIdentity(t *testing.T) {
	f := newAuthFixture(true)

	output, err := f.service.Authenticate(context.Background(), &usecase.AuthenticateInput{
		Email:    "nobody@example.com",
		Password: testPassword,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ResultUnknownIdentity, output.Result)
	assert.Nil(t, output.Identity)
}

func TestAuthenticate_WrongPasswordIncrementsCounter(t *testing.T) {
	f := newAuthFixture(true)

	output, err := f.login("wrong-password", "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultPasswordInvalid, output.Result)

	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 1, counter.IntValue())

	// Each further failure adds exactly one.
	_, err = f.login("wrong-password", "")
	require.NoError(t, err)

	counter, _ = f.attemptCounter()
	assert.Equal(t, 2, counter.IntValue())
}

func TestAuthenticate_ThresholdCrossingFailureIsStillPasswordInvalid(t *testing.T) {
	f := newAuthFixture(true)
	f.seedCounter(4, time.Now().Add(-time.Minute))

	// The attempt that carries the counter to the threshold is judged against
	// the pre-increment count, so it reports the wrong password, not a lockout.
	output, err := f.login("wrong-password", "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultPasswordInvalid, output.Result)

	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 5, counter.IntValue())

	// Only the next attempt lands on a tripped counter.
	output, err = f.login("wrong-password", "")
	require.NoError(t, err)
	assert.Equal(t, entity.ResultPasswordLockout, output.Result)
}

func TestAuthenticate_LockoutInsideWindow(t *testing.T) {
	f := newAuthFixture(true)
	lastFailure := time.Now().Add(-time.Minute)
	f.seedCounter(5, lastFailure)

	// A correct password does not bypass the lockout.
	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultPasswordLockout, output.Result)

	// The locked-out attempt refreshes the window's timestamp without
	// clearing the count.
	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 5, counter.IntValue())
	assert.True(t, counter.UpdatedAt.After(lastFailure))
}

func TestAuthenticate_LockoutWindowElapsed(t *testing.T) {
	f := newAuthFixture(true)
	f.seedCounter(5, time.Now().Add(-16*time.Minute))

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultNone, output.Result)

	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 0, counter.IntValue())
}

func TestAuthenticate_LockoutWindowElapsedWrongPassword(t *testing.T) {
	f := newAuthFixture(true)
	f.seedCounter(5, time.Now().Add(-16*time.Minute))

	output, err := f.login("wrong-password", "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultPasswordInvalid, output.Result)

	// The elapsed window resets the counter even though this attempt failed;
	// the next failure starts counting from zero again.
	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 0, counter.IntValue())
}

func TestAuthenticate_BannedUserNeverAuthenticates(t *testing.T) {
	f := newAuthFixture(true)
	f.user.Status = entity.StatusBanned

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultUnknownIdentity, output.Result)
	assert.Nil(t, output.Identity)
}

func TestAuthenticate_RequireTwoFactor(t *testing.T) {
	f := newAuthFixture(true)
	f.enableTwoFactor()

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultRequireTwoFactor, output.Result)
}

func TestAuthenticate_RequireTwoFactorOverridesPasswordFailure(t *testing.T) {
	f := newAuthFixture(true)
	f.enableTwoFactor()

	output, err := f.login("wrong-password", "")

	require.NoError(t, err)
	// The caller must always learn a code is required, even when the
	// password also failed.
	assert.Equal(t, entity.ResultRequireTwoFactor, output.Result)

	// The password failure still counted.
	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 1, counter.IntValue())
}

func TestAuthenticate_ValidTwoFactor(t *testing.T) {
	f := newAuthFixture(true)
	f.enableTwoFactor()

	output, err := f.login(testPassword, "123456")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultNone, output.Result)
	require.NotNil(t, output.Identity)
	assert.Equal(t, f.user.ID, output.Identity.UserID)
}

func TestAuthenticate_InvalidTwoFactor(t *testing.T) {
	f := newAuthFixture(true)
	f.enableTwoFactor()

	output, err := f.login(testPassword, "000000")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultInvalidTwoFactor, output.Result)

	// Two-factor failures are ungated by the password lockout policy.
	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 0, counter.IntValue())
}

func TestAuthenticate_RehashOnStaleHash(t *testing.T) {
	f := newAuthFixture(true)
	f.verifier.needsRehash = true

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultNone, output.Result)

	// Exactly one recompute-and-save.
	assert.Equal(t, 1, f.verifier.hashCalls)
	assert.Equal(t, 1, f.userRepo.updateCalls)
	assert.Equal(t, "hashed:"+testPassword, f.user.PasswordHash)
}

func TestAuthenticate_RehashSaveFailureDoesNotInvalidateLogin(t *testing.T) {
	f := newAuthFixture(true)
	f.verifier.needsRehash = true
	f.userRepo.updateErr = errors.New("write refused")

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultNone, output.Result)
	assert.Equal(t, 1, f.userRepo.updateCalls)
}

func TestAuthenticate_SuccessResetsCounter(t *testing.T) {
	f := newAuthFixture(true)
	f.seedCounter(3, time.Now())

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, entity.ResultNone, output.Result)

	counter, ok := f.attemptCounter()
	require.True(t, ok)
	assert.Equal(t, 0, counter.IntValue())
}

func TestAuthenticate_BindsAPIKeyAndSession(t *testing.T) {
	f := newAuthFixture(true)

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	require.NotNil(t, output.Identity)
	assert.Len(t, output.Identity.APIKey, 16)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.SessionID)

	// The key lives in the per-(user, application) metadata row and the
	// session binding in the cache.
	keyMeta, ok := f.metadataRepo.row(f.user.ID, entity.APIKeyMetaKey(testAppName))
	require.True(t, ok)
	assert.Equal(t, output.Identity.APIKey, keyMeta.Value)
	assert.Equal(t, output.SessionID, f.sessionCache.entries[output.Identity.APIKey])
}

func TestAuthenticate_ReusesExistingAPIKey(t *testing.T) {
	f := newAuthFixture(true)
	f.metadataRepo.seed(entity.UserMetadata{
		UserID: f.user.ID,
		Key:    entity.APIKeyMetaKey(testAppName),
		Value:  "existing-api-key",
	})

	output, err := f.login(testPassword, "")

	require.NoError(t, err)
	assert.Equal(t, "existing-api-key", output.Identity.APIKey)
	assert.Zero(t, f.keyGen.calls)
}

func TestAuthenticate_KeyGenerationFailureIsServerError(t *testing.T) {
	f := newAuthFixture(true)
	f.keyGen.err = errors.New("entropy exhausted")

	output, err := f.login(testPassword, "")

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrAPIKeyGeneration.ErrorCode(), appErr.ErrorCode())
}

func TestAuthenticate_ForceBypassesCredentialEvaluation(t *testing.T) {
	f := newAuthFixture(true)
	f.user.Status = entity.StatusBanned
	f.enableTwoFactor()

	output, err := f.service.Authenticate(context.Background(), &usecase.AuthenticateInput{
		Email:    f.user.Email,
		Password: "wrong-password",
		Force:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ResultNone, output.Result)
	require.NotNil(t, output.Identity)

	// Password, lockout and two-factor branches never ran.
	_, counterCreated := f.attemptCounter()
	assert.False(t, counterCreated)
}

func TestAuthenticate_ForceStillRequiresResolvableUser(t *testing.T) {
	f := newAuthFixture(true)

	output, err := f.service.Authenticate(context.Background(), &usecase.AuthenticateInput{
		Email: "nobody@example.com",
		Force: true,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ResultUnknownIdentity, output.Result)
}

func TestAuthenticate_ProductionCollapsesPasswordCodes(t *testing.T) {
	f := newAuthFixture(false)

	output, err := f.login("wrong-password", "")
	require.NoError(t, err)
	assert.Equal(t, entity.ResultUnknownIdentity, output.Result)

	f.seedCounter(5, time.Now())
	output, err = f.login(testPassword, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ResultUnknownIdentity, output.Result)
}

func TestAuthenticate_ProductionKeepsTwoFactorCodes(t *testing.T) {
	f := newAuthFixture(false)
	f.enableTwoFactor()

	output, err := f.login(testPassword, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ResultRequireTwoFactor, output.Result)

	output, err = f.login(testPassword, "000000")
	require.NoError(t, err)
	assert.Equal(t, entity.ResultInvalidTwoFactor, output.Result)
}

func TestRegister_CreatesActiveUser(t *testing.T) {
	f := newAuthFixture(true)

	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "new@example.com",
		Username: "newcomer",
		Password: "a-long-password",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, output.User.Status)
	assert.Equal(t, entity.RoleUser, output.User.Role)
	assert.Equal(t, "hashed:a-long-password", output.User.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(true)

	_, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    f.user.Email,
		Username: "copycat",
		Password: "a-long-password",
	})

	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrUserAlreadyExists.ErrorCode(), appErr.ErrorCode())
}

func TestEnrollTwoFactor_PersistsSeed(t *testing.T) {
	f := newAuthFixture(true)

	output, err := f.service.EnrollTwoFactor(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Equal(t, f.twoFactor.seed, output.Secret)
	assert.Contains(t, output.ProvisioningURI, "otpauth://")
	assert.NotEmpty(t, output.QRCodePNG)

	seedMeta, ok := f.metadataRepo.row(f.user.ID, entity.MetaKeyOTPSeed)
	require.True(t, ok)
	assert.Equal(t, f.twoFactor.seed, seedMeta.Value)

	// The next login now demands a code.
	login, err := f.login(testPassword, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ResultRequireTwoFactor, login.Result)
}

func TestEnrollTwoFactor_UnknownUser(t *testing.T) {
	f := newAuthFixture(true)

	_, err := f.service.EnrollTwoFactor(context.Background(), uuid.New())

	require.Error(t, err)
}
