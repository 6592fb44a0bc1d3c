package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"gatehouse/config"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(debug bool) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:     13,
			MaxAttempts:    5,
			LockoutWindow:  15 * time.Minute,
			APIKeyLength:   16,
			AppName:        "gatehouse",
			AccessTokenTTL: 15 * time.Minute,
		},
	}
	cfg.Env.Debug = debug

	return cfg
}

// --- In-memory fakes behind the repository/service interfaces ---

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[uuid.UUID]*entity.User

	updateErr   error
	updateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*entity.User),
		byID:    make(map[uuid.UUID]*entity.User),
	}
}

func (r *fakeUserRepo) add(user *entity.User) {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return domainerrors.ErrUserAlreadyExists
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.add(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	r.add(user)

	return nil
}

type fakeMetadataRepo struct {
	rows map[string]entity.UserMetadata

	saveErr error
	now     func() time.Time
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{
		rows: make(map[string]entity.UserMetadata),
		now:  time.Now,
	}
}

func metaRowKey(userID uuid.UUID, key string) string {
	return userID.String() + "/" + key
}

// seed installs a row directly, bypassing Save's timestamp refresh.
func (r *fakeMetadataRepo) seed(meta entity.UserMetadata) {
	r.rows[metaRowKey(meta.UserID, meta.Key)] = meta
}

func (r *fakeMetadataRepo) row(userID uuid.UUID, key string) (entity.UserMetadata, bool) {
	meta, ok := r.rows[metaRowKey(userID, key)]

	return meta, ok
}

func (r *fakeMetadataRepo) GetOrCreate(_ context.Context, userID uuid.UUID, key string, defaultValue string) (*entity.UserMetadata, error) {
	if meta, ok := r.rows[metaRowKey(userID, key)]; ok {
		copied := meta

		return &copied, nil
	}

	meta := entity.UserMetadata{
		UserID:    userID,
		Key:       key,
		Value:     defaultValue,
		CreatedAt: r.now(),
		UpdatedAt: r.now(),
	}
	r.rows[metaRowKey(userID, key)] = meta
	copied := meta

	return &copied, nil
}

func (r *fakeMetadataRepo) Save(_ context.Context, meta *entity.UserMetadata) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	meta.UpdatedAt = r.now()
	r.rows[metaRowKey(meta.UserID, meta.Key)] = *meta

	return nil
}

// fakeTxManager runs the callback directly against the shared fakes, acting
// as both TransactionManager and RepositoryFactory.
type fakeTxManager struct {
	userRepo     *fakeUserRepo
	metadataRepo *fakeMetadataRepo
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return fn(tm)
}

func (tm *fakeTxManager) UserRepo() repository.UserRepository {
	return tm.userRepo
}

func (tm *fakeTxManager) MetadataRepo() repository.MetadataRepository {
	return tm.metadataRepo
}

type fakeVerifier struct {
	accepted    string
	needsRehash bool
	hashErr     error
	hashCalls   int
}

func (v *fakeVerifier) Hash(password string) (string, error) {
	v.hashCalls++
	if v.hashErr != nil {
		return "", v.hashErr
	}

	return "hashed:" + password, nil
}

func (v *fakeVerifier) Verify(password, _ string) bool {
	return password == v.accepted
}

func (v *fakeVerifier) NeedsRehash(_ string) bool {
	return v.needsRehash
}

type fakeTwoFactor struct {
	validCode string
	seed      string
	seedErr   error
}

func (f *fakeTwoFactor) Validate(code, _ string) bool {
	return code == f.validCode
}

func (f *fakeTwoFactor) GenerateSeed(accountName string) (string, string, error) {
	if f.seedErr != nil {
		return "", "", f.seedErr
	}

	return f.seed, "otpauth://totp/gatehouse:" + accountName + "?secret=" + f.seed, nil
}

type fakeSessionCache struct {
	entries map[string]string
	getErr  error
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{entries: make(map[string]string)}
}

func (c *fakeSessionCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}

	value, ok := c.entries[key]
	if !ok {
		return "", service.ErrCacheMiss
	}

	return value, nil
}

func (c *fakeSessionCache) Set(_ context.Context, key, value string) error {
	c.entries[key] = value

	return nil
}

func (c *fakeSessionCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)

	return nil
}

type fakeKeyGenerator struct {
	err   error
	calls int
}

func (g *fakeKeyGenerator) Generate(length int) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}

	return strings.Repeat("k", length), nil
}

type fakeTokenService struct{}

func (s *fakeTokenService) GenerateAccessToken(userID uuid.UUID, _, _, _ string) (string, error) {
	return "access-token-" + userID.String(), nil
}

func (s *fakeTokenService) ValidateToken(_ string) (*service.Claims, error) {
	return nil, nil
}

func (s *fakeTokenService) GetAccessTokenDuration() time.Duration {
	return 15 * time.Minute
}

type fakeQRCodeService struct{}

func (s *fakeQRCodeService) GeneratePNG(_ string) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

// authFixture bundles the service under test with every fake it talks to.
type authFixture struct {
	service      usecase.AuthUsecase
	userRepo     *fakeUserRepo
	metadataRepo *fakeMetadataRepo
	verifier     *fakeVerifier
	twoFactor    *fakeTwoFactor
	sessionCache *fakeSessionCache
	keyGen       *fakeKeyGenerator
	user         *entity.User
}

const (
	testPassword = "correct-horse-battery"
	testAppName  = "gatehouse"
)

// newAuthFixture builds an authService in debug mode (distinct error codes)
// around one active user who knows testPassword.
func newAuthFixture(debug bool) *authFixture {
	userRepo := newFakeUserRepo()
	metadataRepo := newFakeMetadataRepo()
	verifier := &fakeVerifier{accepted: testPassword}
	twoFactor := &fakeTwoFactor{validCode: "123456", seed: "JBSWY3DPEHPK3PXP"}
	sessionCache := newFakeSessionCache()
	keyGen := &fakeKeyGenerator{}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        "resident@example.com",
		Username:     "resident",
		PasswordHash: "hashed:" + testPassword,
		Status:       entity.StatusActive,
		Role:         entity.RoleUser,
	}
	userRepo.add(user)

	svc := NewAuthService(AuthServiceParams{
		TxManager:    &fakeTxManager{userRepo: userRepo, metadataRepo: metadataRepo},
		UserRepo:     userRepo,
		MetadataRepo: metadataRepo,
		Verifier:     verifier,
		TwoFactor:    twoFactor,
		SessionCache: sessionCache,
		KeyGen:       keyGen,
		TokenService: &fakeTokenService{},
		QRService:    &fakeQRCodeService{},
		Config:       newTestConfig(debug),
		Logger:       newDiscardLogger(),
	})

	return &authFixture{
		service:      svc,
		userRepo:     userRepo,
		metadataRepo: metadataRepo,
		verifier:     verifier,
		twoFactor:    twoFactor,
		sessionCache: sessionCache,
		keyGen:       keyGen,
		user:         user,
	}
}

func (f *authFixture) attemptCounter() (entity.UserMetadata, bool) {
	return f.metadataRepo.row(f.user.ID, entity.MetaKeyPasswordAttempts)
}

func (f *authFixture) seedCounter(value int, updatedAt time.Time) {
	meta := entity.UserMetadata{
		UserID:    f.user.ID,
		Key:       entity.MetaKeyPasswordAttempts,
		UpdatedAt: updatedAt,
	}
	meta.SetIntValue(value)
	f.metadataRepo.seed(meta)
}

func (f *authFixture) enableTwoFactor() {
	f.metadataRepo.seed(entity.UserMetadata{
		UserID: f.user.ID,
		Key:    entity.MetaKeyOTPSeed,
		Value:  f.twoFactor.seed,
	})
}

func (f *authFixture) login(password, twoFactorCode string) (*usecase.AuthenticateOutput, error) {
	return f.service.Authenticate(context.Background(), &usecase.AuthenticateInput{
		Email:         f.user.Email,
		Password:      password,
		TwoFactorCode: twoFactorCode,
	})
}
