// Package users implements the user-facing service layer: account CRUD,
// search, preferences, and the demo authentication flows on top of the
// entity store.
package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/auth"
	"github.com/dmitrijs2005/taskhub/internal/server/config"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/dmitrijs2005/taskhub/internal/server/storage"
)

// ListResult is one page of users plus the continuation token and the total
// number of users in the store.
type ListResult struct {
	Users         []*models.User
	NextPageToken string
	TotalCount    int
}

// TasksResult is one page of a user's assigned tasks.
type TasksResult struct {
	Tasks         []*models.Task
	NextPageToken string
	TotalCount    int
}

// AuthResult is the outcome of the email-based authenticate flow.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// TokenPair is the outcome of the username-based login flow.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
	ExpiresAt    time.Time
}

type Service struct {
	store                *storage.Store
	logger               logging.Logger
	jwtSecret            []byte
	accessTokenValidity  time.Duration
	sessionTokenValidity time.Duration

	// Issued refresh tokens, refresh token -> user id. In-memory only; a
	// restart invalidates nothing because RefreshToken succeeds regardless.
	mu            sync.Mutex
	refreshTokens map[string]string
}

func NewService(store *storage.Store, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		store:                store,
		logger:               logger.With("module", "users"),
		jwtSecret:            []byte(cfg.SecretKey),
		accessTokenValidity:  cfg.AccessTokenValidityDuration,
		sessionTokenValidity: cfg.SessionTokenValidityDuration,
		refreshTokens:        make(map[string]string),
	}
}

// Create registers a new user. The store assigns the id and timestamps; the
// service fills in the defaults every fresh account starts with. A duplicate
// email surfaces as common.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, username, email, fullName string, role models.UserRole) (*models.User, error) {
	user := &models.User{
		Username: username,
		Email:    email,
		FullName: fullName,
		Role:     role,
		IsActive: true,
		Status:   models.UserStatusActive,
		Preferences: &models.UserPreferences{
			Theme:                "light",
			Language:             "en",
			Timezone:             "UTC",
			NotificationsEnabled: true,
			EmailNotifications:   true,
		},
		Profile: &models.UserProfile{},
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "id", created.ID, "email", created.Email)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, bool) {
	return s.store.GetUser(ctx, id)
}

// Update replaces the user stored under id with the supplied data. The id in
// the body is overridden by the id argument and UpdatedAt is stamped; the
// store treats the write as an upsert.
func (s *Service) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user data is required", common.ErrInvalidArgument)
	}

	updated := user.Clone()
	updated.ID = id
	updated.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, updated); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return updated, nil
}

// Delete removes a user. Returns whether the user existed; deleting an
// unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) bool {
	return s.store.DeleteUser(ctx, id)
}

func (s *Service) List(ctx context.Context, pageSize int, pageToken string) *ListResult {
	batch := s.store.ListUsers(ctx, pageSize, pageToken)
	return &ListResult{
		Users:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountUsers(ctx),
	}
}

func (s *Service) Search(ctx context.Context, query string, pageSize int, pageToken string) *ListResult {
	batch := s.store.SearchUsers(ctx, query, pageSize, pageToken)
	return &ListResult{
		Users:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountUsers(ctx),
	}
}

// UpdatePreferences replaces the preference block of an existing user.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, prefs *models.UserPreferences) (*models.UserPreferences, error) {
	user, ok := s.store.GetUser(ctx, userID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, userID)
	}

	user.Preferences = prefs
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating preferences: %w", err)
	}

	return user.Preferences, nil
}

// GetUserTasks pages through the tasks assigned to userID, in assignment
// order.
func (s *Service) GetUserTasks(ctx context.Context, userID string, pageSize int, pageToken string) *TasksResult {
	batch := s.store.GetTasksByUser(ctx, userID, pageSize, pageToken)
	return &TasksResult{
		Tasks:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountUserTasks(ctx, userID),
	}
}

// Authenticate looks a user up by email and issues a session token. There is
// no credential verification; any existing user authenticates successfully
// and an unknown email comes back as common.ErrUnauthorized. LastLogin is
// stamped on success.
func (s *Service) Authenticate(ctx context.Context, email string) (*AuthResult, error) {
	user, ok := s.store.GetUserByEmail(ctx, email)
	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, common.ErrInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionTokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: now.Add(s.sessionTokenValidity),
	}, nil
}

// Login looks a user up by username and issues an access/refresh token pair.
// Like Authenticate it performs no credential verification.
func (s *Service) Login(ctx context.Context, username string) (*TokenPair, error) {
	user, ok := s.store.GetUserByUsername(ctx, username)
	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, common.ErrInternal
	}

	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}

	s.mu.Lock()
	s.refreshTokens[refreshToken] = user.ID
	s.mu.Unlock()

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		ExpiresAt:    now.Add(s.accessTokenValidity),
	}, nil
}

// RefreshToken issues a new access token. The refresh token is not validated:
// a known token yields a token for its user, an unknown one still succeeds
// with an anonymous subject.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	s.mu.Lock()
	userID := s.refreshTokens[refreshToken]
	s.mu.Unlock()

	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.accessTokenValidity),
	}, nil
}

// Logout forgets the refresh token. Always succeeds; access tokens stay valid
// until they expire.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	s.mu.Lock()
	delete(s.refreshTokens, refreshToken)
	s.mu.Unlock()
	return nil
}

// VerifyToken resolves an access token to the user it was issued for.
func (s *Service) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, ok := s.store.GetUser(ctx, userID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, userID)
	}
	return user, nil
}
