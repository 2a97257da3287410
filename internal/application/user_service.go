package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	repo "github.com/appdotbuilder/attendance-tracker/internal/domain/repository"
	"github.com/appdotbuilder/attendance-tracker/pkg/helpers"
	"github.com/appdotbuilder/attendance-tracker/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidRole        = errors.New("invalid role")
)

// UserService covers authentication, sessions, and admin account
// management. Every mutating or targeted call takes the acting identity
// explicitly and is gated by the policy in policy.go.
type UserService struct {
	Users   repo.UserRepository
	Records repo.AttendanceRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger

	GCS       *storage.Client
	GCSBucket string

	ES           *elasticsearch.Client
	ESUsersIndex string

	Pub     *helpers.RabbitPublisher
	AppName string
}

func NewUserService(users repo.UserRepository, records repo.AttendanceRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Records: records, JWT: jwt, Redis: rdb, Logger: logger}
}

// TokenPair carries a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate validates email/password and returns the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records a session hash
// in Redis. The session carries the role so the auth middleware can build
// the Actor without a database read.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role), sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role), sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// LoginResponse is the caller-facing login payload.
type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)}, pair, nil
}

// Refresh rotates the session id and token pair after validating the
// refresh token against the stored session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the server-side session.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// GetProfile returns the actor's own account.
func (s *UserService) GetProfile(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfileInput carries the self-service profile fields. Email, role,
// and password changes go through the admin update path.
type UpdateProfileInput struct {
	Name string
}

func (s *UserService) UpdateProfile(ctx context.Context, actor entity.Actor, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.refreshSession(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar stores an avatar image in GCS and saves its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, actor entity.Actor, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", u.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

// UserPage is a paged user listing.
type UserPage struct {
	Users   []entity.User
	Total   int64
	Page    int
	PerPage int
}

const userPageSize = 10

// ListUsers returns one page of accounts, newest first. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor entity.Actor, page int) (*UserPage, error) {
	if err := Authorize(actor, ActionListUsers, ""); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	users, total, err := s.Users.List(ctx, (page-1)*userPageSize, userPageSize)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Page: page, PerPage: userPageSize}, nil
}

// UserDetail is one account plus its most recent attendance records.
type UserDetail struct {
	User             *entity.User
	RecentAttendance []entity.AttendanceRecord
}

const userDetailRecentLimit = 10

// GetUser returns a profile: admins may view anyone, employees only
// themselves.
func (s *UserService) GetUser(ctx context.Context, actor entity.Actor, id string) (*UserDetail, error) {
	if err := Authorize(actor, ActionViewUser, id); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	recent, err := s.Records.RecentByUser(ctx, id, userDetailRecentLimit)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: u, RecentAttendance: recent}, nil
}

// CreateUserInput carries the admin account-creation fields.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

func (s *UserService) CreateUser(ctx context.Context, actor entity.Actor, in CreateUserInput) (*entity.User, error) {
	if err := Authorize(actor, ActionCreateUser, ""); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if existing, err := s.Users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name":    u.Name,
			"Email":   u.Email,
			"Role":    string(u.Role),
			"AppName": s.AppName,
		},
	})
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	}
	return u, nil
}

// UpdateUserInput carries the admin update fields. A nil/empty Password
// keeps the current hash, matching the original update rule.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

func (s *UserService) UpdateUser(ctx context.Context, actor entity.Actor, id string, in UpdateUserInput) (*entity.User, error) {
	if err := Authorize(actor, ActionUpdateUser, id); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.Email != u.Email {
		if existing, err := s.Users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
			return nil, ErrEmailTaken
		}
	}

	roleChanged := u.Role != in.Role
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.refreshSession(ctx, u)
	_ = s.indexUser(ctx, u)
	if roleChanged {
		s.enqueueEmail(ctx, mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplateRoleChanged,
			Data: map[string]any{
				"Name":    u.Name,
				"Role":    string(u.Role),
				"AppName": s.AppName,
			},
		})
	}
	return u, nil
}

// DeleteUser removes an account and, via the schema cascade, its
// attendance records. Self-deletion is always denied by the policy.
func (s *UserService) DeleteUser(ctx context.Context, actor entity.Actor, id string) error {
	if err := Authorize(actor, ActionDeleteUser, id); err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(id)).Err()
	}
	s.deleteUserIndex(ctx, id)
	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("user deleted")
	}
	return nil
}

// refreshSession pushes updated account fields into an existing session
// hash so role and name changes take effect without re-login.
func (s *UserService) refreshSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	if n, err := s.Redis.Exists(ctx, key).Result(); err != nil || n == 0 {
		return
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"name":       u.Name,
		"email":      u.Email,
		"role":       string(u.Role),
		"updated_at": nowRFC3339(),
	})
	if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *UserService) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("email enqueue failed")
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       string(u.Role),
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deleteUserIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a multi_match search on name and email. Admin only.
func (s *UserService) SearchUsers(ctx context.Context, actor entity.Actor, q string, size int) ([]map[string]any, error) {
	if err := Authorize(actor, ActionListUsers, ""); err != nil {
		return nil, err
	}
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
