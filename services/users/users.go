package users

import (
	. "Townhall/common"
	"Townhall/database"
	"Townhall/model"
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"gitlab.com/CoiaPrant/cache2go"
	"gitlab.com/CoiaPrant/clog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultTokenLifetime = 7 * 24 * time.Hour
	userLifeSpan         = time.Minute

	maxUsernameLength = 64
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

type userCache = *cache2go.CacheTableOf[int64, *model.User]

type Service struct {
	db database.DB

	secret   []byte
	lifetime time.Duration

	users userCache
}

func New(db database.DB, conf model.AuthConfig) *Service {
	lifetime := time.Duration(conf.TokenLifetime) * time.Second
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	return &Service{
		db:       db,
		secret:   []byte(conf.SecretKey),
		lifetime: lifetime,
		users:    cache2go.CacheOf[int64, *model.User](),
	}
}

func ValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// ValidPassword requires at least four characters with one letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 4 {
		return false
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return letter && digit
}

func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	if !ValidUsername(username) {
		return nil, BadRequest("Username must be at most %d letters and digits.", maxUsernameLength)
	}

	if !ValidPassword(password) {
		return nil, BadRequest("Password must be at least 4 characters and contain a letter and a digit.")
	}

	existing, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, BadRequest("Username '%s' is already in use.", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal(err, "Invalid register data.")
	}

	user := &model.User{Username: username, PasswordHash: string(hash)}
	err = s.db().WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, BadRequest("Username '%s' is already in use.", username)
	}

	if err != nil {
		clog.Errorf("[DB] execute error: %s", err)
		return nil, Internal(err, "Invalid register data.")
	}

	clog.Infof("[Users] registered %s (id %d)", user.Username, user.Id)
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		clog.Debugf("[Users] login failed for '%s'", username)
		return "", nil, BadRequest("Invalid login data.")
	}

	token, err := s.issueToken(user, time.Now())
	if err != nil {
		return "", nil, Internal(err, "Could not issue token.")
	}

	return token, user, nil
}

// Authenticate resolves a bearer credential to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		clog.Debugf("[Users] rejected token: %s", err)
		return nil, Unauthorized("Invalid token.")
	}

	user, err := s.FindById(ctx, claims.Id)
	if err != nil {
		return nil, err
	}

	if user == nil || user.Username != claims.Username {
		return nil, Unauthorized("Invalid token.")
	}

	return user, nil
}

// FindById serves from the short-lived cache when possible.
func (s *Service) FindById(ctx context.Context, id int64) (*model.User, error) {
	if item, err := s.users.Value(id); err == nil {
		user := *item.Data()
		return &user, nil
	}

	var user model.User
	err := s.db().WithContext(ctx).Where("id", id).Limit(1).Find(&user).Error
	if err != nil {
		clog.Errorf("[DB] execute error: %s", err)
		return nil, Internal(err, "Could not load user.")
	}

	if user.Id == 0 {
		return nil, nil
	}

	cached := user
	s.users.Add(user.Id, userLifeSpan, &cached)
	return &user, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db().WithContext(ctx).Where("username", username).Limit(1).Find(&user).Error
	if err != nil {
		clog.Errorf("[DB] execute error: %s", err)
		return nil, Internal(err, "Could not load user.")
	}

	if user.Id == 0 {
		return nil, nil
	}

	return &user, nil
}

// SetAvatarURL stores an absolute http(s) URL, an empty string clears it.
func (s *Service) SetAvatarURL(ctx context.Context, actor *model.User, avatarURL string) (*model.User, error) {
	if actor == nil {
		return nil, Unauthorized("Authentication required.")
	}

	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL != "" {
		u, err := url.ParseRequestURI(avatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, BadRequest("Avatar URL must be an absolute http(s) URL.")
		}
	}

	err := s.db().WithContext(ctx).Model(model.User{}).Where("id", actor.Id).Update("avatar_url", avatarURL).Error
	if err != nil {
		clog.Errorf("[DB] execute error: %s", err)
		return nil, Internal(err, "Could not update avatar.")
	}

	s.forget(actor.Id)
	return s.FindById(ctx, actor.Id)
}

// PromoteAdmins grants the admin flag to the given usernames and reports how many exist.
func (s *Service) PromoteAdmins(ctx context.Context, usernames []string) (int, error) {
	if len(usernames) == 0 {
		return 0, nil
	}

	var users []model.User
	err := s.db().WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error
	if err != nil {
		return 0, err
	}

	for _, user := range users {
		if user.IsAdmin {
			continue
		}

		err = s.db().WithContext(ctx).Model(model.User{}).Where("id", user.Id).Update("is_admin", true).Error
		if err != nil {
			return 0, err
		}

		s.forget(user.Id)
		clog.Infof("[Users] %s promoted to administrator", user.Username)
	}

	return len(users), nil
}

func (s *Service) forget(id int64) {
	s.users.Delete(id)
}
