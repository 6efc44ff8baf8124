package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/requestdata"
	"github.com/planmate/planmate-backend/internal/types"
	"github.com/planmate/planmate-backend/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
	AcademyID string `json:"academy_id"`
	Role      string `json:"role"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)
	if user.Email == "" || user.Name == "" {
		return apierr.Validation("email and name are required")
	}
	if user.AcademyID == uuid.Nil {
		return apierr.Validation("academy id is required")
	}
	if user.Role == "" {
		user.Role = types.RoleStudent
	}
	if user.Role != types.RoleStudent && user.Role != types.RoleAdmin {
		return apierr.Validation("invalid role %q", user.Role)
	}

	existing, err := as.userRepo.GetByEmails(ctx, nil, []string{user.Email})
	if err != nil {
		return apierr.Database("failed to check for existing user", err)
	}
	if len(existing) > 0 {
		return apierr.Duplicate("email %s is already registered", user.Email)
	}

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return apierr.Validation("%v", err)
	}
	user.Password = hashed
	user.ID = uuid.New()

	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		if apierr.IsUniqueViolation(err) {
			return apierr.Duplicate("email %s is already registered", user.Email)
		}
		return apierr.Database("failed to create user", err)
	}
	as.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", apierr.Validation("email and password are required")
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", apierr.Database("failed to load user", err)
	}
	if len(users) == 0 {
		return "", "", apierr.Forbidden("invalid email or password")
	}
	user := users[0]
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return "", "", apierr.Forbidden("invalid email or password")
	}

	var accessToken, refreshToken string
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if ftErr != nil {
			return ftErr
		}
		var expiredIDs []uuid.UUID
		for _, token := range found {
			if token.ExpiresAt.Before(time.Now()) {
				expiredIDs = append(expiredIDs, token.ID)
			}
		}
		if dtErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, expiredIDs); dtErr != nil {
			return dtErr
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return genErr
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		_, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken})
		return ctErr
	})
	if txErr != nil {
		return "", "", apierr.Database("failed to issue tokens", txErr)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return "", "", apierr.Forbidden("no authenticated session")
	}

	var accessToken, newRefreshToken string
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if ftErr != nil {
			return ftErr
		}
		if len(found) == 0 {
			return apierr.Forbidden("session not found")
		}
		existingToken := found[0]
		if existingToken.ExpiresAt.Before(time.Now()) {
			if dtErr := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existingToken.ID}); dtErr != nil {
				return dtErr
			}
			return apierr.Forbidden("session expired, please log in again")
		}

		users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existingToken.UserID})
		if uErr != nil {
			return uErr
		}
		if len(users) == 0 {
			return apierr.Forbidden("session user no longer exists")
		}
		user := users[0]

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return genErr
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		newToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newToken}); cErr != nil {
			return cErr
		}
		return as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existingToken.ID})
	})
	if txErr != nil {
		if _, code := apierr.StatusOf(txErr); code != apierr.CodeDatabase {
			return "", "", txErr
		}
		return "", "", apierr.Database("failed to refresh session", txErr)
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Forbidden("no authenticated session")
	}
	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
	if err != nil {
		return apierr.Database("failed to look up session", err)
	}
	var ids []uuid.UUID
	for _, token := range found {
		ids = append(ids, token.ID)
	}
	if err := as.userTokenRepo.FullDeleteByIDs(ctx, nil, ids); err != nil {
		return apierr.Database("failed to delete session", err)
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		AcademyID: user.AcademyID.String(),
		Role:      user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the bearer token and attaches the resolved
// tenant context. Every tenant-scoped handler reads the academy id from here,
// never from the request body.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Forbidden("missing bearer token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Forbidden("invalid token")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Forbidden("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Forbidden("invalid user id in token")
	}
	academyID, err := uuid.Parse(claims.AcademyID)
	if err != nil {
		return ctx, apierr.Forbidden("invalid academy id in token")
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		AcademyID:   academyID,
		Role:        claims.Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
