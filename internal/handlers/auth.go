package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

func validatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasNumber bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsNumber(ch):
			hasNumber = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasNumber {
		return errors.New("password must be at least 8 characters and contain an uppercase letter, a lowercase letter and a number")
	}
	return nil
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func issueToken(c *gin.Context, user *models.User, status int) {
	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, gin.H{"token": token, "user": user})
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateUsername(input.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters of letters, numbers, underscores or hyphens"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var existing int64
	database.DB.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists. Please sign in instead."})
		return
	}
	database.DB.Unscoped().Model(&models.User{}).Where("username = ?", input.Username).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "This username is already taken. Please choose another one."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       utils.GenerateID(),
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Username: input.Username,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondError(c, err, "User")
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered")
	issueToken(c, &user, http.StatusCreated)
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error; err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		logger.Warn().Str("user_id", user.ID).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")
	issueToken(c, &user, http.StatusOK)
}

// Logout revokes the current token until it would have expired anyway.
func Logout(c *gin.Context) {
	v, _ := c.Get("claims")
	claims, ok := v.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	if err := database.BlacklistToken(utils.GetJTI(claims), utils.RemainingTTL(claims)); err != nil {
		logger.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to blacklist token")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// --- OAuth ---

var (
	googleOauthConfig *oauth2.Config
	githubOauthConfig *oauth2.Config
)

func InitOAuthConfig() {
	cfg := config.AppConfig
	if cfg.GoogleClientID != "" {
		googleOauthConfig = &oauth2.Config{
			RedirectURL:  cfg.GoogleCallbackURL,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		}
	} else {
		logger.Warn().Msg("Google OAuth keys missing")
	}

	if cfg.GithubClientID != "" {
		githubOauthConfig = &oauth2.Config{
			RedirectURL:  cfg.GithubCallbackURL,
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			Scopes:       []string{"user:email", "read:user"},
			Endpoint:     github.Endpoint,
		}
	} else {
		logger.Warn().Msg("GitHub OAuth keys missing")
	}
}

const oauthStateTTL = 10 * time.Minute

// newOAuthState returns a random state value, remembered in Redis when available.
func newOAuthState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	state := hex.EncodeToString(buf)
	if database.Redis != nil {
		database.Redis.Set(database.Ctx, "oauth_state:"+state, "1", oauthStateTTL)
	}
	return state
}

func consumeOAuthState(state string) bool {
	if state == "" {
		return false
	}
	if database.Redis == nil {
		return true
	}
	n, err := database.Redis.Del(database.Ctx, "oauth_state:"+state).Result()
	return err == nil && n == 1
}

func oauthRedirect(cfg *oauth2.Config, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": name + " OAuth not configured"})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, cfg.AuthCodeURL(newOAuthState()))
	}
}

func GoogleLogin(c *gin.Context) {
	oauthRedirect(googleOauthConfig, "Google")(c)
}

func GithubLogin(c *gin.Context) {
	oauthRedirect(githubOauthConfig, "GitHub")(c)
}

// oauthProfile fetches userinfoURL with the exchanged token into dest.
func oauthProfile(c *gin.Context, cfg *oauth2.Config, userinfoURL string, dest interface{}) bool {
	if !consumeOAuthState(c.Query("state")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	token, err := cfg.Exchange(ctx, c.Query("code"))
	if err != nil {
		logger.Error().Err(err).Msg("OAuth exchange failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange token"})
		return false
	}

	resp, err := cfg.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get OAuth user info")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get user info"})
		return false
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to parse user info"})
		return false
	}
	return true
}

func GoogleCallback(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if !oauthProfile(c, googleOauthConfig, "https://www.googleapis.com/oauth2/v2/userinfo", &info) {
		return
	}
	if user := handleOAuthLogin(c, info.Email, info.Name, info.Picture, ""); user != nil {
		finishOAuthLogin(c, user)
	}
}

func GithubCallback(c *gin.Context) {
	if githubOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "GitHub OAuth not configured"})
		return
	}
	var info struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}
	if !oauthProfile(c, githubOauthConfig, "https://api.github.com/user", &info) {
		return
	}
	email := info.Email
	if email == "" {
		email = fmt.Sprintf("%s@users.noreply.github.com", info.Login)
	}
	if user := handleOAuthLogin(c, email, info.Name, info.AvatarURL, info.Login); user != nil {
		finishOAuthLogin(c, user)
	}
}

// handleOAuthLogin finds the user by email, restoring soft-deleted accounts,
// or registers a new one when registration is open.
func handleOAuthLogin(c *gin.Context, email, name, image, preferredUsername string) *models.User {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OAuth provider did not return an email"})
		return nil
	}

	var user models.User
	err := database.DB.Unscoped().Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.DeletedAt.Valid {
			if err := database.DB.Unscoped().Model(&user).Update("deleted_at", nil).Error; err != nil {
				logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to restore soft-deleted user during OAuth")
			}
		}
		if user.IsBlocked {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked"})
			return nil
		}
		return &user
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Msg("Database query failed during OAuth login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error during login process"})
		return nil
	}

	if database.GetSetting(models.SettingRegistrationOpen, "true") == "false" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "User registration is currently closed"})
		return nil
	}

	base := preferredUsername
	if base == "" {
		base = strings.Split(email, "@")[0]
	}
	base = strings.ReplaceAll(utils.GenerateSlug(base), "-", "_")
	username := utils.TruncateString(base, 24)
	var taken int64
	database.DB.Unscoped().Model(&models.User{}).Where("username = ?", username).Count(&taken)
	if taken > 0 || len(username) < 3 {
		username = utils.TruncateString(base, 20) + "_" + utils.GenerateID()[:4]
	}

	user = models.User{
		ID:       utils.GenerateID(),
		Email:    email,
		Name:     name,
		Image:    image,
		Username: username,
		Role:     models.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Failed to create user during OAuth")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account creation failed"})
		return nil
	}
	logger.Info().Str("user_id", user.ID).Msg("User registered via OAuth")
	return &user
}

func finishOAuthLogin(c *gin.Context, user *models.User) {
	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token during OAuth")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in via OAuth")
	redirectURL := fmt.Sprintf("%s/oauth-callback?token=%s", config.AppConfig.FrontendURL, url.QueryEscape(token))
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
