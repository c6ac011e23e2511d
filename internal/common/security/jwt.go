package security

import (
	"fmt"
	"time"

	"contest_judge/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimUserID = "user_id"
	claimRole   = "role"
)

// Claims is the caller identity carried by an access token.
type Claims struct {
	UserID string
	Role   string
}

var TokenAuth *jwtauth.JWTAuth

// now stamps iat and exp on issued tokens.
var now = time.Now

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken signs an access token for the user that expires after config.AppConfig.JWTExp.
func GenerateToken(userID, role string) (string, error) {
	issued := now()
	_, signed, err := TokenAuth.Encode(jwt.MapClaims{
		claimUserID: userID,
		claimRole:   role,
		"iat":       issued.Unix(),
		"exp":       issued.Add(config.AppConfig.JWTExp).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", userID, err)
	}
	return signed, nil
}

// ParseClaims reads the identity out of claims that jwtauth has already verified.
func ParseClaims(raw map[string]interface{}) (Claims, error) {
	userID, err := claimString(raw, claimUserID)
	if err != nil {
		return Claims{}, err
	}
	if userID == "" {
		return Claims{}, fmt.Errorf("%s claim is empty", claimUserID)
	}
	role, err := claimString(raw, claimRole)
	if err != nil {
		return Claims{}, err
	}
	return Claims{UserID: userID, Role: role}, nil
}

func claimString(raw map[string]interface{}, key string) (string, error) {
	v, ok := raw[key].(string)
	if !ok {
		return "", fmt.Errorf("%s claim is missing or not a string", key)
	}
	return v, nil
}
