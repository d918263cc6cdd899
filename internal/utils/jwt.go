package utils // package utils provides helper functions for token creation and key handling

import (
    "crypto/rand" // secure random number generation
    "encoding/hex" // hex encoding of random identifiers
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// RoleDevice is the role claim carried by door controller tokens.
const RoleDevice = "DEVICE"

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// DeviceToken represents a signed JWT issued to a door controller along
// with its expiry.  A zero Exp means the token never expires.
type DeviceToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewDeviceToken builds and signs an HS256 JWT for a door controller.  The
// subject is the device name and the role claim is RoleDevice.  A ttl of
// zero issues a token without an exp claim.
func NewDeviceToken(key []byte, device string, ttl time.Duration) (DeviceToken, error) {
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "sub":  device,
        "role": RoleDevice,
        "iat":  now.Unix(),
    }
    var exp time.Time
    if ttl > 0 {
        exp = now.Add(ttl)
        claims["exp"] = exp.Unix()
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
    if err != nil {
        return DeviceToken{}, err
    }
    return DeviceToken{Token: signed, Exp: exp}, nil
}

// NewSessionToken signs the session id into a short HS256 JWT used as the
// session cookie value.
func NewSessionToken(key []byte, sessionID string, ttl time.Duration) (string, error) {
    now := time.Now().UTC()
    claims := jwt.RegisteredClaims{
        ID:        sessionID,
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseSessionToken verifies a session cookie value and returns the
// session id it carries.
func ParseSessionToken(key []byte, raw string) (string, error) {
    var claims jwt.RegisteredClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, hmacKey(key), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid || claims.ID == "" {
        return "", ErrInvalidToken
    }
    return claims.ID, nil
}

// ParseDeviceToken verifies a device bearer token and returns its subject
// and role claims.
func ParseDeviceToken(key []byte, raw string) (subject, role string, err error) {
    claims := jwt.MapClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims, hmacKey(key), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid {
        return "", "", ErrInvalidToken
    }
    subject, _ = claims["sub"].(string)
    role, _ = claims["role"].(string)
    if subject == "" {
        return "", "", ErrInvalidToken
    }
    return subject, role, nil
}

// RandomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func RandomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

func hmacKey(key []byte) jwt.Keyfunc {
    return func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return key, nil
    }
}
