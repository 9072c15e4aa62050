package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "некорректный токен авторизации"

	// wsTokenParam браузер не умеет передавать заголовки при открытии websocket
	wsTokenParam = "access_token"
)

var (
	// ErrMissingToken в запросе нет Bearer токена
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrInvalidClaims в токене нет sub или tenant_id
	ErrInvalidClaims = errors.New("auth: invalid token claims")
)

type tenantKey struct{}

// Claims поля JWT, которые выдает сервис авторизации. sub = ID пользователя.
type Claims struct {
	TenantID int64 `json:"tenant_id"`
	jwt.RegisteredClaims
}

// WithTenant кладет контекст тенанта в context
func WithTenant(ctx context.Context, tenant domain.TenantContext) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// GetTenant достает контекст тенанта, положенный Auth
func GetTenant(ctx context.Context) (domain.TenantContext, bool) {
	tenant, ok := ctx.Value(tenantKey{}).(domain.TenantContext)
	return tenant, ok
}

// GetUserID ID пользователя из контекста тенанта
func GetUserID(ctx context.Context) (int64, bool) {
	tenant, ok := GetTenant(ctx)
	if !ok || tenant.UserID == 0 {
		return 0, false
	}
	return tenant.UserID, true
}

// Authenticator проверяет HS256 токены и превращает их в domain.TenantContext
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator создает проверку токенов; пустой issuer не проверяется
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Auth middleware для сотрудников: требует валидный Bearer токен
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err != nil {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		tenant, err := a.Parse(raw)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
	})
}

// Parse проверяет подпись и срок действия токена
func (a *Authenticator) Parse(raw string) (domain.TenantContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.TenantContext{}, err
	}
	if !token.Valid {
		return domain.TenantContext{}, ErrInvalidClaims
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.TenantContext{}, fmt.Errorf("%w: sub %q", ErrInvalidClaims, claims.Subject)
	}
	if claims.TenantID <= 0 {
		return domain.TenantContext{}, fmt.Errorf("%w: tenant_id %d", ErrInvalidClaims, claims.TenantID)
	}

	return domain.NewStaffContext(claims.TenantID, userID), nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token, nil
		}
	}

	if websocket.IsWebSocketUpgrade(r) {
		if token := r.URL.Query().Get(wsTokenParam); token != "" {
			return token, nil
		}
	}

	return "", ErrMissingToken
}
