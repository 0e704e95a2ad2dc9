package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/auth"
	"github.com/frahmantamala/resource-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	credentials map[string]*auth.Credentials
	users       map[int64]*internal.User
	err         error
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := auth.HashPassword("correct_password", bcrypt.MinCost)

	return &mockUserRepository{
		credentials: map[string]*auth.Credentials{
			"lead@example.com":     {UserID: 1, Email: "lead@example.com", PasswordHash: hash, IsActive: true},
			"control@example.com":  {UserID: 2, Email: "control@example.com", PasswordHash: hash, IsActive: true},
			"inactive@example.com": {UserID: 3, Email: "inactive@example.com", PasswordHash: hash, IsActive: false},
		},
		users: map[int64]*internal.User{
			1: {ID: 1, Email: "lead@example.com", Name: "Lead", Roles: []string{internal.RoleChangeLead}},
			2: {ID: 2, Email: "control@example.com", Name: "Control", Roles: []string{internal.RoleBusinessController}},
		},
	}
}

func (m *mockUserRepository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.credentials[email], nil
}

func (m *mockUserRepository) GetUserWithRoles(ctx context.Context, userID int64) (*internal.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if userID == 3 {
		return nil, internal.ErrUserInactive
	}
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockUserRepository
		tokenGen *auth.JWTTokenGenerator
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockUserRepository()
		tokenGen = auth.NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		service = auth.NewService(mockRepo, tokenGen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("Authenticate", func() {
		It("should return access and refresh tokens for valid credentials", func() {
			tokens, err := service.Authenticate(ctx, auth.LoginDTO{Email: "lead@example.com", Password: "correct_password"})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
			Expect(tokens.AccessToken).NotTo(Equal(tokens.RefreshToken))
			Expect(tokens.ExpiresIn).To(Equal(int64(900)))

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
			Expect(claims.Email).To(Equal("lead@example.com"))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "lead@example.com", Password: "wrong"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ghost@example.com", Password: "correct_password"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should reject an inactive user", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "inactive@example.com", Password: "correct_password"})
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})

		It("should return a validation error for missing fields", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "lead@example.com"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("should surface repository failures", func() {
			mockRepo.err = errors.New("connection refused")
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "lead@example.com", Password: "correct_password"})
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(ctx, auth.LoginDTO{Email: "lead@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(ctx, tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
		})

		It("should refuse an access token used as refresh token", func() {
			tokens, err := service.Authenticate(ctx, auth.LoginDTO{Email: "lead@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(ctx, tokens.AccessToken)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should refuse tokens of users that became inactive", func() {
			refresh, err := tokenGen.GenerateRefreshToken("3", "inactive@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(ctx, refresh)
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})
	})

	Describe("JWTTokenGenerator", func() {
		It("should refuse a refresh token as access token", func() {
			refresh, err := tokenGen.GenerateRefreshToken("1", "lead@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = tokenGen.ValidateAccessToken(refresh)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should report expired tokens", func() {
			short := auth.NewJWTTokenGenerator("a", "r", time.Nanosecond, time.Hour)
			token, err := short.GenerateAccessToken("1", "lead@example.com")
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(1100 * time.Millisecond)
			_, err = short.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})

		It("should refuse tokens signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("other", "other", time.Hour, time.Hour)
			token, err := other.GenerateAccessToken("1", "lead@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = tokenGen.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})
})

var _ = Describe("AuthHandler", func() {
	var (
		handler  *auth.Handler
		tokenGen *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		tokenGen = auth.NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", time.Hour, time.Hour)
		handler = auth.NewHandler(transport.NewBaseHandler(lg), auth.NewService(newMockUserRepository(), tokenGen, lg))
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.Login(w, req)
		return w
	}

	Describe("Login", func() {
		It("should return tokens in camelCase", func() {
			w := login(`{"email":"control@example.com","password":"correct_password"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			var body map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKey("accessToken"))
			Expect(body).To(HaveKey("refreshToken"))
			Expect(body).To(HaveKey("expiresIn"))
		})

		It("should return 401 for bad credentials", func() {
			w := login(`{"email":"control@example.com","password":"nope"}`)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 for malformed input", func() {
			Expect(login(`{`).Code).To(Equal(http.StatusBadRequest))
			Expect(login(`{"email":"not-an-email","password":"x"}`).Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("AuthMiddleware", func() {
		var reached *internal.User

		protected := func() http.Handler {
			return handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached, _ = internal.UserFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))
		}

		BeforeEach(func() {
			reached = nil
		})

		It("should put the user with roles on the context", func() {
			token, err := tokenGen.GenerateAccessToken("2", "control@example.com")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			protected().ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(reached).NotTo(BeNil())
			Expect(reached.HasRole("business controller")).To(BeTrue())
		})

		It("should reject requests without a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			w := httptest.NewRecorder()
			protected().ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeNil())
		})

		It("should reject refresh tokens", func() {
			token, err := tokenGen.GenerateRefreshToken("2", "control@example.com")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			protected().ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should reject tokens for unknown users", func() {
			token, err := tokenGen.GenerateAccessToken("42", "ghost@example.com")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			protected().ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
