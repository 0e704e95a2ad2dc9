package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/resource-management/internal"
	userDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/user"
	"github.com/frahmantamala/resource-management/internal/transport"
	"github.com/frahmantamala/resource-management/internal/user"
	userPostgres "github.com/frahmantamala/resource-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    *userPostgres.UserRepository
		handler *user.Handler
		alice   *user.User
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{}, &userDatamodel.Role{}, &userDatamodel.UserRole{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
		handler = user.NewHandler(&transport.BaseHandler{Logger: slogger}, user.NewService(repo, slogger))

		ctx := context.Background()
		alice = &user.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "x", IsActive: true}
		Expect(repo.Create(ctx, alice)).To(Succeed())
		Expect(alice.ID).NotTo(BeZero())
		Expect(repo.AssignRole(ctx, alice.ID, internal.RoleChangeLead)).To(Succeed())
		Expect(repo.AssignRole(ctx, alice.ID, internal.RoleBusinessController)).To(Succeed())
	})

	Describe("AssignRole", func() {
		It("should not duplicate an existing grant", func() {
			ctx := context.Background()
			Expect(repo.AssignRole(ctx, alice.ID, internal.RoleChangeLead)).To(Succeed())

			roles, err := repo.GetRoles(ctx, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(Equal([]string{internal.RoleBusinessController, internal.RoleChangeLead}))
		})
	})

	Describe("GetCurrentUser", func() {
		It("should return the caller with roles", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.User{ID: alice.ID}))
			w := httptest.NewRecorder()

			handler.GetCurrentUser(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var body user.MeResponse
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body.Email).To(Equal("alice@example.com"))
			Expect(body.Roles).To(ConsistOf(internal.RoleChangeLead, internal.RoleBusinessController))
		})

		It("should return 401 without an authenticated caller", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			w := httptest.NewRecorder()

			handler.GetCurrentUser(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 404 for an unknown user", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.User{ID: 999}))
			w := httptest.NewRecorder()

			handler.GetCurrentUser(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
