package department_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
	"github.com/frahmantamala/resource-management/internal/department"
	departmentPostgres "github.com/frahmantamala/resource-management/internal/department/postgres"
	"github.com/frahmantamala/resource-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Department Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    department.RepositoryAPI
		handler *department.Handler
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&resourceDatamodel.Department{})).To(Succeed())

		repo = departmentPostgres.NewDepartmentRepository(db)
		service := department.NewService(repo, slogger)
		handler = department.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		ctx := context.Background()
		for _, name := range []string{"Operations", "Engineering"} {
			Expect(repo.Create(ctx, department.ToDataModel(department.NewDepartment(name)))).To(Succeed())
		}

		closed := department.ToDataModel(department.NewDepartment("Closed"))
		Expect(repo.Create(ctx, closed)).To(Succeed())
		closed.IsActive = false
		Expect(repo.Update(ctx, closed)).To(Succeed())
	})

	It("should handle GET /departments request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/departments", nil)
		w := httptest.NewRecorder()

		handler.GetDepartments(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response []department.DepartmentResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response).To(HaveLen(2))
		Expect(response[0].Name).To(Equal("Engineering"))
		Expect(response[1].Name).To(Equal("Operations"))
	})

	It("should return 500 when the table is missing", func() {
		Expect(db.Migrator().DropTable(&resourceDatamodel.Department{})).To(Succeed())

		req := httptest.NewRequest(http.MethodGet, "/departments", nil)
		w := httptest.NewRecorder()

		handler.GetDepartments(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
