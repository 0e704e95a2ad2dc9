package resource_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
	"github.com/frahmantamala/resource-management/internal/resource"
	resourcePostgres "github.com/frahmantamala/resource-management/internal/resource/postgres"
	"github.com/frahmantamala/resource-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Resource Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    *resourcePostgres.ResourceRepository
		handler *resource.Handler
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&resourceDatamodel.Department{}, &resourceDatamodel.Resource{}, &resourceDatamodel.Allocation{})).To(Succeed())

		repo = resourcePostgres.NewResourceRepository(db)
		handler = resource.NewHandler(&transport.BaseHandler{Logger: slogger}, resource.NewService(repo, slogger))

		eng := &resourceDatamodel.Department{Name: "Engineering", IsActive: true}
		Expect(db.Create(eng).Error).To(Succeed())

		ada := &resourceDatamodel.Resource{Name: "Ada", Email: "ada@example.com", DepartmentID: &eng.ID, Role: "Change Lead", WeeklyCapacity: 40, Skills: "Java, SQL", IsActive: true}
		ben := &resourceDatamodel.Resource{Name: "Ben", Email: "ben@example.com", Role: "Business Controller", WeeklyCapacity: 40, IsActive: true}
		Expect(repo.Create(ben)).To(Succeed())
		Expect(repo.Create(ada)).To(Succeed())
		Expect(repo.CreateAllocation(&resourceDatamodel.Allocation{ResourceID: ada.ID, AllocatedHours: "32"})).To(Succeed())
	})

	get := func(target string, h http.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	It("should list resources ordered by name with their department", func() {
		w := get("/resources", handler.GetResources)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body []resource.Resource
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(names(body)).To(Equal([]string{"Ada", "Ben"}))
		Expect(body[0].Department).To(Equal("Engineering"))
		Expect(body[0].Skills).To(Equal(resource.Skills{"Java", "SQL"}))
		Expect(body[1].Department).To(BeEmpty())
	})

	It("should apply query filters", func() {
		w := get("/resources?status=near-capacity", handler.GetResources)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body []resource.Resource
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(names(body)).To(Equal([]string{"Ada"}))
	})

	It("should reject unknown filter values", func() {
		w := get("/resources?capacity=lots", handler.GetResources)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should list allocations", func() {
		w := get("/allocations", handler.GetAllocations)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body []resource.Allocation
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body).To(HaveLen(1))
		Expect(body[0].Hours()).To(Equal(32.0))
	})

	It("should resolve ids and ignore unknown ones", func() {
		found, err := repo.GetByIDs(context.Background(), []int64{1, 2, 99})
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(HaveLen(2))

		none, err := repo.GetByIDs(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(none).To(BeEmpty())
	})

	It("should return 500 when storage fails", func() {
		Expect(db.Migrator().DropTable(&resourceDatamodel.Resource{})).To(Succeed())
		Expect(get("/resources", handler.GetResources).Code).To(Equal(http.StatusInternalServerError))
	})
})
