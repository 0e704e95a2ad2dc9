package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/auth"
	reportDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/report"
	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
	submissionDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/submission"
	departmentPostgres "github.com/frahmantamala/resource-management/internal/department/postgres"
	resourcePostgres "github.com/frahmantamala/resource-management/internal/resource/postgres"
	"github.com/frahmantamala/resource-management/internal/submission"
	submissionPostgres "github.com/frahmantamala/resource-management/internal/submission/postgres"
	"github.com/frahmantamala/resource-management/internal/user"
	userPostgres "github.com/frahmantamala/resource-management/internal/user/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, departments, resources, changes, time entries and submissions.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGormDB(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seedUsers(ctx, db, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("failed to seed users: %v", err)
		}

		departments, err := seedDepartments(ctx, db)
		if err != nil {
			log.Fatalf("failed to seed departments: %v", err)
		}

		resources, err := seedResources(db, departments)
		if err != nil {
			log.Fatalf("failed to seed resources: %v", err)
		}

		changes, err := seedChanges(db)
		if err != nil {
			log.Fatalf("failed to seed changes: %v", err)
		}

		if err := seedAllocations(db, resources, changes); err != nil {
			log.Fatalf("failed to seed allocations: %v", err)
		}

		if err := seedTimeEntries(db, resources, changes); err != nil {
			log.Fatalf("failed to seed time entries: %v", err)
		}

		if err := seedSubmissions(ctx, db, resources); err != nil {
			log.Fatalf("failed to seed submissions: %v", err)
		}

		fmt.Println("Sample data seeded successfully")
	},
}

func clearSeedData(db *gorm.DB) error {
	return db.Exec(`TRUNCATE reminder_logs, timesheet_submissions, time_entries, allocations,
		changes, resources, departments, user_roles, roles, users RESTART IDENTITY CASCADE`).Error
}

func seedUsers(ctx context.Context, db *gorm.DB, cost int) error {
	hash, err := auth.HashPassword("password", cost)
	if err != nil {
		return err
	}

	users := []struct {
		Email string
		Name  string
		Roles []string
	}{
		{"controller@mail.com", "Bianca Controller", []string{internal.RoleBusinessController}},
		{"lead@mail.com", "Luca Lead", []string{internal.RoleChangeLead}},
		{"manager@mail.com", "Mara Manager", []string{internal.RoleManagerChange}},
		{"admin@mail.com", "Ada Admin", []string{internal.RoleAdmin, internal.RoleBusinessController}},
	}

	repo := userPostgres.NewUserRepository(db)
	for _, u := range users {
		row := &user.User{Email: u.Email, Name: u.Name, PasswordHash: hash, IsActive: true}
		if err := repo.Create(ctx, row); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		for _, role := range u.Roles {
			if err := repo.AssignRole(ctx, row.ID, role); err != nil {
				return fmt.Errorf("role %s for %s: %w", role, u.Email, err)
			}
		}
		fmt.Printf("Seeded user %s %v\n", u.Email, u.Roles)
	}
	return nil
}

func seedDepartments(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	repo := departmentPostgres.NewDepartmentRepository(db)
	ids := make(map[string]int64)
	for _, name := range []string{"Engineering", "Finance", "Operations", "Transformation"} {
		dep, err := repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if dep == nil {
			dep = &resourceDatamodel.Department{Name: name, IsActive: true}
			if err := repo.Create(ctx, dep); err != nil {
				return nil, fmt.Errorf("department %s: %w", name, err)
			}
		}
		ids[name] = dep.ID
	}
	return ids, nil
}

func seedResources(db *gorm.DB, departments map[string]int64) ([]*resourceDatamodel.Resource, error) {
	samples := []struct {
		Name, Email, Department, Role, Skills string
		Capacity                              float64
		Active                                bool
	}{
		{"Alice Martin", "alice@mail.com", "Engineering", "Change Lead", "Go, Kubernetes, PostgreSQL", 40, true},
		{"Bruno Costa", "bruno@mail.com", "Engineering", "Developer", "Go, React", 40, true},
		{"Chloe Dubois", "chloe@mail.com", "Finance", "Business Controller", "Excel, SAP", 32, true},
		{"Dev Patel", "dev@mail.com", "Operations", "Manager Change", "ITIL, Agile", 40, true},
		{"Elena Rossi", "elena@mail.com", "Transformation", "Analyst", "SQL, Power BI", 24, true},
		{"Farid Haddad", "farid@mail.com", "Operations", "", "", 0, false},
	}

	repo := resourcePostgres.NewResourceRepository(db)
	out := make([]*resourceDatamodel.Resource, 0, len(samples))
	for _, s := range samples {
		var existing resourceDatamodel.Resource
		err := db.Where("email = ?", s.Email).First(&existing).Error
		if err == nil {
			out = append(out, &existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		depID := departments[s.Department]
		row := &resourceDatamodel.Resource{
			Name:           s.Name,
			Email:          s.Email,
			DepartmentID:   &depID,
			Role:           s.Role,
			WeeklyCapacity: s.Capacity,
			Skills:         s.Skills,
			IsActive:       s.Active,
		}
		if err := repo.Create(row); err != nil {
			return nil, fmt.Errorf("resource %s: %w", s.Email, err)
		}
		out = append(out, row)
	}
	fmt.Printf("Seeded %d resources\n", len(out))
	return out, nil
}

func seedChanges(db *gorm.DB) ([]*reportDatamodel.Change, error) {
	strPtr := func(s string) *string { return &s }
	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)
	closedEnd := monthStart.AddDate(0, -1, 0)

	samples := []*reportDatamodel.Change{
		{Title: "Billing platform migration", Status: "In Progress", Director: strPtr("Nadia Director"), ChangeLead: strPtr("Alice Martin"), Stream: strPtr("Finance Systems"), StartDate: monthStart.AddDate(0, -3, 0)},
		{Title: "Service desk rollout", Status: "Planned", ChangeLead: strPtr("Dev Patel"), StartDate: monthStart},
		{Title: "Legacy report retirement", Status: "Completed", Director: strPtr("Nadia Director"), StartDate: monthStart.AddDate(0, -6, 0), EndDate: &closedEnd},
	}

	for _, c := range samples {
		if err := db.Where("title = ?", c.Title).FirstOrCreate(c).Error; err != nil {
			return nil, fmt.Errorf("change %s: %w", c.Title, err)
		}
	}
	return samples, nil
}

func seedAllocations(db *gorm.DB, resources []*resourceDatamodel.Resource, changes []*reportDatamodel.Change) error {
	var count int64
	if err := db.Model(&resourceDatamodel.Allocation{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	repo := resourcePostgres.NewResourceRepository(db)
	plan := []struct {
		Resource, Change int
		Hours            string
	}{
		{0, 0, "30"},
		{0, 1, "15"},
		{1, 0, "20"},
		{2, 0, "16"},
		{3, 1, "34"},
	}
	for _, p := range plan {
		changeID := changes[p.Change].ID
		if err := repo.CreateAllocation(&resourceDatamodel.Allocation{
			ResourceID:     resources[p.Resource].ID,
			ChangeID:       &changeID,
			AllocatedHours: p.Hours,
		}); err != nil {
			return err
		}
	}
	fmt.Printf("Seeded %d allocations\n", len(plan))
	return nil
}

func seedTimeEntries(db *gorm.DB, resources []*resourceDatamodel.Resource, changes []*reportDatamodel.Change) error {
	var count int64
	if err := db.Model(&reportDatamodel.TimeEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var entries []*reportDatamodel.TimeEntry
	for day := 1; day <= 20; day++ {
		date := today.AddDate(0, 0, -day)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		entries = append(entries,
			&reportDatamodel.TimeEntry{ResourceID: resources[0].ID, ChangeID: changes[0].ID, EntryDate: date, Hours: 6, Description: "migration work"},
			&reportDatamodel.TimeEntry{ResourceID: resources[1].ID, ChangeID: changes[0].ID, EntryDate: date, Hours: 4},
			&reportDatamodel.TimeEntry{ResourceID: resources[3].ID, ChangeID: changes[1].ID, EntryDate: date, Hours: 7.5},
		)
	}
	if err := db.CreateInBatches(entries, 100).Error; err != nil {
		return err
	}
	fmt.Printf("Seeded %d time entries\n", len(entries))
	return nil
}

// seedSubmissions marks the previous week as submitted for every other active resource.
func seedSubmissions(ctx context.Context, db *gorm.DB, resources []*resourceDatamodel.Resource) error {
	repo := submissionPostgres.NewSubmissionRepository(db)
	week := submission.WeekStart(time.Now()).AddDate(0, 0, -7)
	for i, r := range resources {
		if !r.IsActive || i%2 == 1 {
			continue
		}
		submittedAt := week.AddDate(0, 0, 4)
		if err := repo.UpsertSubmission(ctx, &submissionDatamodel.TimesheetSubmission{
			ResourceID:    r.ID,
			WeekStartDate: week,
			IsSubmitted:   true,
			SubmittedAt:   &submittedAt,
		}); err != nil {
			return err
		}
	}
	fmt.Println("Seeded submissions for week", week.Format(time.DateOnly))
	return nil
}
