package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedDepartments = []struct {
	Name        string
	Description string
}{
	{"Administration", "Leadership, governance, and compliance"},
	{"Programs", "Program delivery and field operations"},
	{"Monitoring & Evaluation", "Impact tracking and learning"},
	{"Finance & Grants", "Budgeting, accounting, and donor reporting"},
	{"Human Resources", "People operations and safeguarding"},
	{"Operations & Logistics", "Procurement, logistics, and facilities"},
	{"Partnerships & Fundraising", "Donor relations and fundraising"},
	{"Communications", "Media, brand, and outreach"},
	{"IT & Data", "Systems and data management"},
	{"Safeguarding & Compliance", "Policy, risk, and compliance"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap admin and departments",
	Long:  `Create the standard departments and a bootstrap admin account. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		for _, d := range seedDepartments {
			var exists int
			if err := db.Raw("SELECT 1 FROM departments WHERE name = ?", d.Name).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO departments (name, description, created_at, updated_at) VALUES (?, ?, now(), now())",
				d.Name, d.Description).Error; err != nil {
				log.Fatalf("failed to insert department %s: %v", d.Name, err)
			}
			fmt.Println("Seeded department:", d.Name)
		}

		adminEmail := os.Getenv("ADMIN_EMAIL")
		if adminEmail == "" {
			adminEmail = "admin@example.org"
		}
		adminPassword := os.Getenv("ADMIN_PASSWORD")
		if adminPassword == "" {
			log.Fatal("ADMIN_PASSWORD must be set to seed the bootstrap admin")
		}
		if len(adminPassword) < 8 {
			log.Fatal("ADMIN_PASSWORD must be at least 8 characters")
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row().Scan(&exists); err == nil {
			fmt.Println("admin user already exists:", adminEmail)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		var adminDeptID int64
		if err := db.Raw("SELECT id FROM departments WHERE name = ?", "Administration").Row().Scan(&adminDeptID); err != nil {
			log.Fatalf("failed to lookup Administration department: %v", err)
		}

		if err := db.Exec(
			`INSERT INTO users (full_name, email, password_hash, role, department_id, is_active, created_at, updated_at)
			VALUES (?, ?, ?, 'admin', ?, true, now(), now())`,
			"System Admin", adminEmail, string(hash), adminDeptID).Error; err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}

		fmt.Println("Seeded admin user:", adminEmail)
	},
}
