package cmd

import (
	"fmt"
	"log"

	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap SuperAdmin account",
	Long:  `Seed the database with the SuperAdmin account every deployment needs before any other user can be provisioned.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		policy := user.DefaultRolePolicy()
		if !policy.Allows(user.Department(seedDepartment), user.RoleSuperAdmin) {
			log.Fatalf("department %q does not admit the SuperAdmin role", seedDepartment)
		}

		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", seedEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("SuperAdmin already exists:", seedEmail)
			return
		}

		password, err := user.GeneratePassword()
		if err != nil {
			log.Fatalf("failed to generate password: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		if err := db.Exec(
			"INSERT INTO users (email, password_hash, department, role, is_password_change_allowed, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
			seedEmail, string(hash), seedDepartment, string(user.RoleSuperAdmin),
		).Error; err != nil {
			log.Fatalf("failed to insert SuperAdmin: %v", err)
		}

		fmt.Println("Seeded SuperAdmin:", seedEmail)
		fmt.Println("Generated password:", password)
	},
}
