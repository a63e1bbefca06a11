// Command-line user management for the kotoba site
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/kotoba-school/kotoba/internal/auth"
	"github.com/kotoba-school/kotoba/internal/config"
	"github.com/kotoba-school/kotoba/internal/database"
	"github.com/kotoba-school/kotoba/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("kotoba user manager (version: %s)", config.AppVersion)

	var (
		createUser = flag.Bool("create", false, "Create a new user")
		listUsers  = flag.Bool("list", false, "List all users")
		deleteUser = flag.Bool("delete", false, "Delete a user")
		updateUser = flag.Bool("update", false, "Update a user's password")
		setAdmin   = flag.Bool("setadmin", false, "Toggle the admin flag for a user")
		login      = flag.String("login", "", "Login for user operations")
		email      = flag.String("email", "", "Email for user creation")
		profile    = flag.String("profile", "", "Profile name for user creation")
		admin      = flag.Bool("admin", false, "Admin flag value for -setadmin")
		dataDir    = flag.String("datadir", "", "Directory for the SQLite database (default: ./data or KOTOBA_DATA_DIR)")
	)
	flag.Parse()

	if !*createUser && !*listUsers && !*deleteUser && !*updateUser && !*setAdmin {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create -login yuki -email yuki@example.com -profile \"Yuki Tanaka\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -update -login yuki\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -setadmin -login yuki -admin\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete -login yuki\n", os.Args[0])
		os.Exit(1)
	}

	mainConfig := config.NewDefaultConfig()
	if *dataDir != "" {
		mainConfig.Database.DataDir = *dataDir
	}

	dbconfig := database.DefaultDBConfig()
	dbconfig.DataDir = mainConfig.Database.DataDir
	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	hasher := auth.NewHasher(mainConfig.Web.HashScheme)

	switch {
	case *createUser:
		if *login == "" {
			log.Fatal("Login is required for user creation")
		}
		if *email == "" {
			log.Fatal("Email is required for user creation")
		}
		if err := createNewUser(db, hasher, *login, *email, *profile); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

	case *listUsers:
		if err := listAllUsers(db); err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}

	case *deleteUser:
		if *login == "" {
			log.Fatal("Login is required for user deletion")
		}
		if err := db.DeleteUser(*login); err != nil {
			log.Fatalf("Failed to delete user: %v", err)
		}
		fmt.Printf("User '%s' deleted\n", *login)

	case *updateUser:
		if *login == "" {
			log.Fatal("Login is required for user update")
		}
		if err := updateUserPassword(db, hasher, *login); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}

	case *setAdmin:
		if *login == "" {
			log.Fatal("Login is required for -setadmin")
		}
		if err := db.SetUserAdmin(*login, *admin); err != nil {
			log.Fatalf("Failed to set admin flag: %v", err)
		}
		fmt.Printf("User '%s' admin flag set to %v\n", *login, *admin)
	}
}

// readPasswordTwice prompts for a password with confirmation on the terminal
func readPasswordTwice() (string, error) {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %v", err)
	}
	fmt.Println()

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters long")
	}
	return string(password), nil
}

func createNewUser(db *database.Database, hasher auth.Hasher, login, email, profileName string) error {
	exists, err := db.UserExists(login, email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("user with login '%s' or email '%s' already exists", login, email)
	}

	password, err := readPasswordTwice()
	if err != nil {
		return err
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	if profileName == "" {
		profileName = login
	}

	user, err := db.InsertUser(login, profileName, email, digest)
	if err != nil {
		return err
	}

	fmt.Printf("User '%s' created with ID %d\n", user.Login, user.ID)
	return nil
}

func listAllUsers(db *database.Database) error {
	users, err := db.ListUsers()
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("Found %d users:\n\n", len(users))
	fmt.Printf("%-4s %-6s %-20s %-30s %-20s %s\n", "ID", "Admin", "Login", "Email", "Profile Name", "Created")
	fmt.Printf("%-4s %-6s %-20s %-30s %-20s %s\n", "----", "-----", "-----", "-----", "------------", "-------")

	for _, user := range users {
		adminMark := "no"
		if user.IsAdmin {
			adminMark = "yes"
		}
		fmt.Printf("%-4d %-6s %-20s %-30s %-20s %s\n",
			user.ID,
			adminMark,
			truncate(user.Login, 20),
			truncate(user.Email, 30),
			truncate(user.ProfileName, 20),
			user.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

func updateUserPassword(db *database.Database, hasher auth.Hasher, login string) error {
	if _, err := db.GetUserByLogin(login); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return fmt.Errorf("user '%s' not found", login)
		}
		return err
	}

	password, err := readPasswordTwice()
	if err != nil {
		return err
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := db.UpdateUserPassword(login, digest); err != nil {
		return err
	}

	fmt.Printf("Password updated for user '%s'\n", login)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
