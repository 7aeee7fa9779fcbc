package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/mverdier/tally/internal/cli"
	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/repository"
	"github.com/mverdier/tally/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.tally/tally.db
	dbPath := os.Getenv("TALLY_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tally", "tally.db")
	}

	// Plain output when stdout is not a terminal.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	entryRepo := repository.NewSQLiteTimesheetRepo(database)
	lockRepo := repository.NewSQLiteLockRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Users:      service.NewUserService(userRepo, projectRepo),
		Projects:   service.NewProjectService(projectRepo, userRepo, uow),
		Stages:     service.NewStageService(stageRepo, projectRepo, uow),
		Tasks:      service.NewTaskService(taskRepo, stageRepo, projectRepo, entryRepo, uow),
		Reorder:    service.NewReorderService(uow),
		Timesheets: service.NewTimesheetService(entryRepo, lockRepo, uow),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
