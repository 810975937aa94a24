package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/fixtures"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/export"
	"github.com/noah-isme/timetable-api/pkg/logger"
)

const usage = `usage:
  timetable-cli solve --dir <fixtures> [--previous schedule.json] [--format json|csv] [--timeout 60s]
  timetable-cli token --subject <name> --role ADMIN|SCHEDULER|VIEWER`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "solve":
		err = runSolve(ctx, cfg, logr, os.Args[2:], os.Stdout)
	case "token":
		err = runToken(cfg, logr, os.Args[2:], os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type solveOutput struct {
	Status      string                `json:"status"`
	Schedule    []scheduler.Entry     `json:"schedule"`
	Kept        int                   `json:"kept"`
	Variables   int                   `json:"variables"`
	Diagnostics scheduler.Diagnostics `json:"diagnostics"`
	Violations  []scheduler.Violation `json:"violations,omitempty"`
	ElapsedMS   int64                 `json:"elapsed_ms"`
}

func runSolve(ctx context.Context, cfg *config.Config, logr *zap.Logger, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("solve", pflag.ContinueOnError)
	dir := fs.String("dir", "", "directory holding the fixture CSV files")
	previousPath := fs.String("previous", "", "JSON file with the previous schedule")
	format := fs.String("format", "json", "output format: json or csv")
	timeout := fs.Duration("timeout", cfg.Solver.Timeout, "solve budget")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("--dir is required")
	}

	snapshot, err := fixtures.LoadSnapshot(*dir)
	if err != nil {
		return err
	}
	locks, err := fixtures.LoadLocks(*dir)
	if err != nil {
		return err
	}
	var previous []scheduler.Entry
	if *previousPath != "" {
		raw, err := os.ReadFile(*previousPath)
		if err != nil {
			return fmt.Errorf("read previous schedule: %w", err)
		}
		if err := json.Unmarshal(raw, &previous); err != nil {
			return fmt.Errorf("decode previous schedule: %w", err)
		}
	}

	in, _ := service.BuildSolverInput(snapshot)
	solver := scheduler.New(nil, logr.Named("scheduler"), scheduler.Config{
		Timeout:      *timeout,
		MaxVariables: cfg.Solver.MaxVariables,
	})
	res, err := solver.Solve(ctx, in, scheduler.Options{Locks: locks, Previous: previous})
	if err != nil {
		return err
	}
	logr.Info("solve finished",
		zap.String("status", res.Status.String()),
		zap.Int("variables", res.Variables),
		zap.Duration("elapsed", res.Elapsed),
	)

	if strings.EqualFold(*format, "csv") {
		if !res.Status.Solved() {
			return fmt.Errorf("no schedule: %s", res.Status)
		}
		body, err := export.NewCSVExporter().Render(service.TimetableDataset(res.Schedule), "")
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	}

	output := solveOutput{
		Status:      res.Status.String(),
		Schedule:    res.Schedule,
		Kept:        res.Kept,
		Variables:   res.Variables,
		Diagnostics: res.Diagnostics,
		ElapsedMS:   res.Elapsed.Milliseconds(),
	}
	if res.Status.Solved() {
		output.Violations = scheduler.Verify(in, locks, res.Schedule)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func runToken(cfg *config.Config, logr *zap.Logger, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	subject := fs.String("subject", "", "operator name")
	role := fs.String("role", string(models.RoleScheduler), "operator role")
	ttl := fs.Duration("ttl", cfg.JWT.Expiration, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	auth := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: *ttl,
		Issuer:            cfg.JWT.Issuer,
	})
	token, err := auth.IssueToken(*subject, models.OperatorRole(strings.ToUpper(*role)))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(token)
}

