package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// usagectl inspects or resets a caller's daily message counter. Resetting is
// a support action; day boundaries expire counters on their own.
func main() {
	var (
		identityFlag string
		dayFlag      string
		resetFlag    bool
	)
	flag.StringVar(&identityFlag, "identity", "", "quota identity (user id or guest origin)")
	flag.StringVar(&dayFlag, "day", "", "day to target as YYYY-MM-DD (defaults to today UTC)")
	flag.BoolVar(&resetFlag, "reset", false, "delete the counter instead of printing it")
	flag.Parse()

	id := strings.TrimSpace(identityFlag)
	if id == "" {
		exitWithError(errors.New("-identity is required"))
	}
	day := strings.TrimSpace(dayFlag)
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		exitWithError(fmt.Errorf("invalid -day %q: %v", dayFlag, err))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to create pool: %v", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "usagectl").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	if resetFlag {
		if _, err := runner.Exec(ctx, sqlinline.QResetUsage, id, day); err != nil {
			exitWithError(fmt.Errorf("failed to reset counter: %v", err))
		}
		fmt.Printf("counter reset for %s on %s\n", id, day)
		return
	}

	var count int
	if err := runner.QueryRow(ctx, sqlinline.QSelectUsageCount, id, day).Scan(&count); err != nil {
		if infra.IsNoRows(err) {
			fmt.Printf("no usage recorded for %s on %s\n", id, day)
			return
		}
		exitWithError(fmt.Errorf("failed to read counter: %v", err))
	}
	fmt.Printf("%s used %d messages on %s\n", id, count, day)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
