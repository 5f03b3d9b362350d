// Command ledgerscan converts bank statements to spreadsheets.
//
// Usage:
//
//	ledgerscan -profiles profiles.yaml statement.pdf
//	ledgerscan -profiles profiles.yaml -out - scan.png
//	ledgerscan -profiles profiles.yaml -r -workers 4 -ledger runs.db statements/
//
// A .env file in the working directory is loaded when present; it may set
// LEDGERSCAN_PROFILES, LOG_LEVEL, LOG_FORMAT and TESSDATA_PREFIX.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tsawler/ledgerscan/internal/cli"
	"github.com/tsawler/ledgerscan/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := cli.Run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(result.ExitCode)
}
