package main

import (
	"os"

	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
)

// Exit codes: 0 job completed (per-record failures are reported in the
// summary, not the exit code), 1 argument misuse or fatal error, 2 unhandled
// panic during execution.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("unhandled panic: %v", r)
			os.Exit(2)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
