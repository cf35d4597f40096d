package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakwars/internal/engine"
	"github.com/julianstephens/streakwars/internal/keyring"
	"github.com/julianstephens/streakwars/internal/lock"
	"github.com/julianstephens/streakwars/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests a next step for errors a player can fix, or "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, lock.ErrLocked):
		return "Close the other streakwars window, or wait for it to exit."
	case stderrors.Is(err, engine.NoActiveUser.Err()):
		return "Create a profile with 'streakwars init <name>'."
	case stderrors.Is(err, engine.InsufficientFunds.Err()):
		return "Complete habits to earn more coins."
	case stderrors.Is(err, keyring.ErrKeyringUnavailable):
		return "Set the secret through config or environment instead."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
