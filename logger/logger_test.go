package logger_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/go1541/logger"
)

func expectString(t *testing.T, got, exp string) {
	t.Helper()
	if got != exp {
		t.Errorf("Output incorrect.\nexp: %q\ngot: %q", exp, got)
	}
}

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	expectString(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	expectString(t, w.String(), "test: this is a test\n")

	w.Reset()
	log.Logf(logger.Allow, "test2", "value %d", 42)
	log.Tail(w, 100)
	expectString(t, w.String(), "test: this is a test\ntest2: value 42\n")

	w.Reset()
	log.Tail(w, 1)
	expectString(t, w.String(), "test2: value 42\n")

	w.Reset()
	log.Tail(w, 0)
	expectString(t, w.String(), "")
}

func TestRepeat(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	for range 3 {
		log.Log(logger.Allow, "disk", "write\nprotect")
	}
	log.Write(w)
	expectString(t, w.String(), "disk: writeprotect (repeat x3)\n")
	if log.Len() != 1 {
		t.Errorf("Length incorrect. exp: 1, got: %d", log.Len())
	}
}

func TestMaxEntries(t *testing.T) {
	log := logger.NewLogger(5)
	for i := range 20 {
		log.Logf(logger.Allow, "tag", "%d", i)
	}
	if log.Len() != 5 {
		t.Errorf("Length incorrect. exp: 5, got: %d", log.Len())
	}
	w := &strings.Builder{}
	log.Tail(w, 1)
	expectString(t, w.String(), "tag: 19\n")
}

type quiet bool

func (q quiet) AllowLogging() bool {
	return !bool(q)
}

func TestPermissionAndEcho(t *testing.T) {
	log := logger.NewLogger(10)
	echo := &strings.Builder{}
	log.SetEcho(echo)

	log.Log(quiet(true), "tag", "hidden")
	log.Log(quiet(false), "tag", "shown")
	expectString(t, echo.String(), "tag: shown\n")

	log.SetEcho(nil)
	log.Clear()
	log.Log(logger.Allow, "tag", "after")
	expectString(t, echo.String(), "tag: shown\n")
	expectString(t, fmt.Sprint(log.Len()), "1")
}
