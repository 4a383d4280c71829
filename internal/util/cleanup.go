package util

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

// SetupInterruptHandler exits on SIGINT/SIGTERM after removing chapter
// directories that never received a page, so an aborted chapter does not
// look downloaded to the next routine run.
func SetupInterruptHandler(scansRoot string) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		RemoveEmptyChapterDirs(scansRoot)
		RemoveIfEmpty(scansRoot)
		fmt.Println("Exiting due to interrupt. Partially downloaded chapters are kept.")

		os.Exit(1)
	}()
}

func RemoveEmptyChapterDirs(root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		full := filepath.Join(root, e.Name())
		if RemoveIfEmpty(full) {
			fmt.Printf("Removed empty chapter folder %s\n", full)
		}
	}
}

// RemoveIfEmpty deletes dir when it has no entries and reports whether it did.
func RemoveIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return false
	}

	return os.Remove(dir) == nil
}
