package notify

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/gen2brain/beeep"
)

// Desktop shows a system notification. When IconsDir/{Manga} holds
// pictures, one of them is picked at random as the icon.
type Desktop struct {
	IconsDir string

	send func(title, message, icon string) error
}

func NewDesktop(iconsDir string) *Desktop {
	beeep.AppName = AppName
	return &Desktop{
		IconsDir: iconsDir,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

func (d *Desktop) Send(_ context.Context, r Release) error {
	if err := d.send(AppName, r.Message(), d.icon(r.Manga)); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

func (d *Desktop) icon(manga string) string {
	if d.IconsDir == "" {
		return ""
	}

	dir := filepath.Join(d.IconsDir, manga)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var icons []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			icons = append(icons, filepath.Join(dir, e.Name()))
		}
	}
	if len(icons) == 0 {
		return ""
	}

	return icons[rand.IntN(len(icons))]
}
