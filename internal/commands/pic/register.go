// Package pic provides "?pic bird" and "?pic pov", which upload a random
// picture from the images directory.
package pic

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

// pick returns a number in [1, n]
var pick = func(n int) int { return rand.IntN(n) + 1 }

// Group builds the pic group serving files from imagesDir
func Group(imagesDir string) *discord.Group {
	return discord.NewGroup(
		"Pic",
		"Sends pictures",
		discord.NewCommand("bird", "Sends a picture of a bird", "pic", sendPicture(imagesDir, "bird", 2)),
		discord.NewCommand("pov", "Sends a pov picture", "pic", sendPicture(imagesDir, "pov", 3)),
	).WithPrefixes("pic").WithBucket("pic")
}

// sendPicture uploads <dir>/<name><1..variants>.jpg
func sendPicture(dir, name string, variants int) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		file := fmt.Sprintf("%s%d.jpg", name, pick(variants))

		f, err := os.Open(filepath.Join(dir, file))
		if err != nil {
			_ = ctx.Reply("Could not find that picture.")
			return fmt.Errorf("opening %s: %w", file, err)
		}
		defer f.Close()

		return ctx.SendFiles(discord.File{Name: file, Reader: f})
	}
}
