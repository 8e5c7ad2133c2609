package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner with the library version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Warm gradient, amber to rose
	s1 := termenv.String(`  _                              __ _               `).Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(` | |__   ___  _  _ _ _  __ ___  / _| |_____ __ __    `).Foreground(p.Color("#fb923c"))
	s3 := termenv.String(` | '_ \ / _ \| || | ' \/ _/ -_)|  _| / _ \ V  V /    `).Foreground(p.Color("#f87171"))
	s4 := termenv.String(` |_.__/ \___/ \_,_|_||_\__\___||_| |_\___/\_/\_/     `).Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(termenv.String(fmt.Sprintf("   hardware insert bounce %s", strings.TrimSpace(version))).Faint())
	fmt.Println()
}
