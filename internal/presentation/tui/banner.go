package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the twiml CLI.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	s1 := termenv.String(" _____          _ __  __ _").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("|_   _|_      _(_)  \\/  | |").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("  | | \\ \\ /\\ / / | |\\/| | |").Foreground(p.Color("#c084fc"))
	s4 := termenv.String("  | |  \\ V  V /| | |  | | |___").Foreground(p.Color("#e879f9"))
	s5 := termenv.String("  |_|   \\_/\\_/ |_|_|  |_|_____|").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
