package quiz

import "math/rand/v2"

// palette holds the player colors, shuffled per game.
var palette = []string{
	"#E74C3C",
	"#3498DB",
	"#2ECC71",
	"#F1C40F",
	"#9B59B6",
	"#E67E22",
}

func shuffledPalette() []string {
	p := append([]string(nil), palette...)
	rand.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	return p
}
