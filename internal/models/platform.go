package models

import "fmt"

// Platform identifies an artwork-hosting platform.
type Platform int

const (
	// Twitter artwork references (tweet status links).
	Twitter Platform = iota
	// Pixiv artwork references (artworks links).
	Pixiv

	platformCount
)

// Valid reports whether the value is a known platform.
func (p Platform) Valid() bool {
	return p >= Twitter && p < platformCount
}

func (p Platform) String() string {
	switch p {
	case Twitter:
		return "twitter"
	case Pixiv:
		return "pixiv"
	}
	return fmt.Sprintf("platform(%d)", int(p))
}
