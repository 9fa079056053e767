package server

import (
	"math/rand/v2"
)

// Nickname word lists.
var (
	adjectives = []string{
		"Brave", "Sly", "Lucky", "Grumpy", "Swift",
		"Quiet", "Bold", "Clever", "Sleepy", "Fierce",
		"Jolly", "Sneaky", "Calm", "Wild", "Proud",
		"Shiny", "Crafty", "Stubborn", "Gentle", "Frosty",
	}

	nouns = []string{
		"Fox", "Bear", "Wolf", "Hedgehog", "Owl",
		"Lynx", "Badger", "Hare", "Raven", "Otter",
		"Moose", "Squirrel", "Falcon", "Boar", "Stoat",
		"Magpie", "Beaver", "Crane", "Marten", "Elk",
	}
)

// GenerateNickname returns a random two-word nickname.
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return adj + noun
}
