package utils

const (
	OrganizationName = "FarmCare"
	APIVersion       = "1.0.0"

	CORSProductionOrigin = "https://myfarmcare.vercel.app"
	CORSLocalDevOrigin   = "http://localhost:5173"

	DiceBearBaseURL = "https://api.dicebear.com/6.x"
)

// Avatar collections and seeds used when a new account gets a random DiceBear image.
var (
	ProfileImageCollections = []string{
		"adventurer", "adventurer-neutral", "avataaars", "avataaars-neutral",
		"big-ears", "big-ears-neutral", "big-smile", "bottts", "croodles",
		"croodles-neutral", "fun-emoji", "icons", "identicon", "initials",
		"lorelei", "lorelei-neutral", "micah", "miniavs", "notionists",
		"notionists-neutral", "open-peeps", "personas", "pixel-art",
		"pixel-art-neutral", "shapes", "thumbs",
	}
	ProfileImageSeeds = []string{
		"alice", "bob", "charlie", "david", "emma", "frank", "grace", "henry",
		"ivy", "jack", "karen", "leo", "mia", "nathan", "olivia", "peter",
		"quinn", "rachel", "sam", "tara", "uma", "victor", "wendy", "xander",
		"yara", "zack",
	}
)
