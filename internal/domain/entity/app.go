package entity

// AppCategory groups mini apps in the directory.
type AppCategory string

const (
	CategoryDeFi   AppCategory = "DeFi"
	CategorySocial AppCategory = "Social"
	CategoryGames  AppCategory = "Games"
	CategoryTools  AppCategory = "Tools"
)

// AppCard is a read-only mini app directory entry. Cards are never mutated
// after seeding, only filtered, sorted and paginated for display.
type AppCard struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Intro     string      `json:"intro"`
	Category  AppCategory `json:"category"`
	Tags      []string    `json:"tags"`
	Image     string      `json:"image"`
	Website   string      `json:"website"`
	Verified  bool        `json:"verified,omitempty"`
	Rating    float64     `json:"rating,omitempty"`
	Installs  string      `json:"installs,omitempty"`
	UpdatedAt string      `json:"updatedAt,omitempty"`
	Version   string      `json:"version,omitempty"`
}
