package scenario

// Key identifies a scenario in the catalog.
type Key string

const (
	Copyright Key = "COPYRIGHT"
	Patent    Key = "PATENT"
)

// DefaultKey is used when a session has to be opened without an explicit
// scenario choice, e.g. remote recovery launched from the selection screen.
const DefaultKey = Copyright

// Scenario captures the persona and briefing exposed to the frontend.
type Scenario struct {
	Key           Key      `json:"key" yaml:"key"`
	Title         string   `json:"title" yaml:"title"`
	TopicName     string   `json:"topicName" yaml:"topicName"`
	CharacterName string   `json:"characterName" yaml:"characterName"`
	CharacterID   string   `json:"characterId" yaml:"characterId"` // persona identifier on the chat backend
	Description   string   `json:"description,omitempty" yaml:"description"`
	Difficulty    string   `json:"difficulty,omitempty" yaml:"difficulty"`
	Focus         []string `json:"focus,omitempty" yaml:"focus"`
	IntroText     string   `json:"introText" yaml:"introText"`
}

// Seed provides the built-in practice scenarios.
func Seed() []Scenario {
	return []Scenario{
		{
			Key:           Copyright,
			Title:         "Copyright Infringement",
			TopicName:     "Copyright Law",
			CharacterName: "Dave",
			CharacterID:   "40d1e4d6-afc2-11f0-9b3c-42010a7be025",
			Description:   "Conduct an initial client interview regarding the unauthorized use of a personal photograph.",
			Difficulty:    "Intermediate",
			Focus:         []string{"Fact Gathering", "Copyright Act 1987", "Infringement Analysis"},
			IntroText: "---\n⚖️ Practice Scenario: Copyright Infringement\n\n" +
				"Client Name: Dave\n" +
				"Matter: Unauthorized Use of Personal Photography and Copyright Claim\n" +
				"Objective: As the legal consultant, your primary goal is to conduct an effective initial interview. " +
				"You must establish the attorney-client relationship, gather all necessary facts regarding the creation, " +
				"sharing, and unauthorized use of the photograph, and assess the potential viability of a copyright " +
				"infringement claim against Greg.\n\n" +
				"Assessment Focus: Effective fact-gathering, professionalism, and issue-spotting.\n\n---\n\n" +
				"Dave is now ready for your consultation.\n\n" +
				"Start the role-play by welcoming Dave, introducing yourself, confirming confidentiality, " +
				"and initiating the fact-gathering process.",
		},
		{
			Key:           Patent,
			Title:         "Patent Application & Ownership",
			TopicName:     "Patent Law",
			CharacterName: "Luke",
			CharacterID:   "8099b06c-d592-11f0-9ecc-42010a7be027",
			Description:   "Advise an engineer on patentability, prior disclosure risks, and employer ownership rights.",
			Difficulty:    "Advanced",
			Focus:         []string{"Patent Act 1983", "Employment Law", "Trade Secrets"},
			IntroText: "---\n⚖️ Practice Scenario: Patent Application & Ownership\n\n" +
				"Client Name: Luke\n" +
				"Matter: 'Plasafe' Invention - Biodegradable Plastic Solvent\n" +
				"Objective: As the legal consultant, you are interviewing Luke, a chemical engineer at Fojip Sdn Bhd " +
				"who has developed 'Plasafe', a liquid that dissolves plastic. Your objectives are to:\n" +
				"1. Assess patentability (novelty, inventive step, industrial application).\n" +
				"2. Address the risks of his prior disclosure to friends and his plan to \"test the market\" before filing.\n" +
				"3. Determine if his employer, Fojip Sdn Bhd, has a claim to the invention given his use of company " +
				"resources for failed experiments versus personal resources for the successful one.\n\n" +
				"Assessment Focus: Fact-gathering on public disclosure and employment terms, and advising on patent " +
				"strategy vs. trade secrets.\n\n---\n\n" +
				"Luke is waiting for you.\n\n" +
				"Start the consultation by introducing yourself and asking Luke to elaborate on his invention and " +
				"the circumstances of its development.",
		},
	}
}
