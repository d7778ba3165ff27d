package presenter

// Slide is one onboarding page.
type Slide struct {
	Title string
	Lines []string
}

// OnboardingSlides are shown once before the first login.
var OnboardingSlides = []Slide{
	{
		Title: "Welcome to SayAh",
		Lines: []string{"SayAh is an AI-powered app that helps detect potential strep throat infections using your phone's camera."},
	},
	{
		Title: "How It Works",
		Lines: []string{
			"📸 Capture an image of your throat",
			"🤖 Our AI analyzes the image",
			"📊 Get instant results & recommendations",
		},
	},
	{
		Title: "Medical Disclaimer",
		Lines: []string{"If you experience severe sore throat, fever, or difficulty swallowing, consult a healthcare professional. SayAh is not a substitute for medical advice."},
	},
}

// CaptureGuidelines are printed before a photo is taken.
var CaptureGuidelines = []string{
	"Use a well-lit environment.",
	"Hold the camera close to your throat.",
	`Say "Ahhh" to fully expose the throat.`,
	"Avoid blocking the tonsils with your tongue.",
	"Keep the flash on for clarity.",
}

// FAQEntry is one question on the FAQ screen.
type FAQEntry struct {
	Question string
	Answer   string
}

// FAQ is the static frequently-asked-questions list.
var FAQ = []FAQEntry{
	{
		Question: "What is strep throat?",
		Answer:   "Strep throat is a bacterial infection that causes a sore throat and fever. It requires antibiotic treatment.",
	},
	{
		Question: "How does SayAh work?",
		Answer:   "SayAh uses AI to analyze images of your throat and provide a probability of infection.",
	},
	{
		Question: "Is SayAh a replacement for a doctor?",
		Answer:   "No, SayAh is an AI-powered tool meant for preliminary analysis. Always consult a healthcare professional for medical advice.",
	},
	{
		Question: "How accurate is the diagnosis?",
		Answer:   "While our AI is trained on a medical dataset, it is not 100% accurate. It serves as an assistive tool, not a diagnostic device.",
	},
}
