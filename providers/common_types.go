package providers

// The authentication type of the specific provider
const (
	AuthTypeBearer = "bearer"
	AuthTypeQuery  = "query"
	AuthTypeNone   = "none"
)

// The default base URLs of each provider
const (
	DeepseekDefaultBaseURL = "https://api.deepseek.com"
	GoogleDefaultBaseURL   = "https://generativelanguage.googleapis.com"
	GroqDefaultBaseURL     = "https://api.groq.com"
	OllamaDefaultBaseURL   = "http://ollama:8080"
	OpenaiDefaultBaseURL   = "https://api.openai.com"
)

// The ID's of each provider
const (
	DeepseekID = "deepseek"
	GoogleID   = "google"
	GroqID     = "groq"
	OllamaID   = "ollama"
	OpenaiID   = "openai"
)

// Display names for providers
const (
	DeepseekDisplayName = "DeepSeek"
	GoogleDisplayName   = "Google"
	GroqDisplayName     = "Groq"
	OllamaDisplayName   = "Ollama"
	OpenaiDisplayName   = "Openai"
)
