package providers

// Endpoints exposed by each provider
type Endpoints struct {
	// Generate is the path of the generation API relative to the base URL
	Generate string
}

// Base provider configuration
type Config struct {
	ID        string
	Name      string
	URL       string
	AuthType  string
	Endpoints Endpoints
}

// Compatible reports whether the provider speaks the OpenAI chat API
func (c Config) Compatible() bool {
	return c.ID != GoogleID
}

// The registry of all providers
var Registry = map[string]Config{
	DeepseekID: {
		ID:       DeepseekID,
		Name:     DeepseekDisplayName,
		URL:      DeepseekDefaultBaseURL,
		AuthType: AuthTypeBearer,
		Endpoints: Endpoints{
			Generate: "/v1",
		},
	},
	GoogleID: {
		ID:       GoogleID,
		Name:     GoogleDisplayName,
		URL:      GoogleDefaultBaseURL,
		AuthType: AuthTypeQuery,
		Endpoints: Endpoints{
			Generate: "/v1beta/models/{model}:generateContent",
		},
	},
	GroqID: {
		ID:       GroqID,
		Name:     GroqDisplayName,
		URL:      GroqDefaultBaseURL,
		AuthType: AuthTypeBearer,
		Endpoints: Endpoints{
			Generate: "/openai/v1",
		},
	},
	OllamaID: {
		ID:       OllamaID,
		Name:     OllamaDisplayName,
		URL:      OllamaDefaultBaseURL,
		AuthType: AuthTypeNone,
		Endpoints: Endpoints{
			Generate: "/v1",
		},
	},
	OpenaiID: {
		ID:       OpenaiID,
		Name:     OpenaiDisplayName,
		URL:      OpenaiDefaultBaseURL,
		AuthType: AuthTypeBearer,
		Endpoints: Endpoints{
			Generate: "/v1",
		},
	},
}
