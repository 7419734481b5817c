package dto

// OpenAPIReq is the request payload for the OpenAI chat completions API.
type OpenAPIReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// Message is a chat message with multimodal content parts.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is either prompt text or an image reference.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries a data URI with the base64-encoded chart.
type ImageURL struct {
	URL string `json:"url"`
}

// OpenAPIRes is the response from the OpenAI chat completions API.
type OpenAPIRes struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion candidate.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage is the assistant reply within a choice.
type ResponseMessage struct {
	Content string `json:"content"`
}

// Usage reports token consumption for rate limiting.
type Usage struct {
	TotalTokens int `json:"total_tokens"`
}
