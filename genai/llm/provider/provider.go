package provider

const (
	// ProviderMistral identifies the Mistral chat completion API
	ProviderMistral = "mistral"
)
