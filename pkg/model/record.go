package model

// Criterion is one firmographic or demographic targeting rule
type Criterion struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// BuyingSignal describes an observable event that suggests purchase intent
type BuyingSignal struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Priority        string `json:"priority"`
	Type            string `json:"type"`
	DetectionMethod string `json:"detectionMethod"`
}

// UseCase links a pain point to the capability that addresses it
type UseCase struct {
	UseCase        string `json:"useCase"`
	PainPoints     string `json:"painPoints"`
	Capability     string `json:"capability"`
	DesiredOutcome string `json:"desiredOutcome"`
}
