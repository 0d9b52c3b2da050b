package models

// Answer is the resolved response for one inbound question. It is produced
// exactly once per question and immutable once constructed; URL is empty
// unless the answer cites an allow-listed document.
type Answer struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type AskResponse struct {
	Answer       Answer `json:"answer"`
	Source       string `json:"source"`
	ResponseTime int    `json:"response_time_ms"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
