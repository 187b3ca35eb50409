package types

type ProjectPatch struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	Category    Optional[string]   `json:"category"`
	Image       Optional[string]   `json:"image"`
	Tags        Optional[[]string] `json:"tags"`
	GithubURL   Optional[string]   `json:"github_url"`
	LiveURL     Optional[string]   `json:"live_url"`
	Order       Optional[string]   `json:"order"`
}
