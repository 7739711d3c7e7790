package github

// Repo is a partial GitHub repository document; only the fields the
// fallback probe needs to decide "this reference resolves"
type Repo struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	HTMLURL       string `json:"html_url"`
}

// Content is a partial GitHub contents-API document
type Content struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Type    string `json:"type"`
	HTMLURL string `json:"html_url"`
}
