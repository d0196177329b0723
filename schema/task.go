package schema

// Task represents a published case study
type Task struct {
	ID               int    `json:"id"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	TaskNumber       int    `json:"task_number"`
	TheoryBlock      string `json:"theory_block"`
	MethodologyBlock string `json:"methodology_block"`
	DataBlock        string `json:"data_block"`
	ResultsBlock     string `json:"results_block"`
	ConclusionBlock  string `json:"conclusion_block"`
	LinksBlock       string `json:"links_block"`
}
