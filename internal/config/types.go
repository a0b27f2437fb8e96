package config

// catalogFile is the YAML layout of a question catalog file.
type catalogFile struct {
	Questions []questionEntry `yaml:"questions"`
}

type questionEntry struct {
	ID         string `yaml:"id"`
	Text       string `yaml:"text"`
	SolutionID string `yaml:"solution_id"`
}
