package domain

type Language struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Greeting string `yaml:"greeting"`
}

type QuestionCategory struct {
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
}
