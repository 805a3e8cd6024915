package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Text    string    `yaml:"question_text"`
	PubDate time.Time `yaml:"pub_date"`
	Choices []string  `yaml:"choices"`
}

func readSeedFile(path string) ([]ports.CreateQuestionInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parseSeed(content)
}

func parseSeed(content []byte) ([]ports.CreateQuestionInput, error) {
	var f seedFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	inputs := make([]ports.CreateQuestionInput, 0, len(f.Questions))
	for _, q := range f.Questions {
		inputs = append(inputs, ports.CreateQuestionInput{
			Text:    q.Text,
			PubDate: q.PubDate,
			Choices: q.Choices,
		})
	}
	return inputs, nil
}
