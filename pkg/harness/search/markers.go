package search

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed markers.yaml
var defaultMarkersYAML []byte

// Markers are the texts and selectors the workflow looks for on the page.
type Markers struct {
	ConsentButtons    []string `yaml:"consent_buttons"`
	ConsentFrame      string   `yaml:"consent_frame"`
	ChallengePath     string   `yaml:"challenge_path"`
	ChallengeTexts    []string `yaml:"challenge_texts"`
	ChallengeFrame    string   `yaml:"challenge_frame"`
	SearchInput       string   `yaml:"search_input"`
	SearchButton      string   `yaml:"search_button"`
	ResultsContainers []string `yaml:"results_containers"`
	ResultHeading     string   `yaml:"result_heading"`
}

// DefaultMarkers returns the built-in markers for Google's search pages.
func DefaultMarkers() Markers {
	var m Markers
	if err := yaml.Unmarshal(defaultMarkersYAML, &m); err != nil {
		panic(fmt.Sprintf("search: embedded markers: %v", err))
	}
	return m
}

// ParseMarkers decodes YAML markers on top of DefaultMarkers: fields absent
// from data keep their default values, lists present in data replace the
// defaults entirely.
func ParseMarkers(data []byte) (Markers, error) {
	m := DefaultMarkers()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Markers{}, fmt.Errorf("parse markers: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Markers{}, err
	}
	return m, nil
}

// Validate reports missing required markers.
func (m Markers) Validate() error {
	var errs []error
	if m.SearchInput == "" {
		errs = append(errs, errors.New("search_input is required"))
	}
	if len(m.ResultsContainers) == 0 {
		errs = append(errs, errors.New("results_containers is required"))
	}
	if m.ResultHeading == "" {
		errs = append(errs, errors.New("result_heading is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid markers: %w", err)
	}
	return nil
}

// resultsXPath joins the container expressions into one union expression.
func (m Markers) resultsXPath() string {
	return strings.Join(m.ResultsContainers, " | ")
}
