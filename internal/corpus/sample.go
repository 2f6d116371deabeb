package corpus

import (
	"fmt"
	"os"
	"path/filepath"
)

type sampleDocument struct {
	id      string
	title   string
	content string
}

var sampleDocuments = []sampleDocument{
	{
		id:    "paper_001",
		title: "Clinical Characteristics and Treatment Protocols in Respiratory Illness",
		content: "This study examines the clinical characteristics of hospitalized patients " +
			"and evaluates various treatment protocols including antiviral medications " +
			"and supportive care measures across multiple treatment centers.",
	},
	{
		id:    "paper_002",
		title: "Vaccine Development and Efficacy Studies",
		content: "Research on vaccine development focusing on mRNA technology and clinical " +
			"trial results showing efficacy and safety profiles across diverse age groups " +
			"and risk categories.",
	},
	{
		id:    "paper_003",
		title: "Epidemiological Analysis of Disease Spread",
		content: "Epidemiological study analyzing the transmission patterns and factors " +
			"influencing disease spread across different populations and regions, with " +
			"emphasis on seasonal variation and population density.",
	},
}

// WriteSampleDocuments creates dir if needed and writes a small sample
// corpus into it, one .txt file per document with the title on the first
// line. Used to bootstrap a development environment with no corpus on disk.
func WriteSampleDocuments(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating corpus directory %s: %w", dir, err)
	}
	for _, doc := range sampleDocuments {
		path := filepath.Join(dir, doc.id+".txt")
		content := fmt.Sprintf("%s\n\n%s", doc.title, doc.content)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing sample document %s: %w", path, err)
		}
	}
	return nil
}
