package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gilchrisn/brain-connectivity-service/pkg/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: analyze <dataset.json> [config.yaml] [output.json]")
		fmt.Println()
		fmt.Println("Runs the connectivity analysis pipeline over a dataset and writes a JSON report.")
		os.Exit(1)
	}
	datasetPath := os.Args[1]

	cfg := pipeline.NewConfig()
	if len(os.Args) > 2 {
		if err := cfg.LoadFromFile(os.Args[2]); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	outputPath := "report.json"
	if len(os.Args) > 3 {
		outputPath = os.Args[3]
	}

	ds, err := pipeline.LoadDataset(datasetPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	p := pipeline.New(cfg)
	report, err := p.Run(context.Background(), ds)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if err := p.SaveReport(outputPath, report); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	fmt.Printf("Run %s: %d bands over %d channels\n",
		report.RunID, len(report.Bands), len(report.Channels))
	fmt.Printf("Overall dominance: %s (mean ratio %.3f)\n",
		report.Summary.OverallDominance, report.Summary.MeanDominanceRatio)
	fmt.Printf("Most active channel: %s\n", report.Summary.MostFrequentChannel)
	fmt.Printf("Report written to %s\n", outputPath)
}
