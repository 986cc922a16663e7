package main

import (
	"fmt"

	"github.com/fatih/color"

	"portal-client/internal/analyses"
	"portal-client/internal/dashboard"
)

// scoreColor picks the highlight for a 0-100 score.
func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 60:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func renderAnalysis(a analyses.Analysis) {
	header := color.New(color.FgCyan, color.Bold)
	header.Println("Analysis complete")
	if a.Score != nil {
		// Scores parsed out of the analysis text are on a 0-5 scale.
		scaled := *a.Score
		if scaled <= 5 {
			scaled *= 20
		}
		fmt.Printf("Score: %s\n", scoreColor(scaled).Sprintf("%d", *a.Score))
	}
	if a.AnalysisText != "" {
		fmt.Println()
		fmt.Println(a.AnalysisText)
	}
	printList("Strengths", a.Strengths)
	printList("Areas to improve", a.Improvements)
	printList("Recommendations", a.Recommendations)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Println()
	color.New(color.Bold).Println(title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func renderDashboard(env dashboard.Envelope) {
	stats := dashboard.ComputeStats(env)
	bold := color.New(color.Bold)

	bold.Printf("Documents: %d", stats.TotalDocuments)
	if stats.AverageScore > 0 {
		fmt.Printf("   Average score: %s", scoreColor(stats.AverageScore).Sprintf("%d", stats.AverageScore))
	}
	fmt.Printf("   Time saved: ~%dh\n\n", stats.TimeSavedHours)

	if len(env.Documents) == 0 {
		fmt.Println("No documents uploaded yet. Run 'portal analyze -file <path>'.")
		return
	}

	for _, doc := range env.Documents {
		fmt.Printf("%s  %s (%s)\n", color.CyanString(doc.ID), doc.Name, doc.Type)
		a, ok := env.Analyses[doc.ID]
		if !ok {
			fmt.Println("    no analysis")
			continue
		}
		line := fmt.Sprintf("    %s", a.Status)
		if a.Score != nil {
			line += fmt.Sprintf("  score %s", scoreColor(*a.Score).Sprintf("%d", *a.Score))
		}
		if a.Status == analyses.StatusFailed && a.ErrorMessage != "" {
			line += "  " + color.RedString(a.ErrorMessage)
		}
		fmt.Println(line)
	}
}
