package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV serializes the report as a flat table: summary statistics, a
// blank row, the reviews timeline, another blank row, then the ratings
// distribution. Output is reproducible byte-for-byte for identical input.
func WriteCSV(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	summary := report.Summary
	rows := [][]string{
		{"Metric", "Value", "Description"},
		{"Total Doctors", strconv.Itoa(summary.TotalDoctors), "Registered medical professionals"},
		{"Total Reviews", strconv.Itoa(summary.TotalReviews), "Patient feedback submissions"},
		{"Total Users", strconv.Itoa(summary.TotalUsers), "Registered platform users"},
		{"Pending Reviews", strconv.Itoa(summary.PendingReviews), "Awaiting moderation"},
		{"Average Rating", summary.AverageRating, "Across all doctors"},
		{"Activity Rate", summary.ActivityRate, "Reviews per user"},
		{"Approval Rate", summary.ApprovalRate + "%", "Reviews approved"},
		{""},
		{"Date", "Total Reviews", "Pending Reviews", "Approved Reviews"},
	}
	for _, bucket := range report.ReviewsTimeline {
		rows = append(rows, []string{
			bucket.Date,
			strconv.Itoa(bucket.Total),
			strconv.Itoa(bucket.Pending),
			strconv.Itoa(bucket.Approved),
		})
	}
	rows = append(rows, []string{""}, []string{"Rating", "Count"})
	for _, bucket := range report.RatingsDistribution {
		rows = append(rows, []string{
			fmt.Sprintf("%d stars", bucket.Rating),
			strconv.Itoa(bucket.Count),
		})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
